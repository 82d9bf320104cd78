package dimensions

import (
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// DimensionSet содержит построенные таблицы измерений и строки фактов
type DimensionSet struct {
	Times     []models.TimeDimension
	Customers []models.CustomerDimension
	Products  []models.ProductDimension
	Facts     []models.SalesFact
}

// Builder координирует построение таблиц измерений из очищенной таблицы.
// Построение не имеет побочных эффектов и не обращается к хранилищу
type Builder struct {
	logger       *utils.PipelineLogger
	timeProc     *TimeDimensionProcessor
	customerProc *CustomerDimensionProcessor
	productProc  *ProductDimensionProcessor
}

// NewBuilder создает новый экземпляр Builder
func NewBuilder(logger *utils.PipelineLogger) *Builder {
	return &Builder{
		logger:       logger,
		timeProc:     NewTimeDimensionProcessor(logger),
		customerProc: NewCustomerDimensionProcessor(logger),
		productProc:  NewProductDimensionProcessor(logger),
	}
}

// Build строит все три измерения и строки фактов из очищенной таблицы
func (b *Builder) Build(records []models.TransactionRecord) (*DimensionSet, error) {
	startTime := time.Now()
	b.logger.LogStageStart("построение измерений")

	if len(records) == 0 {
		return nil, &models.DataError{Reason: "очищенная таблица пуста, измерения построить невозможно"}
	}

	set := &DimensionSet{
		Times:     b.timeProc.Process(records),
		Customers: b.customerProc.Process(records),
		Products:  b.productProc.Process(records),
	}

	// Строки фактов: одна на строку транзакции, дата усечена до дня
	set.Facts = make([]models.SalesFact, 0, len(records))
	for _, r := range records {
		set.Facts = append(set.Facts, models.SalesFact{
			Invoice:     r.Invoice,
			CustomerID:  r.CustomerID,
			StockCode:   r.StockCode,
			InvoiceDate: r.InvoiceDay(),
			Quantity:    r.Quantity,
			TotalAmount: r.TotalAmount,
		})
	}

	b.logger.Info("Подготовлено строк фактов: %d", len(set.Facts))
	b.logger.LogStageComplete("построение измерений", startTime)

	return set, nil
}
