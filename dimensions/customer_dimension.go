package dimensions

import (
	"sort"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// CustomerDimensionProcessor отвечает за построение измерения покупателей
type CustomerDimensionProcessor struct {
	logger *utils.PipelineLogger
}

// NewCustomerDimensionProcessor создает новый экземпляр CustomerDimensionProcessor
func NewCustomerDimensionProcessor(logger *utils.PipelineLogger) *CustomerDimensionProcessor {
	return &CustomerDimensionProcessor{
		logger: logger,
	}
}

// Process строит измерение покупателей: одна запись на уникальный идентификатор.
// При нескольких наблюдаемых странах у одного покупателя побеждает последняя
// в порядке следования строк файла
func (p *CustomerDimensionProcessor) Process(records []models.TransactionRecord) []models.CustomerDimension {
	p.logger.Debug("Построение измерения покупателей...")

	countries := make(map[int]string)
	for _, r := range records {
		countries[r.CustomerID] = r.Country
	}

	ids := make([]int, 0, len(countries))
	for id := range countries {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	customers := make([]models.CustomerDimension, 0, len(ids))
	for _, id := range ids {
		customers = append(customers, models.CustomerDimension{
			CustomerID: id,
			Country:    countries[id],
		})
	}

	p.logger.Info("Измерение покупателей построено. Уникальных покупателей: %d", len(customers))
	return customers
}
