package dimensions

import (
	"sort"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// ProductDimensionProcessor отвечает за построение измерения товаров
type ProductDimensionProcessor struct {
	logger *utils.PipelineLogger
}

// NewProductDimensionProcessor создает новый экземпляр ProductDimensionProcessor
func NewProductDimensionProcessor(logger *utils.PipelineLogger) *ProductDimensionProcessor {
	return &ProductDimensionProcessor{
		logger: logger,
	}
}

// Process строит измерение товаров: одна запись на уникальный артикул.
// При изменяющихся описании или цене побеждает последнее наблюдение
// в порядке следования строк файла (та же политика, что и для покупателей)
func (p *ProductDimensionProcessor) Process(records []models.TransactionRecord) []models.ProductDimension {
	p.logger.Debug("Построение измерения товаров...")

	products := make(map[string]models.ProductDimension)
	for _, r := range records {
		products[r.StockCode] = models.ProductDimension{
			StockCode:   r.StockCode,
			Description: r.Description,
			Price:       r.UnitPrice,
		}
	}

	codes := make([]string, 0, len(products))
	for code := range products {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := make([]models.ProductDimension, 0, len(codes))
	for _, code := range codes {
		result = append(result, products[code])
	}

	p.logger.Info("Измерение товаров построено. Уникальных товаров: %d", len(result))
	return result
}
