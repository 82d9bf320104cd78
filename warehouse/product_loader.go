package warehouse

import (
	"database/sql"
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// ProductLoader отвечает за загрузку измерения товаров
type ProductLoader struct {
	db        *sql.DB
	logger    *utils.PipelineLogger
	batchSize int
}

// NewProductLoader создает новый экземпляр ProductLoader
func NewProductLoader(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *ProductLoader {
	return &ProductLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Load загружает измерение товаров в хранилище
func (l *ProductLoader) Load(products []models.ProductDimension) (models.LoadStats, error) {
	if len(products) == 0 {
		l.logger.Debug("Нет записей измерения товаров для загрузки")
		return models.LoadStats{}, nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки измерения товаров (всего: %d)", len(products))

	query := `
		INSERT INTO Product_Dim (StockCode, Description, Price)
		VALUES (?, ?, ?)
	`

	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{p.StockCode, p.Description, p.Price})
	}

	stats, err := batchInsert(l.db, "Product_Dim", query, rows, l.batchSize, l.logger)
	if err != nil {
		return stats, err
	}

	l.logger.Info("Загрузка измерения товаров завершена: передано %d, вставлено %d, пропущено %d. Длительность: %v",
		stats.Attempted, stats.Inserted, stats.Skipped, time.Since(startTime))
	return stats, nil
}
