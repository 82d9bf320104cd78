package warehouse

import (
	"database/sql"
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// CustomerLoader отвечает за загрузку измерения покупателей
type CustomerLoader struct {
	db        *sql.DB
	logger    *utils.PipelineLogger
	batchSize int
}

// NewCustomerLoader создает новый экземпляр CustomerLoader
func NewCustomerLoader(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *CustomerLoader {
	return &CustomerLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Load загружает измерение покупателей в хранилище
func (l *CustomerLoader) Load(customers []models.CustomerDimension) (models.LoadStats, error) {
	if len(customers) == 0 {
		l.logger.Debug("Нет записей измерения покупателей для загрузки")
		return models.LoadStats{}, nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки измерения покупателей (всего: %d)", len(customers))

	query := `
		INSERT INTO Customer_Dim (Customer_ID, Country)
		VALUES (?, ?)
	`

	rows := make([][]interface{}, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []interface{}{c.CustomerID, c.Country})
	}

	stats, err := batchInsert(l.db, "Customer_Dim", query, rows, l.batchSize, l.logger)
	if err != nil {
		return stats, err
	}

	l.logger.Info("Загрузка измерения покупателей завершена: передано %d, вставлено %d, пропущено %d. Длительность: %v",
		stats.Attempted, stats.Inserted, stats.Skipped, time.Since(startTime))
	return stats, nil
}
