package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// SalesLoader отвечает за загрузку таблицы фактов продаж
type SalesLoader struct {
	db        *sql.DB
	logger    *utils.PipelineLogger
	batchSize int
}

// NewSalesLoader создает новый экземпляр SalesLoader
func NewSalesLoader(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *SalesLoader {
	return &SalesLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Load загружает факты продаж в хранилище.
// timeIDs — соответствие календарного дня суррогатному ключу Time_ID;
// измерения к этому моменту должны быть уже загружены.
// Дубликаты естественного ключа (Invoice, StockCode, Time_ID) пропускаются
func (l *SalesLoader) Load(facts []models.SalesFact, timeIDs map[string]int) (models.LoadStats, error) {
	if len(facts) == 0 {
		l.logger.Debug("Нет фактов продаж для загрузки")
		return models.LoadStats{}, nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки фактов продаж (всего: %d)", len(facts))

	query := `
		INSERT INTO Sales_Fact (Invoice, Customer_ID, StockCode, Time_ID, Quantity, Total_Amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	rows := make([][]interface{}, 0, len(facts))
	for _, f := range facts {
		day := f.InvoiceDate.Format("2006-01-02")
		timeID, ok := timeIDs[day]
		if !ok {
			// Измерение времени загружается раньше фактов, поэтому
			// отсутствие ключа означает нарушение порядка загрузки
			return models.LoadStats{}, fmt.Errorf("для даты %s не найден ключ измерения времени", day)
		}

		rows = append(rows, []interface{}{
			f.Invoice,
			f.CustomerID,
			f.StockCode,
			timeID,
			f.Quantity,
			f.TotalAmount,
		})
	}

	stats, err := batchInsert(l.db, "Sales_Fact", query, rows, l.batchSize, l.logger)
	if err != nil {
		return stats, err
	}

	l.logger.Info("Загрузка фактов продаж завершена: передано %d, вставлено %d, пропущено %d. Длительность: %v",
		stats.Attempted, stats.Inserted, stats.Skipped, time.Since(startTime))
	return stats, nil
}
