package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// TimeLoader отвечает за загрузку измерения времени
type TimeLoader struct {
	db        *sql.DB
	logger    *utils.PipelineLogger
	batchSize int
}

// NewTimeLoader создает новый экземпляр TimeLoader
func NewTimeLoader(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *TimeLoader {
	return &TimeLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Load загружает измерение времени в хранилище
func (l *TimeLoader) Load(times []models.TimeDimension) (models.LoadStats, error) {
	if len(times) == 0 {
		l.logger.Debug("Нет записей измерения времени для загрузки")
		return models.LoadStats{}, nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки измерения времени (всего: %d)", len(times))

	query := `
		INSERT INTO Time_Dim (InvoiceDate, Year, Month, Day)
		VALUES (?, ?, ?, ?)
	`

	rows := make([][]interface{}, 0, len(times))
	for _, t := range times {
		rows = append(rows, []interface{}{
			t.InvoiceDate.Format("2006-01-02"),
			t.Year,
			t.Month,
			t.Day,
		})
	}

	stats, err := batchInsert(l.db, "Time_Dim", query, rows, l.batchSize, l.logger)
	if err != nil {
		return stats, err
	}

	l.logger.Info("Загрузка измерения времени завершена: передано %d, вставлено %d, пропущено %d. Длительность: %v",
		stats.Attempted, stats.Inserted, stats.Skipped, time.Since(startTime))
	return stats, nil
}

// TimeIDs возвращает соответствие календарного дня суррогатному ключу Time_ID.
// Вызывается после загрузки измерения времени, чтобы загрузчик фактов
// мог подставить внешние ключи
func (l *TimeLoader) TimeIDs() (map[string]int, error) {
	rows, err := l.db.Query("SELECT Time_ID, InvoiceDate FROM Time_Dim")
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении суррогатных ключей времени: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int)
	for rows.Next() {
		var id int
		var date time.Time
		if err := rows.Scan(&id, &date); err != nil {
			return nil, fmt.Errorf("ошибка при разборе строки Time_Dim: %w", err)
		}
		ids[date.Format("2006-01-02")] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении Time_Dim: %w", err)
	}

	return ids, nil
}
