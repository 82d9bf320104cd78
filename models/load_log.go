package models

import (
	"time"
)

// LoadRunLog представляет запись о запуске загрузки хранилища
type LoadRunLog struct {
	ID                   string    `json:"id"` // UUID запуска
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	TimeRowsInserted     int       `json:"time_rows_inserted"`
	CustomerRowsInserted int       `json:"customer_rows_inserted"`
	ProductRowsInserted  int       `json:"product_rows_inserted"`
	FactRowsInserted     int       `json:"fact_rows_inserted"`
	FactRowsSkipped      int       `json:"fact_rows_skipped"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// LoadLogRepository представляет репозиторий для работы с журналом загрузок
type LoadLogRepository interface {
	// CreateLogEntry создает новую запись о запуске загрузки и возвращает ее UUID
	CreateLogEntry(startTime time.Time) (string, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении загрузки
	UpdateLogEntrySuccess(id string, endTime time.Time, report LoadReport) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении загрузки
	UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске
	GetLastSuccessfulRun() (*LoadRunLog, error)
}
