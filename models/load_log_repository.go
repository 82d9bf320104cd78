package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MySQLLoadLogRepository реализация LoadLogRepository для MySQL
type MySQLLoadLogRepository struct {
	db *sql.DB
}

// NewMySQLLoadLogRepository создает новый экземпляр MySQLLoadLogRepository
func NewMySQLLoadLogRepository(db *sql.DB) *MySQLLoadLogRepository {
	return &MySQLLoadLogRepository{
		db: db,
	}
}

// CreateLoadLogTable создает таблицу журнала загрузок, если она не существует
func (r *MySQLLoadLogRepository) CreateLoadLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS load_runs (
		id CHAR(36) PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		time_rows_inserted INT DEFAULT 0,
		customer_rows_inserted INT DEFAULT 0,
		product_rows_inserted INT DEFAULT 0,
		fact_rows_inserted INT DEFAULT 0,
		fact_rows_skipped INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы load_runs: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске загрузки и возвращает ее UUID
func (r *MySQLLoadLogRepository) CreateLogEntry(startTime time.Time) (string, error) {
	id := uuid.NewString()

	query := `
	INSERT INTO load_runs (id, start_time, status)
	VALUES (?, ?, 'in_progress')
	`

	_, err := r.db.Exec(query, id, startTime)
	if err != nil {
		return "", fmt.Errorf("ошибка при создании записи о запуске загрузки: %w", err)
	}

	return id, nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении загрузки
func (r *MySQLLoadLogRepository) UpdateLogEntrySuccess(id string, endTime time.Time, report LoadReport) error {
	executionTime := endTime.Sub(report.StartTime).Seconds()

	query := `
	UPDATE load_runs
	SET
		end_time = ?,
		status = 'success',
		time_rows_inserted = ?,
		customer_rows_inserted = ?,
		product_rows_inserted = ?,
		fact_rows_inserted = ?,
		fact_rows_skipped = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err := r.db.Exec(
		query,
		endTime,
		report.Times.Inserted,
		report.Customers.Inserted,
		report.Products.Inserted,
		report.Facts.Inserted,
		report.Facts.Skipped,
		executionTime,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи журнала загрузок: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении загрузки
func (r *MySQLLoadLogRepository) UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error {
	query := `
	UPDATE load_runs
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?
	WHERE id = ?
	`

	_, err := r.db.Exec(query, endTime, errorMessage, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи журнала загрузок: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске загрузки
func (r *MySQLLoadLogRepository) GetLastSuccessfulRun() (*LoadRunLog, error) {
	query := `
	SELECT id, start_time, end_time, status,
		time_rows_inserted, customer_rows_inserted, product_rows_inserted,
		fact_rows_inserted, fact_rows_skipped, execution_time_seconds
	FROM load_runs
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog LoadRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.ID,
		&runLog.StartTime,
		&runLog.EndTime,
		&runLog.Status,
		&runLog.TimeRowsInserted,
		&runLog.CustomerRowsInserted,
		&runLog.ProductRowsInserted,
		&runLog.FactRowsInserted,
		&runLog.FactRowsSkipped,
		&runLog.ExecutionTimeSeconds,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении последнего успешного запуска: %w", err)
	}

	return &runLog, nil
}
