package warehouse

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// Код ошибки MySQL для нарушения уникального ключа
const mysqlDuplicateEntry = 1062

// isDuplicateKey проверяет, является ли ошибка нарушением уникального ключа.
// Такие строки пропускаются, а не прерывают загрузку
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

// batchInsert вставляет строки порциями фиксированного размера.
// Каждая порция выполняется в отдельной транзакции с подготовленным запросом;
// дубликаты ключей пропускаются построчно, любая другая ошибка фатальна.
// В счетчиках учитываются только строки из зафиксированных порций
func batchInsert(db *sql.DB, table, query string, rows [][]interface{}, batchSize int, logger *utils.PipelineLogger) (models.LoadStats, error) {
	var stats models.LoadStats

	if batchSize <= 0 {
		batchSize = 1000
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		tx, err := db.Begin()
		if err != nil {
			return stats, fmt.Errorf("ошибка при начале транзакции для таблицы %s: %w", table, err)
		}

		stmt, err := tx.Prepare(query)
		if err != nil {
			tx.Rollback()
			return stats, fmt.Errorf("ошибка при подготовке запроса для таблицы %s: %w", table, err)
		}

		// Счетчики текущей порции: попадают в итог только после фиксации
		pendingInserted := 0
		pendingSkipped := 0

		for _, row := range batch {
			stats.Attempted++

			if _, err := stmt.Exec(row...); err != nil {
				if isDuplicateKey(err) {
					pendingSkipped++
					continue
				}
				stmt.Close()
				tx.Rollback()
				return stats, fmt.Errorf("ошибка при вставке в таблицу %s: %w", table, err)
			}
			pendingInserted++
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			tx.Rollback()
			return stats, fmt.Errorf("ошибка при фиксации транзакции для таблицы %s: %w", table, err)
		}

		stats.Inserted += pendingInserted
		stats.Skipped += pendingSkipped

		logger.Debug("Таблица %s: зафиксирована порция %d-%d (вставлено %d, пропущено %d)",
			table, start+1, end, pendingInserted, pendingSkipped)
	}

	return stats, nil
}
