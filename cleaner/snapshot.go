package cleaner

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/LilVoxy/coursework_retail/models"
)

// SaveSnapshot сохраняет сжатый снимок очищенной таблицы.
// Снимок позволяет повторным запускам анализа не перечитывать исходный файл
func (c *Cleaner) SaveSnapshot(records []models.TransactionRecord) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeCleanedRows(writer, records); err != nil {
		return err
	}

	compressed := snappy.Encode(nil, buf.Bytes())

	if dir := filepath.Dir(c.snapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("ошибка при создании каталога %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(c.snapshotPath, compressed, 0644); err != nil {
		return fmt.Errorf("ошибка при записи снимка %s: %w", c.snapshotPath, err)
	}

	c.logger.Debug("Снимок очищенных данных сохранен: %s (%d байт, сжато из %d)",
		c.snapshotPath, len(compressed), buf.Len())
	return nil
}

// LoadSnapshot восстанавливает очищенную таблицу из сжатого снимка
func (c *Cleaner) LoadSnapshot() ([]models.TransactionRecord, error) {
	compressed, err := os.ReadFile(c.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении снимка %s: %w", c.snapshotPath, err)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("ошибка при распаковке снимка %s: %w", c.snapshotPath, err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе снимка %s: %w", c.snapshotPath, err)
	}

	table, err := buildRawTable(rows)
	if err != nil {
		return nil, err
	}

	// Снимок записан уже очищенным, поэтому повторная фильтрация
	// ничего не удаляет, но выполняет разбор полей
	records, _ := c.clean(table)
	c.logger.Info("Очищенная таблица восстановлена из снимка: %d строк", len(records))
	return records, nil
}
