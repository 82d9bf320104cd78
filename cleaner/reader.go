package cleaner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/LilVoxy/coursework_retail/models"
)

// Обязательные колонки исходного файла
var requiredColumns = []string{
	"Invoice",
	"StockCode",
	"Description",
	"Quantity",
	"InvoiceDate",
	"Price",
	"Customer ID",
	"Country",
}

// rawTable представляет прочитанный табличный файл: заголовок и строки
type rawTable struct {
	columns map[string]int // имя колонки -> индекс
	rows    [][]string
}

// get возвращает значение колонки в строке (пустую строку, если колонки нет)
func (t *rawTable) get(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readRawFile читает исходный файл, выбирая формат по расширению (.csv или .xlsx)
func readRawFile(path string) (*rawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

// readCSV читает табличный файл в формате CSV
func readCSV(path string) (*rawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии файла %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении CSV-файла %s: %w", path, err)
	}

	return buildRawTable(records)
}

// readXLSX читает первый лист табличного файла в формате XLSX
func readXLSX(path string) (*rawTable, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии файла %s: %w", path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.DataError{Reason: "в XLSX-файле нет листов"}
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении листа %q: %w", sheets[0], err)
	}

	return buildRawTable(rows)
}

// buildRawTable строит rawTable из строк файла и проверяет схему
func buildRawTable(records [][]string) (*rawTable, error) {
	if len(records) == 0 {
		return nil, &models.DataError{Reason: "входной файл пуст"}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}

	// Проверяем наличие всех обязательных колонок
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &models.DataError{Column: name, Reason: "отсутствует обязательная колонка"}
		}
	}

	return &rawTable{
		columns: columns,
		rows:    records[1:],
	}, nil
}
