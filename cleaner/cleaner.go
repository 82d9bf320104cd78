package cleaner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// Форматы даты, встречающиеся в исходных и очищенных файлах
var dateFormats = []string{
	"02-01-2006 15:04",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	"2006-01-02",
}

// Cleaner отвечает за загрузку, очистку и сохранение данных о транзакциях
type Cleaner struct {
	rawPath      string
	cleanedPath  string
	snapshotPath string
	logger       *utils.PipelineLogger
}

// NewCleaner создает новый экземпляр Cleaner
func NewCleaner(rawPath, cleanedPath, snapshotPath string, logger *utils.PipelineLogger) *Cleaner {
	return &Cleaner{
		rawPath:      rawPath,
		cleanedPath:  cleanedPath,
		snapshotPath: snapshotPath,
		logger:       logger,
	}
}

// Process выполняет полный цикл очистки: чтение, фильтрация, вычисление
// производных полей и сохранение очищенной таблицы
func (c *Cleaner) Process() ([]models.TransactionRecord, *models.CleaningSummary, error) {
	startTime := time.Now()
	c.logger.LogStageStart("очистка данных")

	table, err := readRawFile(c.rawPath)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info("Прочитано строк из %s: %d", c.rawPath, len(table.rows))

	records, summary := c.clean(table)
	c.logger.LogCleaningSummary(summary.TotalRows, summary.Removed(), summary.CleanRows)
	c.logger.Debug("Удалено: без покупателя %d, количество <= 0: %d, цена < 0: %d, нечитаемых: %d",
		summary.RemovedNoCustomer, summary.RemovedBadQuantity, summary.RemovedBadPrice, summary.RemovedUnparsable)

	// Сохраняем очищенную таблицу для повторного использования
	if err := c.SaveCleaned(records); err != nil {
		return nil, nil, fmt.Errorf("ошибка при сохранении очищенной таблицы: %w", err)
	}

	// Дополнительно сохраняем сжатый снимок для быстрых повторных запусков
	if c.snapshotPath != "" {
		if err := c.SaveSnapshot(records); err != nil {
			// Снимок — вспомогательный артефакт, его отсутствие не фатально
			c.logger.Error("Ошибка при сохранении снимка очищенных данных: %v", err)
		}
	}

	c.logStatistics(records)
	c.logger.LogStageComplete("очистка данных", startTime)

	return records, &summary, nil
}

// clean фильтрует строки и вычисляет производные поля
func (c *Cleaner) clean(table *rawTable) ([]models.TransactionRecord, models.CleaningSummary) {
	summary := models.CleaningSummary{TotalRows: len(table.rows)}
	records := make([]models.TransactionRecord, 0, len(table.rows))

	for _, row := range table.rows {
		// Строки без идентификатора покупателя удаляются
		customerRaw := table.get(row, "Customer ID")
		if customerRaw == "" {
			summary.RemovedNoCustomer++
			continue
		}
		customerID, err := parseCustomerID(customerRaw)
		if err != nil {
			summary.RemovedNoCustomer++
			continue
		}

		quantity, err := strconv.Atoi(table.get(row, "Quantity"))
		if err != nil {
			summary.RemovedUnparsable++
			continue
		}
		if quantity <= 0 {
			summary.RemovedBadQuantity++
			continue
		}

		price, err := decimal.NewFromString(table.get(row, "Price"))
		if err != nil {
			summary.RemovedUnparsable++
			continue
		}
		if price.IsNegative() {
			summary.RemovedBadPrice++
			continue
		}

		invoiceDate, err := parseInvoiceDate(table.get(row, "InvoiceDate"))
		if err != nil {
			summary.RemovedUnparsable++
			continue
		}

		record := models.TransactionRecord{
			Invoice:     table.get(row, "Invoice"),
			StockCode:   table.get(row, "StockCode"),
			Description: table.get(row, "Description"),
			Quantity:    quantity,
			UnitPrice:   price,
			InvoiceDate: invoiceDate,
			CustomerID:  customerID,
			Country:     table.get(row, "Country"),
			TotalAmount: price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		records = append(records, record)
	}

	summary.CleanRows = len(records)
	return records, summary
}

// SaveCleaned сохраняет очищенную таблицу в CSV по настроенному пути
func (c *Cleaner) SaveCleaned(records []models.TransactionRecord) error {
	if dir := filepath.Dir(c.cleanedPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("ошибка при создании каталога %s: %w", dir, err)
		}
	}

	file, err := os.Create(c.cleanedPath)
	if err != nil {
		return fmt.Errorf("ошибка при создании файла %s: %w", c.cleanedPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writeCleanedRows(writer, records); err != nil {
		return err
	}

	c.logger.Info("Очищенная таблица сохранена: %s (%d строк)", c.cleanedPath, len(records))
	return nil
}

// writeCleanedRows записывает очищенные строки в CSV-формате
// (исходные колонки плюс производная Total_Amount)
func writeCleanedRows(writer *csv.Writer, records []models.TransactionRecord) error {
	header := []string{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate", "Price", "Customer ID", "Country", "Total_Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("ошибка при записи заголовка: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Invoice,
			r.StockCode,
			r.Description,
			strconv.Itoa(r.Quantity),
			r.InvoiceDate.Format("2006-01-02 15:04:05"),
			r.UnitPrice.String(),
			strconv.Itoa(r.CustomerID),
			r.Country,
			r.TotalAmount.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("ошибка при записи строки: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// AmountStatistics описательная статистика сумм транзакций
type AmountStatistics struct {
	Mean     float64
	Median   float64
	Variance float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Statistics вычисляет описательную статистику Total_Amount по очищенной таблице
func Statistics(records []models.TransactionRecord) AmountStatistics {
	if len(records) == 0 {
		return AmountStatistics{}
	}

	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.TotalAmount.InexactFloat64()
	}

	sorted := make([]float64, len(amounts))
	copy(sorted, amounts)
	sort.Float64s(sorted)

	mean, variance := stat.MeanVariance(amounts, nil)
	return AmountStatistics{
		Mean:     mean,
		Median:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Variance: variance,
		StdDev:   stat.StdDev(amounts, nil),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
	}
}

// logStatistics логирует статистическую сводку по сумме транзакций
func (c *Cleaner) logStatistics(records []models.TransactionRecord) {
	if len(records) == 0 {
		return
	}

	s := Statistics(records)
	c.logger.Info("Статистика Total_Amount: среднее %.2f, медиана %.2f, дисперсия %.2f, ст. отклонение %.2f, мин %.2f, макс %.2f",
		s.Mean, s.Median, s.Variance, s.StdDev, s.Min, s.Max)
}

// parseCustomerID разбирает идентификатор покупателя
// (в исходных выгрузках встречается дробная запись вида "17850.0")
func parseCustomerID(raw string) (int, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("нечитаемый идентификатор покупателя %q: %w", raw, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("недопустимый идентификатор покупателя %q", raw)
	}
	return int(value), nil
}

// parseInvoiceDate разбирает дату счета, перебирая известные форматы
func parseInvoiceDate(raw string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("нечитаемая дата счета %q", raw)
}
