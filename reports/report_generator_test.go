package reports

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/analysis"
	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

func sampleRecords() []models.TransactionRecord {
	mk := func(invoice, stock, desc string, qty int, price string, date time.Time, customer int, country string) models.TransactionRecord {
		p := decimal.RequireFromString(price)
		return models.TransactionRecord{
			Invoice:     invoice,
			StockCode:   stock,
			Description: desc,
			Quantity:    qty,
			UnitPrice:   p,
			InvoiceDate: date,
			CustomerID:  customer,
			Country:     country,
			TotalAmount: p.Mul(decimal.NewFromInt(int64(qty))),
		}
	}

	return []models.TransactionRecord{
		mk("536365", "85123A", "WHITE HANGING HEART", 6, "2.55", time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), 17850, "United Kingdom"),
		mk("536412", "85123A", "WHITE HANGING HEART", 10, "2.55", time.Date(2010, 12, 15, 12, 0, 0, 0, time.UTC), 12583, "France"),
		mk("540001", "22086", "PAPER CHAIN KIT", 4, "4.95", time.Date(2011, 1, 10, 10, 0, 0, 0, time.UTC), 12583, "France"),
	}
}

func TestWriteAllCreatesReports(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir, utils.NewPipelineLogger(false))

	results := &AnalysisResults{
		Cleaning: &models.CleaningSummary{TotalRows: 5, RemovedNoCustomer: 2, CleanRows: 3},
		Regression: &analysis.RegressionResult{
			Intercept: 1.5, QuantityCoef: 2.0, PriceCoef: 3.0, R2: 0.95,
			TrainSize: 40, TestSize: 10,
		},
	}

	paths, err := g.WriteAll(sampleRecords(), results)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecutiveSummaryContent(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir, utils.NewPipelineLogger(false))

	path, err := g.WriteExecutiveSummary(sampleRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "executive_summary.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "СВОДНЫЙ ОТЧЁТ ПО ПРОДАЖАМ")
	assert.Contains(t, text, "France")
	assert.Contains(t, text, "WHITE HANGING HEART")
	// Выручка: 15.3 + 25.5 + 19.8
	assert.Contains(t, text, "60.60")
}

func TestOLAPReportContent(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir, utils.NewPipelineLogger(false))

	path, err := g.WriteOLAPReport(sampleRecords())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "2010-12")
	assert.Contains(t, text, "2011-01")
	assert.Contains(t, text, "United Kingdom")
	assert.Contains(t, text, "Сводная таблица")
}

func TestModelReportSkipsMissingSections(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(dir, utils.NewPipelineLogger(false))

	path, err := g.WriteModelReport(&AnalysisResults{
		Outliers: &analysis.OutlierResult{
			Records: 10,
			ZScore:  analysis.OutlierStats{Method: "z-score", Count: 1},
			IQR:     analysis.OutlierStats{Method: "iqr", Count: 2},
		},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "z-score")
	assert.NotContains(t, text, "регрессия")
	assert.NotContains(t, text, "k-средних")
}
