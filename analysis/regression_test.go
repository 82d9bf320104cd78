package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// linearRecords строит записи с точной линейной зависимостью
// Total_Amount = 5 + 2*Quantity + 3*Price
func linearRecords(n int) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, n)
	for i := 0; i < n; i++ {
		qty := 1 + i%7
		price := 0.5 + float64(i%11)
		amount := 5 + 2*float64(qty) + 3*price

		records = append(records, models.TransactionRecord{
			Invoice:     "I1",
			StockCode:   "S1",
			Quantity:    qty,
			UnitPrice:   decimal.NewFromFloat(price),
			InvoiceDate: time.Date(2011, 3, 15, 10, 0, 0, 0, time.UTC),
			CustomerID:  1000 + i,
			Country:     "United Kingdom",
			TotalAmount: decimal.NewFromFloat(amount),
		})
	}
	return records
}

func TestRunRegressionRecoversLinearRelation(t *testing.T) {
	records := linearRecords(60)

	result, err := RunRegression(records, DefaultRegressionConfig())
	require.NoError(t, err)

	assert.InDelta(t, 5.0, result.Intercept, 1e-6)
	assert.InDelta(t, 2.0, result.QuantityCoef, 1e-6)
	assert.InDelta(t, 3.0, result.PriceCoef, 1e-6)
	assert.InDelta(t, 1.0, result.R2, 1e-9)
	assert.InDelta(t, 0.0, result.RMSE, 1e-6)
	assert.Equal(t, 48, result.TrainSize)
	assert.Equal(t, 12, result.TestSize)
}

func TestRunRegressionDeterministic(t *testing.T) {
	records := linearRecords(30)

	first, err := RunRegression(records, DefaultRegressionConfig())
	require.NoError(t, err)
	second, err := RunRegression(records, DefaultRegressionConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunRegressionTooFewRecords(t *testing.T) {
	_, err := RunRegression(linearRecords(2), DefaultRegressionConfig())
	assert.Error(t, err)
}
