package dimensions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

func record(invoice, stock, desc string, qty int, price string, date time.Time, customer int, country string) models.TransactionRecord {
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

func TestBuildDimensionsCompleteness(t *testing.T) {
	logger := utils.NewPipelineLogger(false)
	day1 := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	day2 := time.Date(2010, 12, 2, 12, 0, 0, 0, time.UTC)

	records := []models.TransactionRecord{
		record("536365", "85123A", "WHITE HANGING HEART", 6, "2.55", day1, 17850, "United Kingdom"),
		record("536365", "71053", "WHITE METAL LANTERN", 2, "3.39", day1, 17850, "United Kingdom"),
		record("536412", "85123A", "WHITE HANGING HEART", 1, "2.55", day2, 12583, "France"),
	}

	set, err := NewBuilder(logger).Build(records)
	require.NoError(t, err)

	// Один день на уникальную календарную дату, отсортированы по возрастанию
	require.Len(t, set.Times, 2)
	assert.True(t, set.Times[0].InvoiceDate.Before(set.Times[1].InvoiceDate))
	assert.Equal(t, 2010, set.Times[0].Year)
	assert.Equal(t, 12, set.Times[0].Month)
	assert.Equal(t, 1, set.Times[0].Day)

	// Уникальные покупатели по возрастанию идентификатора
	require.Len(t, set.Customers, 2)
	assert.Equal(t, 12583, set.Customers[0].CustomerID)
	assert.Equal(t, 17850, set.Customers[1].CustomerID)

	// Уникальные товары по коду
	require.Len(t, set.Products, 2)
	assert.Equal(t, "71053", set.Products[0].StockCode)
	assert.Equal(t, "85123A", set.Products[1].StockCode)

	// Одна строка фактов на строку транзакции, дата усечена до дня
	require.Len(t, set.Facts, 3)
	for _, f := range set.Facts {
		assert.Equal(t, 0, f.InvoiceDate.Hour())
		assert.Equal(t, 0, f.InvoiceDate.Minute())
	}
}

func TestCustomerCountryLastWins(t *testing.T) {
	logger := utils.NewPipelineLogger(false)
	day := time.Date(2011, 1, 10, 10, 0, 0, 0, time.UTC)

	records := []models.TransactionRecord{
		record("540001", "21756", "BATH BUILDING BLOCK", 1, "3.75", day, 12583, "United Kingdom"),
		record("540002", "21756", "BATH BUILDING BLOCK", 1, "3.75", day, 12583, "France"),
	}

	customers := NewCustomerDimensionProcessor(logger).Process(records)
	require.Len(t, customers, 1)
	assert.Equal(t, "France", customers[0].Country)
}

func TestProductDescriptionAndPriceLastWins(t *testing.T) {
	logger := utils.NewPipelineLogger(false)
	day := time.Date(2011, 1, 10, 10, 0, 0, 0, time.UTC)

	records := []models.TransactionRecord{
		record("540001", "22086", "PAPER CHAIN KIT", 1, "4.95", day, 12583, "France"),
		record("540002", "22086", "PAPER CHAIN KIT 50'S", 1, "5.95", day, 12583, "France"),
	}

	products := NewProductDimensionProcessor(logger).Process(records)
	require.Len(t, products, 1)
	assert.Equal(t, "PAPER CHAIN KIT 50'S", products[0].Description)
	assert.Equal(t, "5.95", products[0].Price.String())
}

func TestBuildEmptyInput(t *testing.T) {
	logger := utils.NewPipelineLogger(false)

	_, err := NewBuilder(logger).Build(nil)
	require.Error(t, err)

	var dataErr *models.DataError
	assert.ErrorAs(t, err, &dataErr)
}
