package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// purchase строит запись транзакции для тестовых данных
func purchase(customer int, invoice string, qty int, price float64, country string) models.TransactionRecord {
	p := decimal.NewFromFloat(price)
	return models.TransactionRecord{
		Invoice:     invoice,
		StockCode:   fmt.Sprintf("SKU-%s", invoice),
		Description: fmt.Sprintf("ТОВАР %s", invoice),
		Quantity:    qty,
		UnitPrice:   p,
		InvoiceDate: time.Date(2011, 3, 15, 10, 0, 0, 0, time.UTC),
		CustomerID:  customer,
		Country:     country,
		TotalAmount: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestBuildCustomerFeatures(t *testing.T) {
	records := []models.TransactionRecord{
		purchase(100, "A1", 2, 10, "United Kingdom"),
		purchase(100, "A1", 1, 20, "United Kingdom"),
		purchase(100, "A2", 1, 60, "United Kingdom"),
		purchase(200, "B1", 1, 5, "France"),
	}

	features := BuildCustomerFeatures(records, 50)
	require.Len(t, features, 2)

	// Отсортированы по идентификатору покупателя
	first := features[0]
	assert.Equal(t, 100, first.CustomerID)
	assert.InDelta(t, 100.0, first.TotalAmount, 1e-9)
	assert.InDelta(t, 100.0/3, first.AvgAmount, 1e-9)
	assert.Equal(t, 3, first.PurchaseCount)
	assert.Equal(t, 2, first.InvoiceCount)
	assert.True(t, first.HighValue)

	second := features[1]
	assert.Equal(t, 200, second.CustomerID)
	assert.False(t, second.HighValue)
}

func TestSplitIndicesDeterministic(t *testing.T) {
	train1, test1 := splitIndices(100, 0.2, 42)
	train2, test2 := splitIndices(100, 0.2, 42)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
	assert.Len(t, test1, 20)
	assert.Len(t, train1, 80)

	// Выборки не пересекаются и покрывают все индексы
	seen := make(map[int]struct{}, 100)
	for _, idx := range append(append([]int{}, train1...), test1...) {
		_, dup := seen[idx]
		assert.False(t, dup, "индекс %d встретился дважды", idx)
		seen[idx] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestSplitIndicesSmallSample(t *testing.T) {
	train, test := splitIndices(3, 0.2, 1)

	// Тестовая выборка не пустая даже на маленьких данных
	assert.Len(t, test, 1)
	assert.Len(t, train, 2)
}

func TestEvaluateBinary(t *testing.T) {
	actual := []int{1, 1, 0, 0, 1}
	predicted := []int{1, 0, 0, 1, 1}

	m := evaluateBinary(actual, predicted)

	// TP=2, FN=1, FP=1, TN=1
	assert.InDelta(t, 0.6, m.Accuracy, 1e-9)
	assert.InDelta(t, 2.0/3, m.Precision, 1e-9)
	assert.InDelta(t, 2.0/3, m.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, m.F1, 1e-9)
	assert.Equal(t, 2, m.Confusion[1][1])
	assert.Equal(t, 1, m.Confusion[0][0])
}
