// Package olap реализует аналитические операции над очищенной таблицей
// транзакций: roll-up, drill-down, slice, dice и pivot. Все операции —
// детерминированные преобразования без побочных эффектов и общего
// изменяемого состояния; результат не зависит от порядка вызовов.
package olap

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/coursework_retail/models"
)

// Granularity задает гранулярность временной иерархии (день < месяц < год)
type Granularity int

const (
	Day Granularity = iota
	Month
	Year
)

// String возвращает название гранулярности
func (g Granularity) String() string {
	switch g {
	case Day:
		return "день"
	case Month:
		return "месяц"
	case Year:
		return "год"
	default:
		return "неизвестно"
	}
}

// periodKey форматирует дату в ключ периода заданной гранулярности
func periodKey(t time.Time, g Granularity) string {
	switch g {
	case Day:
		return t.Format("2006-01-02")
	case Month:
		return t.Format("2006-01")
	default:
		return t.Format("2006")
	}
}

// Dimension задает измерение для операций slice, dice и pivot
type Dimension string

const (
	DimCountry   Dimension = "Country"
	DimStockCode Dimension = "StockCode"
	DimInvoice   Dimension = "Invoice"
	DimCustomer  Dimension = "Customer ID"
	DimMonth     Dimension = "Month"
	DimYear      Dimension = "Year"
)

// dimensionValue возвращает строковое значение измерения для записи
func dimensionValue(r models.TransactionRecord, dim Dimension) (string, error) {
	switch dim {
	case DimCountry:
		return r.Country, nil
	case DimStockCode:
		return r.StockCode, nil
	case DimInvoice:
		return r.Invoice, nil
	case DimCustomer:
		return strconv.Itoa(r.CustomerID), nil
	case DimMonth:
		return periodKey(r.InvoiceDate, Month), nil
	case DimYear:
		return periodKey(r.InvoiceDate, Year), nil
	default:
		return "", fmt.Errorf("неизвестное измерение %q", dim)
	}
}

// Measure задает агрегируемую меру
type Measure string

const (
	MeasureTotalAmount Measure = "Total_Amount"
	MeasureQuantity    Measure = "Quantity"
)

// measureValue возвращает значение меры для записи
func measureValue(r models.TransactionRecord, m Measure) decimal.Decimal {
	switch m {
	case MeasureQuantity:
		return decimal.NewFromInt(int64(r.Quantity))
	default:
		return r.TotalAmount
	}
}

// PeriodTotal представляет агрегат одного периода времени.
// Агрегирующая функция всегда явная — сумма
type PeriodTotal struct {
	Period       string
	TotalAmount  decimal.Decimal
	Quantity     int
	Transactions int
}

// groupByPeriod группирует записи по периодам заданной гранулярности
// и суммирует меры; результат отсортирован по ключу периода
func groupByPeriod(records []models.TransactionRecord, g Granularity) []PeriodTotal {
	groups := make(map[string]*PeriodTotal)

	for _, r := range records {
		key := periodKey(r.InvoiceDate, g)
		total, ok := groups[key]
		if !ok {
			total = &PeriodTotal{Period: key, TotalAmount: decimal.Zero}
			groups[key] = total
		}
		total.TotalAmount = total.TotalAmount.Add(r.TotalAmount)
		total.Quantity += r.Quantity
		total.Transactions++
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]PeriodTotal, 0, len(keys))
	for _, key := range keys {
		result = append(result, *groups[key])
	}
	return result
}
