package olap

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/coursework_retail/models"
)

// RollUp агрегирует меру (сумму Total_Amount) от более мелкой гранулярности
// времени к более крупной (день -> месяц, месяц -> год).
// Агрегаты всегда строятся из базовых строк, поэтому результат не зависит
// от того, выполнялись ли раньше другие операции
func RollUp(records []models.TransactionRecord, from, to Granularity) ([]PeriodTotal, error) {
	if to <= from {
		return nil, fmt.Errorf("roll-up требует укрупнения гранулярности: %v -> %v недопустимо", from, to)
	}
	return groupByPeriod(records, to), nil
}

// DrillDown возвращает разбивку на более мелкой гранулярности.
// Детализация всегда пересчитывается из базовых строк фактов,
// а не интерполируется из крупного агрегата
func DrillDown(records []models.TransactionRecord, to Granularity) []PeriodTotal {
	return groupByPeriod(records, to)
}

// Slice возвращает подмножество строк, в которых указанное измерение
// равно заданному значению
func Slice(records []models.TransactionRecord, dim Dimension, value string) ([]models.TransactionRecord, error) {
	result := make([]models.TransactionRecord, 0)
	for _, r := range records {
		v, err := dimensionValue(r, dim)
		if err != nil {
			return nil, err
		}
		if v == value {
			result = append(result, r)
		}
	}
	return result, nil
}

// Predicate представляет условие отбора строки для операции dice
type Predicate func(models.TransactionRecord) bool

// CountryEquals отбирает строки по стране
func CountryEquals(value string) Predicate {
	return func(r models.TransactionRecord) bool { return r.Country == value }
}

// StockCodeEquals отбирает строки по артикулу товара
func StockCodeEquals(value string) Predicate {
	return func(r models.TransactionRecord) bool { return r.StockCode == value }
}

// InvoiceEquals отбирает строки по номеру счета
func InvoiceEquals(value string) Predicate {
	return func(r models.TransactionRecord) bool { return r.Invoice == value }
}

// CustomerEquals отбирает строки по идентификатору покупателя
func CustomerEquals(id int) Predicate {
	return func(r models.TransactionRecord) bool { return r.CustomerID == id }
}

// TotalAmountAbove отбирает строки с суммой строго больше порога
func TotalAmountAbove(threshold decimal.Decimal) Predicate {
	return func(r models.TransactionRecord) bool { return r.TotalAmount.GreaterThan(threshold) }
}

// TotalAmountBetween отбирает строки с суммой в диапазоне [lo, hi]
func TotalAmountBetween(lo, hi decimal.Decimal) Predicate {
	return func(r models.TransactionRecord) bool {
		return r.TotalAmount.GreaterThanOrEqual(lo) && r.TotalAmount.LessThanOrEqual(hi)
	}
}

// QuantityAbove отбирает строки с количеством строго больше порога
func QuantityAbove(threshold int) Predicate {
	return func(r models.TransactionRecord) bool { return r.Quantity > threshold }
}

// Dice возвращает подмножество строк, удовлетворяющих конъюнкции предикатов.
// Пустой результат для невыполнимой комбинации условий — не ошибка
func Dice(records []models.TransactionRecord, predicates ...Predicate) []models.TransactionRecord {
	result := make([]models.TransactionRecord, 0)
	for _, r := range records {
		matches := true
		for _, p := range predicates {
			if !p(r) {
				matches = false
				break
			}
		}
		if matches {
			result = append(result, r)
		}
	}
	return result
}

// SumTotalAmount возвращает сумму Total_Amount по набору строк
func SumTotalAmount(records []models.TransactionRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.TotalAmount)
	}
	return sum
}
