package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord представляет одну строку очищенной таблицы транзакций.
// Инвариант очищенной таблицы: CustomerID > 0, Quantity > 0, UnitPrice >= 0,
// TotalAmount = Quantity * UnitPrice.
type TransactionRecord struct {
	Invoice     string
	StockCode   string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	InvoiceDate time.Time
	CustomerID  int
	Country     string
	TotalAmount decimal.Decimal
}

// InvoiceDay возвращает дату счета, усеченную до календарного дня
func (r TransactionRecord) InvoiceDay() time.Time {
	return time.Date(r.InvoiceDate.Year(), r.InvoiceDate.Month(), r.InvoiceDate.Day(), 0, 0, 0, 0, time.UTC)
}

// CleaningSummary содержит итоги очистки исходных данных
type CleaningSummary struct {
	TotalRows          int // всего строк в исходном файле
	RemovedNoCustomer  int // удалено строк без идентификатора покупателя
	RemovedBadQuantity int // удалено строк с количеством <= 0
	RemovedBadPrice    int // удалено строк с ценой < 0
	RemovedUnparsable  int // удалено строк с нечитаемыми полями
	CleanRows          int // строк в очищенной таблице
}

// Removed возвращает общее количество удаленных строк
func (s CleaningSummary) Removed() int {
	return s.RemovedNoCustomer + s.RemovedBadQuantity + s.RemovedBadPrice + s.RemovedUnparsable
}
