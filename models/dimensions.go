package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeDimension представляет измерение времени в хранилище (одна запись на календарный день)
type TimeDimension struct {
	TimeID      int // суррогатный ключ, присваивается хранилищем при загрузке
	InvoiceDate time.Time
	Year        int
	Month       int
	Day         int
}

// CustomerDimension представляет измерение покупателей
type CustomerDimension struct {
	CustomerID int
	Country    string
}

// ProductDimension представляет измерение товаров
type ProductDimension struct {
	StockCode   string
	Description string
	Price       decimal.Decimal
}

// SalesFact представляет факт продажи.
// Естественный ключ факта: (Invoice, StockCode, InvoiceDate); суррогатный
// Time_ID подставляется загрузчиком после загрузки измерения времени.
type SalesFact struct {
	Invoice     string
	CustomerID  int
	StockCode   string
	InvoiceDate time.Time // усечена до календарного дня
	Quantity    int
	TotalAmount decimal.Decimal
}
