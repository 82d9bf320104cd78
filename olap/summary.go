package olap

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/coursework_retail/models"
)

// CountryStat представляет сводку продаж по одной стране
type CountryStat struct {
	Country      string
	Revenue      decimal.Decimal
	Transactions int
	Customers    int
	Quantity     int
}

// CountrySummary строит сводку продаж по странам, отсортированную
// по убыванию выручки (при равенстве — по названию страны)
func CountrySummary(records []models.TransactionRecord) []CountryStat {
	type accumulator struct {
		revenue   decimal.Decimal
		count     int
		quantity  int
		customers map[int]struct{}
	}

	groups := make(map[string]*accumulator)
	for _, r := range records {
		acc, ok := groups[r.Country]
		if !ok {
			acc = &accumulator{revenue: decimal.Zero, customers: make(map[int]struct{})}
			groups[r.Country] = acc
		}
		acc.revenue = acc.revenue.Add(r.TotalAmount)
		acc.count++
		acc.quantity += r.Quantity
		acc.customers[r.CustomerID] = struct{}{}
	}

	stats := make([]CountryStat, 0, len(groups))
	for country, acc := range groups {
		stats = append(stats, CountryStat{
			Country:      country,
			Revenue:      acc.revenue,
			Transactions: acc.count,
			Customers:    len(acc.customers),
			Quantity:     acc.quantity,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Revenue.Equal(stats[j].Revenue) {
			return stats[i].Revenue.GreaterThan(stats[j].Revenue)
		}
		return stats[i].Country < stats[j].Country
	})

	return stats
}

// ProductStat представляет сводку продаж по одному товару
type ProductStat struct {
	Description string
	Revenue     decimal.Decimal
	Quantity    int
}

// TopProducts возвращает n товаров с наибольшей выручкой
func TopProducts(records []models.TransactionRecord, n int) []ProductStat {
	groups := make(map[string]*ProductStat)
	for _, r := range records {
		stat, ok := groups[r.Description]
		if !ok {
			stat = &ProductStat{Description: r.Description, Revenue: decimal.Zero}
			groups[r.Description] = stat
		}
		stat.Revenue = stat.Revenue.Add(r.TotalAmount)
		stat.Quantity += r.Quantity
	}

	stats := make([]ProductStat, 0, len(groups))
	for _, stat := range groups {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Revenue.Equal(stats[j].Revenue) {
			return stats[i].Revenue.GreaterThan(stats[j].Revenue)
		}
		return stats[i].Description < stats[j].Description
	})

	if n < len(stats) {
		stats = stats[:n]
	}
	return stats
}

// CustomerStat представляет сводку трат одного покупателя
type CustomerStat struct {
	CustomerID int
	Spending   decimal.Decimal
}

// TopCustomers возвращает n покупателей с наибольшими тратами
func TopCustomers(records []models.TransactionRecord, n int) []CustomerStat {
	groups := make(map[int]decimal.Decimal)
	for _, r := range records {
		groups[r.CustomerID] = groups[r.CustomerID].Add(r.TotalAmount)
	}

	stats := make([]CustomerStat, 0, len(groups))
	for id, spending := range groups {
		stats = append(stats, CustomerStat{CustomerID: id, Spending: spending})
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Spending.Equal(stats[j].Spending) {
			return stats[i].Spending.GreaterThan(stats[j].Spending)
		}
		return stats[i].CustomerID < stats[j].CustomerID
	})

	if n < len(stats) {
		stats = stats[:n]
	}
	return stats
}
