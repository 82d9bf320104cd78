package models

import (
	"time"
)

// LoadStats содержит счетчики загрузки одной таблицы хранилища
type LoadStats struct {
	Attempted int // строк передано на вставку
	Inserted  int // строк фактически вставлено
	Skipped   int // строк пропущено из-за дубликата естественного ключа
}

// Add прибавляет счетчики другой порции к текущим
func (s *LoadStats) Add(other LoadStats) {
	s.Attempted += other.Attempted
	s.Inserted += other.Inserted
	s.Skipped += other.Skipped
}

// LoadReport содержит итоги загрузки по всем таблицам звездной схемы
type LoadReport struct {
	Times     LoadStats
	Customers LoadStats
	Products  LoadStats
	Facts     LoadStats
	StartTime time.Time
	EndTime   time.Time
}

// TotalInserted возвращает общее количество вставленных строк
func (r LoadReport) TotalInserted() int {
	return r.Times.Inserted + r.Customers.Inserted + r.Products.Inserted + r.Facts.Inserted
}

// TotalSkipped возвращает общее количество пропущенных строк
func (r LoadReport) TotalSkipped() int {
	return r.Times.Skipped + r.Customers.Skipped + r.Products.Skipped + r.Facts.Skipped
}
