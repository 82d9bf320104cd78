package dimensions

import (
	"sort"
	"time"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// TimeDimensionProcessor отвечает за построение измерения времени
type TimeDimensionProcessor struct {
	logger *utils.PipelineLogger
}

// NewTimeDimensionProcessor создает новый экземпляр TimeDimensionProcessor
func NewTimeDimensionProcessor(logger *utils.PipelineLogger) *TimeDimensionProcessor {
	return &TimeDimensionProcessor{
		logger: logger,
	}
}

// Process строит измерение времени: одна запись на каждый календарный день,
// встречающийся в очищенной таблице. Записи отсортированы по дате
func (p *TimeDimensionProcessor) Process(records []models.TransactionRecord) []models.TimeDimension {
	p.logger.Debug("Построение измерения времени...")

	distinct := make(map[time.Time]struct{})
	for _, r := range records {
		distinct[r.InvoiceDay()] = struct{}{}
	}

	dates := make([]time.Time, 0, len(distinct))
	for d := range distinct {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	times := make([]models.TimeDimension, 0, len(dates))
	for _, d := range dates {
		times = append(times, models.TimeDimension{
			InvoiceDate: d,
			Year:        d.Year(),
			Month:       int(d.Month()),
			Day:         d.Day(),
		})
	}

	p.logger.Info("Измерение времени построено. Уникальных дней: %d", len(times))
	return times
}
