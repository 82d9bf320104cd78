package analysis

import (
	"fmt"
	"sort"

	"github.com/LilVoxy/coursework_retail/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// OutlierConfig конфигурация поиска выбросов по сумме транзакции
type OutlierConfig struct {
	// Порог Z-оценки
	ZThreshold float64
	// Множитель межквартильного размаха
	IQRMultiplier float64
}

// DefaultOutlierConfig возвращает конфигурацию по умолчанию
func DefaultOutlierConfig() OutlierConfig {
	return OutlierConfig{
		ZThreshold:    3.0,
		IQRMultiplier: 1.5,
	}
}

// OutlierStats описывает результат одного метода поиска выбросов
type OutlierStats struct {
	Method     string
	Count      int
	Share      float64
	LowerBound float64
	UpperBound float64
	// Статистика по найденным выбросам
	MinAmount  float64
	MaxAmount  float64
	MeanAmount float64
	// Примеры самых экстремальных сумм, по убыванию модуля отклонения
	TopAmounts []float64
}

// OutlierResult содержит результаты двух методов поиска выбросов
type OutlierResult struct {
	Records int
	Mean    float64
	StdDev  float64
	Median  float64
	ZScore  OutlierStats
	IQR     OutlierStats
}

// RunOutlierAnalysis ищет аномальные суммы транзакций методом Z-оценки
// и методом межквартильного размаха
func RunOutlierAnalysis(records []models.TransactionRecord, config OutlierConfig) (*OutlierResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("нет транзакций для поиска выбросов")
	}

	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.TotalAmount.InexactFloat64()
	}
	sorted := append([]float64(nil), amounts...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(amounts, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	result := &OutlierResult{
		Records: len(records),
		Mean:    mean,
		StdDev:  std,
		Median:  median,
		ZScore:  zScoreOutliers(amounts, mean, std, config.ZThreshold),
		IQR:     iqrOutliers(amounts, sorted, config.IQRMultiplier),
	}
	return result, nil
}

// zScoreOutliers отбирает суммы, отстоящие от среднего более чем
// на threshold стандартных отклонений
func zScoreOutliers(amounts []float64, mean, std, threshold float64) OutlierStats {
	stats := OutlierStats{
		Method:     "z-score",
		LowerBound: mean - threshold*std,
		UpperBound: mean + threshold*std,
	}
	if std == 0 {
		return stats
	}

	outliers := make([]float64, 0)
	for _, amount := range amounts {
		if amount < stats.LowerBound || amount > stats.UpperBound {
			outliers = append(outliers, amount)
		}
	}
	fillOutlierStats(&stats, outliers, len(amounts), mean)
	return stats
}

// iqrOutliers отбирает суммы вне границ [Q1 - k*IQR, Q3 + k*IQR]
func iqrOutliers(amounts, sorted []float64, multiplier float64) OutlierStats {
	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	stats := OutlierStats{
		Method:     "iqr",
		LowerBound: q1 - multiplier*iqr,
		UpperBound: q3 + multiplier*iqr,
	}

	outliers := make([]float64, 0)
	for _, amount := range amounts {
		if amount < stats.LowerBound || amount > stats.UpperBound {
			outliers = append(outliers, amount)
		}
	}
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	fillOutlierStats(&stats, outliers, len(amounts), median)
	return stats
}

// fillOutlierStats заполняет счётчики, статистику найденных выбросов
// и примеры самых экстремальных сумм
func fillOutlierStats(stats *OutlierStats, outliers []float64, total int, center float64) {
	stats.Count = len(outliers)
	if total > 0 {
		stats.Share = float64(len(outliers)) / float64(total)
	}
	if len(outliers) > 0 {
		stats.MinAmount = floats.Min(outliers)
		stats.MaxAmount = floats.Max(outliers)
		stats.MeanAmount = stat.Mean(outliers, nil)
	}

	sort.Slice(outliers, func(i, j int) bool {
		di := outliers[i] - center
		dj := outliers[j] - center
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		return di > dj
	})
	if len(outliers) > 5 {
		outliers = outliers[:5]
	}
	stats.TopAmounts = outliers
}
