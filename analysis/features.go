// Package analysis реализует аналитические модели над очищенной таблицей
// транзакций. Все модели следуют единой форме: (входные строки, параметры)
// -> (структура результата с подобранными параметрами и метриками).
// Случайность всегда управляется зерном из конфигурации
package analysis

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/LilVoxy/coursework_retail/models"
)

// CustomerFeatures представляет агрегированные признаки одного покупателя
type CustomerFeatures struct {
	CustomerID    int
	TotalAmount   float64 // суммарные траты
	AvgAmount     float64 // средняя сумма транзакции
	PurchaseCount int     // количество строк транзакций
	InvoiceCount  int     // количество уникальных счетов
	HighValue     bool    // траты выше порога
}

// BuildCustomerFeatures агрегирует транзакции по покупателям.
// Результат отсортирован по идентификатору покупателя
func BuildCustomerFeatures(records []models.TransactionRecord, highValueThreshold float64) []CustomerFeatures {
	type accumulator struct {
		total    float64
		count    int
		invoices map[string]struct{}
	}

	groups := make(map[int]*accumulator)
	for _, r := range records {
		acc, ok := groups[r.CustomerID]
		if !ok {
			acc = &accumulator{invoices: make(map[string]struct{})}
			groups[r.CustomerID] = acc
		}
		acc.total += r.TotalAmount.InexactFloat64()
		acc.count++
		acc.invoices[r.Invoice] = struct{}{}
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	features := make([]CustomerFeatures, 0, len(ids))
	for _, id := range ids {
		acc := groups[id]
		features = append(features, CustomerFeatures{
			CustomerID:    id,
			TotalAmount:   acc.total,
			AvgAmount:     acc.total / float64(acc.count),
			PurchaseCount: acc.count,
			InvoiceCount:  len(acc.invoices),
			HighValue:     acc.total > highValueThreshold,
		})
	}
	return features
}

// splitIndices делит индексы [0, n) на обучающую и тестовую выборки.
// Перемешивание детерминировано заданным зерном
func splitIndices(n int, testFraction float64, seed int64) (train, test []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testSize := int(float64(n) * testFraction)
	if testSize < 1 && n > 1 {
		testSize = 1
	}

	return indices[testSize:], indices[:testSize]
}

// standardize приводит значения к нулевому среднему и единичному отклонению.
// Возвращает также среднее и отклонение для преобразования новых значений
func standardize(values []float64) (scaled []float64, mean, std float64) {
	mean, std = stat.MeanStdDev(values, nil)
	if std == 0 {
		std = 1
	}

	scaled = make([]float64, len(values))
	for i, v := range values {
		scaled[i] = (v - mean) / std
	}
	return scaled, mean, std
}

// ConfusionMatrix представляет матрицу ошибок бинарного классификатора:
// [фактический класс][предсказанный класс]
type ConfusionMatrix [2][2]int

// ClassMetrics содержит метрики качества бинарного классификатора
type ClassMetrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Confusion ConfusionMatrix
}

// evaluateBinary вычисляет метрики качества по фактическим и предсказанным меткам
func evaluateBinary(actual, predicted []int) ClassMetrics {
	var metrics ClassMetrics
	if len(actual) == 0 {
		return metrics
	}

	correct := 0
	for i := range actual {
		metrics.Confusion[actual[i]][predicted[i]]++
		if actual[i] == predicted[i] {
			correct++
		}
	}

	metrics.Accuracy = float64(correct) / float64(len(actual))

	tp := float64(metrics.Confusion[1][1])
	fp := float64(metrics.Confusion[0][1])
	fn := float64(metrics.Confusion[1][0])

	if tp+fp > 0 {
		metrics.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		metrics.Recall = tp / (tp + fn)
	}
	if metrics.Precision+metrics.Recall > 0 {
		metrics.F1 = 2 * metrics.Precision * metrics.Recall / (metrics.Precision + metrics.Recall)
	}

	return metrics
}
