package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/LilVoxy/coursework_retail/models"
)

// RegressionConfig конфигурация линейной регрессии
type RegressionConfig struct {
	// Доля данных, откладываемая в тестовую выборку
	TestFraction float64
	// Зерно генератора случайных чисел
	Seed int64
}

// DefaultRegressionConfig возвращает конфигурацию по умолчанию
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{
		TestFraction: 0.2,
		Seed:         42,
	}
}

// RegressionResult содержит коэффициенты модели и метрики качества
type RegressionResult struct {
	Intercept    float64
	QuantityCoef float64
	PriceCoef    float64
	R2           float64
	MSE          float64
	RMSE         float64
	MAE          float64
	TrainSize    int
	TestSize     int
}

// RunRegression строит множественную линейную регрессию
// Total_Amount ~ Quantity + Price методом наименьших квадратов
// (QR-разложение) и оценивает качество на отложенной выборке
func RunRegression(records []models.TransactionRecord, config RegressionConfig) (*RegressionResult, error) {
	if len(records) < 3 {
		return nil, fmt.Errorf("для регрессии требуется минимум 3 записи, получено: %d", len(records))
	}

	quantity := make([]float64, len(records))
	price := make([]float64, len(records))
	amount := make([]float64, len(records))
	for i, r := range records {
		quantity[i] = float64(r.Quantity)
		price[i] = r.UnitPrice.InexactFloat64()
		amount[i] = r.TotalAmount.InexactFloat64()
	}

	trainIdx, testIdx := splitIndices(len(records), config.TestFraction, config.Seed)
	if len(trainIdx) < 3 {
		return nil, fmt.Errorf("обучающая выборка слишком мала: %d записей", len(trainIdx))
	}

	// Матрица плана: свободный член, количество, цена
	X := mat.NewDense(len(trainIdx), 3, nil)
	y := mat.NewVecDense(len(trainIdx), nil)
	for row, idx := range trainIdx {
		X.Set(row, 0, 1)
		X.Set(row, 1, quantity[idx])
		X.Set(row, 2, price[idx])
		y.SetVec(row, amount[idx])
	}

	var qr mat.QR
	qr.Factorize(X)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("ошибка при решении системы наименьших квадратов: %w", err)
	}

	result := &RegressionResult{
		Intercept:    beta.AtVec(0),
		QuantityCoef: beta.AtVec(1),
		PriceCoef:    beta.AtVec(2),
		TrainSize:    len(trainIdx),
		TestSize:     len(testIdx),
	}

	// Оценка качества на тестовой выборке
	evalIdx := testIdx
	if len(evalIdx) == 0 {
		evalIdx = trainIdx
	}

	meanActual := 0.0
	for _, idx := range evalIdx {
		meanActual += amount[idx]
	}
	meanActual /= float64(len(evalIdx))

	var sse, sst, absErr float64
	for _, idx := range evalIdx {
		predicted := result.Intercept + result.QuantityCoef*quantity[idx] + result.PriceCoef*price[idx]
		residual := amount[idx] - predicted
		sse += residual * residual
		sst += (amount[idx] - meanActual) * (amount[idx] - meanActual)
		absErr += math.Abs(residual)
	}

	result.MSE = sse / float64(len(evalIdx))
	result.RMSE = math.Sqrt(result.MSE)
	result.MAE = absErr / float64(len(evalIdx))
	if sst > 0 {
		result.R2 = 1 - sse/sst
	}

	return result, nil
}
