package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/LilVoxy/coursework_retail/models"
	"gonum.org/v1/gonum/stat"
)

// AdvancedConfig конфигурация сравнения классификаторов
type AdvancedConfig struct {
	// Порог суммарных трат для метки High_Value
	HighValueThreshold float64
	// Доля тестовой выборки
	TestFraction float64
	// Количество эпох обучения SVM и MLP
	Epochs int
	// Коэффициент регуляризации SVM
	Lambda float64
	// Размер скрытого слоя MLP
	HiddenSize int
	// Скорость обучения MLP
	LearningRate float64
	// Зерно генератора случайных чисел
	Seed int64
}

// DefaultAdvancedConfig возвращает конфигурацию по умолчанию
func DefaultAdvancedConfig(threshold float64) AdvancedConfig {
	return AdvancedConfig{
		HighValueThreshold: threshold,
		TestFraction:       0.2,
		Epochs:             200,
		Lambda:             0.01,
		HiddenSize:         8,
		LearningRate:       0.05,
		Seed:               42,
	}
}

// ModelMetrics метрики качества одной модели
type ModelMetrics struct {
	Name    string
	Metrics ClassMetrics
}

// AdvancedResult содержит метрики трёх классификаторов на одной задаче
type AdvancedResult struct {
	Customers int
	TrainSize int
	TestSize  int
	Models    []ModelMetrics
	Best      string
}

// RunAdvancedClassification обучает наивный Байес, линейный SVM и
// однослойный перцептрон на задаче предсказания метки High_Value
// и сравнивает их качество на отложенной выборке
func RunAdvancedClassification(records []models.TransactionRecord, config AdvancedConfig) (*AdvancedResult, error) {
	features := BuildCustomerFeatures(records, config.HighValueThreshold)
	if len(features) < 10 {
		return nil, fmt.Errorf("недостаточно покупателей для сравнения моделей: %d", len(features))
	}

	points := scaledFeatureMatrix(features)
	labels := make([]int, len(features))
	for i, f := range features {
		if f.HighValue {
			labels[i] = 1
		}
	}

	trainIdx, testIdx := splitIndices(len(points), config.TestFraction, config.Seed)
	if len(testIdx) == 0 {
		testIdx = trainIdx
	}

	trainX, trainY := subset(points, labels, trainIdx)
	testX, testY := subset(points, labels, testIdx)

	nb := trainNaiveBayes(trainX, trainY)
	svm := trainLinearSVM(trainX, trainY, config.Epochs, config.Lambda, config.Seed)
	mlp := trainMLP(trainX, trainY, config.HiddenSize, config.Epochs, config.LearningRate, config.Seed)

	result := &AdvancedResult{
		Customers: len(features),
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}

	result.Models = []ModelMetrics{
		{Name: "Наивный Байес", Metrics: evaluateBinary(testY, predictAll(testX, nb.predict))},
		{Name: "Линейный SVM", Metrics: evaluateBinary(testY, predictAll(testX, svm.predict))},
		{Name: "Перцептрон MLP", Metrics: evaluateBinary(testY, predictAll(testX, mlp.predict))},
	}

	sort.SliceStable(result.Models, func(i, j int) bool {
		return result.Models[i].Metrics.F1 > result.Models[j].Metrics.F1
	})
	result.Best = result.Models[0].Name

	return result, nil
}

// subset извлекает строки матрицы признаков и метки по индексам
func subset(points [][]float64, labels []int, idx []int) ([][]float64, []int) {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = points[j]
		y[i] = labels[j]
	}
	return x, y
}

// predictAll применяет предсказатель к каждой строке выборки
func predictAll(points [][]float64, predict func([]float64) int) []int {
	predicted := make([]int, len(points))
	for i, p := range points {
		predicted[i] = predict(p)
	}
	return predicted
}

// naiveBayesModel гауссовский наивный Байес для двух классов
type naiveBayesModel struct {
	prior [2]float64
	mean  [2][]float64
	std   [2][]float64
}

func trainNaiveBayes(points [][]float64, labels []int) *naiveBayesModel {
	dims := len(points[0])
	model := &naiveBayesModel{}

	for class := 0; class < 2; class++ {
		model.mean[class] = make([]float64, dims)
		model.std[class] = make([]float64, dims)

		for d := 0; d < dims; d++ {
			column := make([]float64, 0)
			for i, p := range points {
				if labels[i] == class {
					column = append(column, p[d])
				}
			}
			if len(column) == 0 {
				model.std[class][d] = 1
				continue
			}
			mean, std := stat.MeanStdDev(column, nil)
			if std == 0 || math.IsNaN(std) {
				std = 1e-3
			}
			model.mean[class][d] = mean
			model.std[class][d] = std
		}

		count := 0
		for _, label := range labels {
			if label == class {
				count++
			}
		}
		model.prior[class] = (float64(count) + 1) / (float64(len(labels)) + 2)
	}

	return model
}

// predict возвращает класс с наибольшим логарифмом апостериорной вероятности
func (m *naiveBayesModel) predict(point []float64) int {
	best, bestScore := 0, math.Inf(-1)
	for class := 0; class < 2; class++ {
		score := math.Log(m.prior[class])
		for d, value := range point {
			std := m.std[class][d]
			diff := value - m.mean[class][d]
			score += -math.Log(std*math.Sqrt(2*math.Pi)) - diff*diff/(2*std*std)
		}
		if score > bestScore {
			best, bestScore = class, score
		}
	}
	return best
}

// svmModel линейный SVM, обученный стохастическим субградиентом
// по hinge-функции потерь (схема Pegasos)
type svmModel struct {
	weights []float64
	bias    float64
}

func trainLinearSVM(points [][]float64, labels []int, epochs int, lambda float64, seed int64) *svmModel {
	dims := len(points[0])
	model := &svmModel{weights: make([]float64, dims)}
	rng := rand.New(rand.NewSource(seed))

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}

	step := 0
	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, i := range order {
			step++
			eta := 1 / (lambda * float64(step))

			y := float64(2*labels[i] - 1)
			margin := model.bias
			for d, w := range model.weights {
				margin += w * points[i][d]
			}

			for d := range model.weights {
				model.weights[d] *= 1 - eta*lambda
			}
			if y*margin < 1 {
				for d := range model.weights {
					model.weights[d] += eta * y * points[i][d]
				}
				model.bias += eta * y
			}
		}
	}

	return model
}

func (m *svmModel) predict(point []float64) int {
	score := m.bias
	for d, w := range m.weights {
		score += w * point[d]
	}
	if score >= 0 {
		return 1
	}
	return 0
}

// mlpModel перцептрон с одним скрытым слоем и сигмоидными активациями
type mlpModel struct {
	hiddenWeights [][]float64
	hiddenBias    []float64
	outputWeights []float64
	outputBias    float64
}

func trainMLP(points [][]float64, labels []int, hiddenSize, epochs int, learningRate float64, seed int64) *mlpModel {
	dims := len(points[0])
	rng := rand.New(rand.NewSource(seed))

	model := &mlpModel{
		hiddenWeights: make([][]float64, hiddenSize),
		hiddenBias:    make([]float64, hiddenSize),
		outputWeights: make([]float64, hiddenSize),
	}
	for h := 0; h < hiddenSize; h++ {
		model.hiddenWeights[h] = make([]float64, dims)
		for d := 0; d < dims; d++ {
			model.hiddenWeights[h][d] = rng.NormFloat64() * 0.5
		}
		model.outputWeights[h] = rng.NormFloat64() * 0.5
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}

	hidden := make([]float64, hiddenSize)
	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, i := range order {
			// Прямой проход
			for h := 0; h < hiddenSize; h++ {
				sum := model.hiddenBias[h]
				for d, value := range points[i] {
					sum += model.hiddenWeights[h][d] * value
				}
				hidden[h] = sigmoid(sum)
			}
			outSum := model.outputBias
			for h, activation := range hidden {
				outSum += model.outputWeights[h] * activation
			}
			output := sigmoid(outSum)

			// Обратное распространение ошибки
			target := float64(labels[i])
			outputDelta := output - target

			for h := 0; h < hiddenSize; h++ {
				hiddenDelta := outputDelta * model.outputWeights[h] * hidden[h] * (1 - hidden[h])
				model.outputWeights[h] -= learningRate * outputDelta * hidden[h]
				for d, value := range points[i] {
					model.hiddenWeights[h][d] -= learningRate * hiddenDelta * value
				}
				model.hiddenBias[h] -= learningRate * hiddenDelta
			}
			model.outputBias -= learningRate * outputDelta
		}
	}

	return model
}

func (m *mlpModel) predict(point []float64) int {
	outSum := m.outputBias
	for h := range m.hiddenWeights {
		sum := m.hiddenBias[h]
		for d, value := range point {
			sum += m.hiddenWeights[h][d] * value
		}
		outSum += m.outputWeights[h] * sigmoid(sum)
	}
	if sigmoid(outSum) >= 0.5 {
		return 1
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
