package analysis

import (
	"fmt"
	"sort"

	"github.com/LilVoxy/coursework_retail/models"
)

// ClassificationConfig конфигурация классификатора решающего дерева
type ClassificationConfig struct {
	// Порог суммарных трат для класса «ценный покупатель»
	HighValueThreshold float64
	// Максимальная глубина дерева
	MaxDepth int
	// Минимальное количество объектов в листе
	MinLeafSize int
	// Доля данных, откладываемая в тестовую выборку
	TestFraction float64
	// Зерно генератора случайных чисел
	Seed int64
}

// DefaultClassificationConfig возвращает конфигурацию по умолчанию
func DefaultClassificationConfig(threshold float64) ClassificationConfig {
	return ClassificationConfig{
		HighValueThreshold: threshold,
		MaxDepth:           4,
		MinLeafSize:        2,
		TestFraction:       0.2,
		Seed:               42,
	}
}

// treeNode представляет узел бинарного решающего дерева над одним признаком
type treeNode struct {
	leaf      bool
	class     int
	threshold float64
	left      *treeNode // признак <= порога
	right     *treeNode // признак > порога
}

// ClassificationResult содержит метрики решающего дерева
type ClassificationResult struct {
	ClassMetrics
	Customers      int
	HighValueCount int
	TreeDepth      int
	TreeLeaves     int
}

// RunClassification обучает решающее дерево, определяющее ценных покупателей
// по агрегированным тратам, и оценивает его на отложенной выборке
func RunClassification(records []models.TransactionRecord, config ClassificationConfig) (*ClassificationResult, error) {
	features := BuildCustomerFeatures(records, config.HighValueThreshold)
	if len(features) < 5 {
		return nil, fmt.Errorf("для классификации требуется минимум 5 покупателей, получено: %d", len(features))
	}

	values := make([]float64, len(features))
	labels := make([]int, len(features))
	highValue := 0
	for i, f := range features {
		values[i] = f.TotalAmount
		if f.HighValue {
			labels[i] = 1
			highValue++
		}
	}

	trainIdx, testIdx := splitIndices(len(features), config.TestFraction, config.Seed)

	trainValues := make([]float64, len(trainIdx))
	trainLabels := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		trainValues[i] = values[idx]
		trainLabels[i] = labels[idx]
	}

	root := buildTree(trainValues, trainLabels, config.MaxDepth, config.MinLeafSize)

	actual := make([]int, len(testIdx))
	predicted := make([]int, len(testIdx))
	for i, idx := range testIdx {
		actual[i] = labels[idx]
		predicted[i] = root.predict(values[idx])
	}

	result := &ClassificationResult{
		ClassMetrics:   evaluateBinary(actual, predicted),
		Customers:      len(features),
		HighValueCount: highValue,
		TreeDepth:      root.depth(),
		TreeLeaves:     root.leaves(),
	}
	return result, nil
}

// buildTree рекурсивно строит дерево, минимизируя взвешенную нечистоту Джини
func buildTree(values []float64, labels []int, maxDepth, minLeaf int) *treeNode {
	majority, pure := majorityClass(labels)
	if maxDepth == 0 || pure || len(values) < 2*minLeaf {
		return &treeNode{leaf: true, class: majority}
	}

	threshold, found := bestSplit(values, labels, minLeaf)
	if !found {
		return &treeNode{leaf: true, class: majority}
	}

	var leftValues, rightValues []float64
	var leftLabels, rightLabels []int
	for i, v := range values {
		if v <= threshold {
			leftValues = append(leftValues, v)
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightValues = append(rightValues, v)
			rightLabels = append(rightLabels, labels[i])
		}
	}

	return &treeNode{
		threshold: threshold,
		left:      buildTree(leftValues, leftLabels, maxDepth-1, minLeaf),
		right:     buildTree(rightValues, rightLabels, maxDepth-1, minLeaf),
	}
}

// bestSplit перебирает середины соседних уникальных значений и выбирает
// порог с минимальной взвешенной нечистотой Джини
func bestSplit(values []float64, labels []int, minLeaf int) (float64, bool) {
	type pair struct {
		value float64
		label int
	}
	pairs := make([]pair, len(values))
	for i := range values {
		pairs[i] = pair{values[i], labels[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	total := len(pairs)
	totalPositive := 0
	for _, p := range pairs {
		totalPositive += p.label
	}

	bestGini := 2.0
	bestThreshold := 0.0
	found := false

	leftPositive := 0
	for i := 0; i < total-1; i++ {
		leftPositive += pairs[i].label
		if pairs[i].value == pairs[i+1].value {
			continue
		}

		leftCount := i + 1
		rightCount := total - leftCount
		if leftCount < minLeaf || rightCount < minLeaf {
			continue
		}

		gini := weightedGini(leftPositive, leftCount, totalPositive-leftPositive, rightCount)
		if gini < bestGini {
			bestGini = gini
			bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
			found = true
		}
	}

	return bestThreshold, found
}

// weightedGini вычисляет взвешенную нечистоту Джини разбиения
func weightedGini(leftPositive, leftCount, rightPositive, rightCount int) float64 {
	gini := func(positive, count int) float64 {
		if count == 0 {
			return 0
		}
		p := float64(positive) / float64(count)
		return 2 * p * (1 - p)
	}

	total := float64(leftCount + rightCount)
	return float64(leftCount)/total*gini(leftPositive, leftCount) +
		float64(rightCount)/total*gini(rightPositive, rightCount)
}

// majorityClass возвращает преобладающий класс и признак чистоты выборки
func majorityClass(labels []int) (int, bool) {
	positive := 0
	for _, l := range labels {
		positive += l
	}
	pure := positive == 0 || positive == len(labels)
	if 2*positive > len(labels) {
		return 1, pure
	}
	return 0, pure
}

// predict возвращает класс для значения признака
func (n *treeNode) predict(value float64) int {
	if n.leaf {
		return n.class
	}
	if value <= n.threshold {
		return n.left.predict(value)
	}
	return n.right.predict(value)
}

// depth возвращает глубину дерева
func (n *treeNode) depth() int {
	if n.leaf {
		return 0
	}
	left := n.left.depth()
	right := n.right.depth()
	if left > right {
		return left + 1
	}
	return right + 1
}

// leaves возвращает количество листьев дерева
func (n *treeNode) leaves() int {
	if n.leaf {
		return 1
	}
	return n.left.leaves() + n.right.leaves()
}
