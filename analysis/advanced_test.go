package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAdvancedClassificationSeparableGroups(t *testing.T) {
	records := separableCustomers(20)

	result, err := RunAdvancedClassification(records, DefaultAdvancedConfig(5000))
	require.NoError(t, err)

	assert.Equal(t, 40, result.Customers)
	assert.Equal(t, result.TrainSize+result.TestSize, 40)
	require.Len(t, result.Models, 3)

	// На линейно разделимой задаче каждый классификатор лучше случайного
	for _, m := range result.Models {
		assert.Greater(t, m.Metrics.Accuracy, 0.5, "модель %s не лучше случайной", m.Name)
	}

	// Лучшая модель по F1 стоит первой
	assert.Equal(t, result.Models[0].Name, result.Best)
	for i := 1; i < len(result.Models); i++ {
		assert.GreaterOrEqual(t, result.Models[i-1].Metrics.F1, result.Models[i].Metrics.F1)
	}
}

func TestRunAdvancedClassificationDeterministic(t *testing.T) {
	records := separableCustomers(15)

	first, err := RunAdvancedClassification(records, DefaultAdvancedConfig(5000))
	require.NoError(t, err)
	second, err := RunAdvancedClassification(records, DefaultAdvancedConfig(5000))
	require.NoError(t, err)

	assert.Equal(t, first.Best, second.Best)
	assert.Equal(t, first.Models, second.Models)
}

func TestRunAdvancedClassificationTooFewCustomers(t *testing.T) {
	records := separableCustomers(2)

	_, err := RunAdvancedClassification(records, DefaultAdvancedConfig(5000))
	assert.Error(t, err)
}

func TestNaiveBayesPredictsSeparatedClasses(t *testing.T) {
	points := [][]float64{{-2}, {-1.8}, {-2.2}, {2}, {1.8}, {2.2}}
	labels := []int{0, 0, 0, 1, 1, 1}

	model := trainNaiveBayes(points, labels)
	assert.Equal(t, 0, model.predict([]float64{-2}))
	assert.Equal(t, 1, model.predict([]float64{2}))
}

func TestLinearSVMPredictsSeparatedClasses(t *testing.T) {
	points := [][]float64{{-2}, {-1.5}, {-2.5}, {2}, {1.5}, {2.5}}
	labels := []int{0, 0, 0, 1, 1, 1}

	model := trainLinearSVM(points, labels, 100, 0.01, 42)
	assert.Equal(t, 0, model.predict([]float64{-2}))
	assert.Equal(t, 1, model.predict([]float64{2}))
}
