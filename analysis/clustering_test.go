package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// twoBlobs строит транзакции для двух далеко разнесенных групп покупателей
func twoBlobs(perGroup int) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, perGroup*2)
	for i := 0; i < perGroup; i++ {
		records = append(records,
			purchase(1000+i, fmt.Sprintf("S%d", i), 1, 10+float64(i), "France"),
			purchase(2000+i, fmt.Sprintf("B%d", i), 1, 10000+float64(i)*10, "France"),
		)
	}
	return records
}

func TestRunClusteringSeparatesBlobs(t *testing.T) {
	records := twoBlobs(10)

	result, err := RunClustering(records, DefaultClusteringConfig(2))
	require.NoError(t, err)
	require.Len(t, result.Labels, 20)

	// Покупатели отсортированы по идентификатору: первые 10 — экономная
	// группа, последние 10 — дорогая. Внутри группы метки совпадают,
	// между группами различаются
	small := result.Labels[0]
	big := result.Labels[10]
	assert.NotEqual(t, small, big)
	for i := 0; i < 10; i++ {
		assert.Equal(t, small, result.Labels[i])
		assert.Equal(t, big, result.Labels[10+i])
	}

	// Хорошо разделенные группы дают высокий силуэт
	assert.Greater(t, result.Silhouette, 0.5)

	require.Len(t, result.Profiles, 2)
	sizes := result.Profiles[0].Size + result.Profiles[1].Size
	assert.Equal(t, 20, sizes)
}

func TestRunClusteringDeterministic(t *testing.T) {
	records := twoBlobs(8)

	first, err := RunClustering(records, DefaultClusteringConfig(2))
	require.NoError(t, err)
	second, err := RunClustering(records, DefaultClusteringConfig(2))
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Inertia, second.Inertia)
}

func TestRunClusteringTooFewCustomers(t *testing.T) {
	records := []models.TransactionRecord{
		purchase(1, "A", 1, 10, "France"),
		purchase(2, "B", 1, 20, "France"),
	}

	_, err := RunClustering(records, DefaultClusteringConfig(3))
	assert.Error(t, err)
}

func TestElbowSweepInertiaDecreases(t *testing.T) {
	records := twoBlobs(12)

	points, err := ElbowSweep(records, 4, 42)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 2, points[0].K)
	assert.Equal(t, 4, points[2].K)

	// Больше кластеров — не хуже приближение
	assert.LessOrEqual(t, points[2].Inertia, points[0].Inertia+1e-9)
}
