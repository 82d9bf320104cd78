package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// withPlantedOutlier строит однородные суммы и одну экстремальную
func withPlantedOutlier() []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, 101)
	for i := 0; i < 100; i++ {
		// Суммы в узком диапазоне 9..11
		records = append(records, purchase(1000+i, fmt.Sprintf("I%d", i), 1, 9+float64(i%3), "France"))
	}
	records = append(records, purchase(9999, "X1", 1, 100000, "France"))
	return records
}

func TestRunOutlierAnalysisFindsPlantedValue(t *testing.T) {
	result, err := RunOutlierAnalysis(withPlantedOutlier(), DefaultOutlierConfig())
	require.NoError(t, err)

	assert.Equal(t, 101, result.Records)

	// Оба метода находят подброшенный выброс
	assert.GreaterOrEqual(t, result.ZScore.Count, 1)
	assert.GreaterOrEqual(t, result.IQR.Count, 1)

	require.NotEmpty(t, result.ZScore.TopAmounts)
	assert.InDelta(t, 100000.0, result.ZScore.TopAmounts[0], 1e-6)
	require.NotEmpty(t, result.IQR.TopAmounts)
	assert.InDelta(t, 100000.0, result.IQR.TopAmounts[0], 1e-6)
	assert.InDelta(t, 100000.0, result.ZScore.MaxAmount, 1e-6)
	assert.LessOrEqual(t, result.IQR.MinAmount, result.IQR.MaxAmount)

	// Доли считаются от общего числа записей
	assert.InDelta(t, float64(result.ZScore.Count)/101, result.ZScore.Share, 1e-9)
}

func TestRunOutlierAnalysisUniformData(t *testing.T) {
	records := make([]models.TransactionRecord, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, purchase(100+i, fmt.Sprintf("U%d", i), 1, 10, "France"))
	}

	result, err := RunOutlierAnalysis(records, DefaultOutlierConfig())
	require.NoError(t, err)

	// На одинаковых суммах выбросов нет
	assert.Equal(t, 0, result.ZScore.Count)
	assert.Equal(t, 0, result.IQR.Count)
}

func TestRunOutlierAnalysisEmpty(t *testing.T) {
	_, err := RunOutlierAnalysis(nil, DefaultOutlierConfig())
	assert.Error(t, err)
}
