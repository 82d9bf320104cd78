package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// separableCustomers строит транзакции для покупателей двух групп:
// экономных (траты ~ 100) и ценных (траты ~ 9000)
func separableCustomers(perGroup int) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, perGroup*2)
	for i := 0; i < perGroup; i++ {
		records = append(records,
			purchase(1000+i, fmt.Sprintf("L%d", i), 1, 100+float64(i), "United Kingdom"),
			purchase(2000+i, fmt.Sprintf("H%d", i), 1, 9000+float64(i)*10, "United Kingdom"),
		)
	}
	return records
}

func TestRunClassificationSeparableGroups(t *testing.T) {
	records := separableCustomers(15)

	result, err := RunClassification(records, DefaultClassificationConfig(5000))
	require.NoError(t, err)

	assert.Equal(t, 30, result.Customers)
	assert.Equal(t, 15, result.HighValueCount)

	// Группы линейно разделимы по тратам, дерево должно разделить их точно
	assert.InDelta(t, 1.0, result.Accuracy, 1e-9)
	assert.GreaterOrEqual(t, result.TreeDepth, 1)
	assert.GreaterOrEqual(t, result.TreeLeaves, 2)
}

func TestRunClassificationTooFewCustomers(t *testing.T) {
	records := []models.TransactionRecord{
		purchase(1, "A", 1, 10, "France"),
		purchase(2, "B", 1, 20, "France"),
	}

	_, err := RunClassification(records, DefaultClassificationConfig(5000))
	assert.Error(t, err)
}

func TestBuildTreePureLeaf(t *testing.T) {
	// Все метки одинаковы: дерево вырождается в один лист
	values := []float64{1, 2, 3, 4}
	labels := []int{1, 1, 1, 1}

	root := buildTree(values, labels, 4, 2)
	assert.Equal(t, 0, root.depth())
	assert.Equal(t, 1, root.leaves())
	assert.Equal(t, 1, root.predict(100))
}
