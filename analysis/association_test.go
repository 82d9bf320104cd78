package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

// basketItem строит строку транзакции с заданным товаром в заданном счете
func basketItem(invoice, item string) models.TransactionRecord {
	r := purchase(1, invoice, 1, 1, "United Kingdom")
	r.Description = item
	return r
}

// plantedBaskets строит корзины, где ЧАЙНИК и ЧАШКА почти всегда вместе
func plantedBaskets() []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0)
	for i := 0; i < 8; i++ {
		invoice := fmt.Sprintf("P%d", i)
		records = append(records,
			basketItem(invoice, "ЧАЙНИК"),
			basketItem(invoice, "ЧАШКА"),
		)
	}
	// Шумовые корзины с разными товарами
	for i := 0; i < 4; i++ {
		invoice := fmt.Sprintf("N%d", i)
		records = append(records, basketItem(invoice, fmt.Sprintf("СВЕЧА-%d", i)))
	}
	return records
}

func TestRunAssociationFindsPlantedPair(t *testing.T) {
	config := AssociationConfig{MinSupport: 0.5, MinLift: 1.0, MaxItemsetSize: 2}

	result, err := RunAssociation(plantedBaskets(), config)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Baskets)

	// Пара встречается в 8 корзинах из 12
	var pair *Itemset
	for i := range result.FrequentItemsets {
		if len(result.FrequentItemsets[i].Items) == 2 {
			pair = &result.FrequentItemsets[i]
			break
		}
	}
	require.NotNil(t, pair, "частая пара не найдена")
	assert.ElementsMatch(t, []string{"ЧАЙНИК", "ЧАШКА"}, pair.Items)
	assert.InDelta(t, 8.0/12, pair.Support, 1e-9)

	// Правило ЧАЙНИК -> ЧАШКА: достоверность 1, lift = 1 / (8/12) = 1.5
	require.NotEmpty(t, result.Rules)
	rule := result.Rules[0]
	assert.InDelta(t, 1.0, rule.Confidence, 1e-9)
	assert.InDelta(t, 1.5, rule.Lift, 1e-9)
}

func TestRunAssociationRespectsMinSupport(t *testing.T) {
	// Порог выше поддержки пары: остаются только одиночные товары
	config := AssociationConfig{MinSupport: 0.9, MinLift: 1.0, MaxItemsetSize: 3}

	result, err := RunAssociation(plantedBaskets(), config)
	require.NoError(t, err)

	assert.Empty(t, result.FrequentItemsets)
	assert.Empty(t, result.Rules)
}

func TestRunAssociationLiftFilter(t *testing.T) {
	// Независимые товары не образуют правил с lift выше 1.5
	config := AssociationConfig{MinSupport: 0.5, MinLift: 2.0, MaxItemsetSize: 2}

	result, err := RunAssociation(plantedBaskets(), config)
	require.NoError(t, err)
	assert.Empty(t, result.Rules)
}

func TestRunAssociationNoBaskets(t *testing.T) {
	_, err := RunAssociation(nil, DefaultAssociationConfig())
	assert.Error(t, err)
}

func TestItemsetKeyOrderInsensitive(t *testing.T) {
	assert.Equal(t, itemsetKey([]string{"Б", "А"}), itemsetKey([]string{"А", "Б"}))
}
