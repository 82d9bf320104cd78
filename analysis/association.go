package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LilVoxy/coursework_retail/models"
)

// AssociationConfig конфигурация поиска ассоциативных правил
type AssociationConfig struct {
	// Минимальная поддержка набора (доля корзин)
	MinSupport float64
	// Минимальный lift правила
	MinLift float64
	// Максимальный размер набора
	MaxItemsetSize int
}

// DefaultAssociationConfig возвращает конфигурацию по умолчанию
func DefaultAssociationConfig() AssociationConfig {
	return AssociationConfig{
		MinSupport:     0.02,
		MinLift:        1.0,
		MaxItemsetSize: 3,
	}
}

// Itemset представляет частый набор товаров
type Itemset struct {
	Items   []string
	Support float64
}

// Rule представляет ассоциативное правило «если купил A, купит и B»
type Rule struct {
	Antecedent []string
	Consequent []string
	Support    float64
	Confidence float64
	Lift       float64
}

// AssociationResult содержит частые наборы и ассоциативные правила
type AssociationResult struct {
	Baskets          int
	FrequentItemsets []Itemset
	Rules            []Rule
}

// RunAssociation строит корзины по счетам и выполняет поиск частых
// наборов алгоритмом Apriori с последующей генерацией правил
func RunAssociation(records []models.TransactionRecord, config AssociationConfig) (*AssociationResult, error) {
	baskets := buildBaskets(records)
	if len(baskets) == 0 {
		return nil, fmt.Errorf("нет корзин для анализа")
	}

	supports := apriori(baskets, config.MinSupport, config.MaxItemsetSize)

	itemsets := make([]Itemset, 0, len(supports))
	for key, support := range supports {
		itemsets = append(itemsets, Itemset{Items: strings.Split(key, "\x1f"), Support: support})
	}
	sort.Slice(itemsets, func(i, j int) bool {
		if itemsets[i].Support != itemsets[j].Support {
			return itemsets[i].Support > itemsets[j].Support
		}
		return itemsetKey(itemsets[i].Items) < itemsetKey(itemsets[j].Items)
	})

	rules := generateRules(supports, config.MinLift)

	return &AssociationResult{
		Baskets:          len(baskets),
		FrequentItemsets: itemsets,
		Rules:            rules,
	}, nil
}

// buildBaskets группирует уникальные товары по счетам
func buildBaskets(records []models.TransactionRecord) []map[string]struct{} {
	byInvoice := make(map[string]map[string]struct{})
	for _, r := range records {
		if r.Description == "" {
			continue
		}
		basket, ok := byInvoice[r.Invoice]
		if !ok {
			basket = make(map[string]struct{})
			byInvoice[r.Invoice] = basket
		}
		basket[r.Description] = struct{}{}
	}

	baskets := make([]map[string]struct{}, 0, len(byInvoice))
	for _, basket := range byInvoice {
		baskets = append(baskets, basket)
	}
	return baskets
}

// itemsetKey кодирует отсортированный набор товаров в ключ карты
func itemsetKey(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// apriori возвращает поддержку всех частых наборов размером до maxSize.
// Кандидаты уровня k строятся объединением частых наборов уровня k-1
func apriori(baskets []map[string]struct{}, minSupport float64, maxSize int) map[string]float64 {
	total := float64(len(baskets))
	supports := make(map[string]float64)

	// Уровень 1: частые одиночные товары
	counts := make(map[string]int)
	for _, basket := range baskets {
		for item := range basket {
			counts[item]++
		}
	}

	current := make([][]string, 0)
	for item, count := range counts {
		support := float64(count) / total
		if support >= minSupport {
			supports[item] = support
			current = append(current, []string{item})
		}
	}

	for size := 2; size <= maxSize && len(current) > 1; size++ {
		candidates := joinItemsets(current)

		next := make([][]string, 0)
		for _, candidate := range candidates {
			count := 0
			for _, basket := range baskets {
				if basketContains(basket, candidate) {
					count++
				}
			}
			support := float64(count) / total
			if support >= minSupport {
				supports[itemsetKey(candidate)] = support
				next = append(next, candidate)
			}
		}
		current = next
	}

	return supports
}

// joinItemsets строит кандидатов уровня k+1 из частых наборов уровня k
func joinItemsets(itemsets [][]string) [][]string {
	seen := make(map[string]struct{})
	candidates := make([][]string, 0)

	for i := 0; i < len(itemsets); i++ {
		for j := i + 1; j < len(itemsets); j++ {
			union := unionItems(itemsets[i], itemsets[j])
			if len(union) != len(itemsets[i])+1 {
				continue
			}
			key := itemsetKey(union)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			candidates = append(candidates, union)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return itemsetKey(candidates[i]) < itemsetKey(candidates[j])
	})
	return candidates
}

// unionItems возвращает отсортированное объединение двух наборов
func unionItems(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, item := range a {
		set[item] = struct{}{}
	}
	for _, item := range b {
		set[item] = struct{}{}
	}

	union := make([]string, 0, len(set))
	for item := range set {
		union = append(union, item)
	}
	sort.Strings(union)
	return union
}

// basketContains проверяет, содержит ли корзина все товары набора
func basketContains(basket map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := basket[item]; !ok {
			return false
		}
	}
	return true
}

// generateRules строит правила из частых наборов размером >= 2,
// перебирая непустые собственные подмножества как посылку
func generateRules(supports map[string]float64, minLift float64) []Rule {
	rules := make([]Rule, 0)

	for key, support := range supports {
		items := strings.Split(key, "\x1f")
		if len(items) < 2 {
			continue
		}

		for _, antecedent := range properSubsets(items) {
			consequent := difference(items, antecedent)

			antecedentSupport, ok := supports[itemsetKey(antecedent)]
			if !ok || antecedentSupport == 0 {
				continue
			}
			consequentSupport, ok := supports[itemsetKey(consequent)]
			if !ok || consequentSupport == 0 {
				continue
			}

			confidence := support / antecedentSupport
			lift := confidence / consequentSupport
			if lift < minLift {
				continue
			}

			rules = append(rules, Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    support,
				Confidence: confidence,
				Lift:       lift,
			})
		}
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		ki := itemsetKey(rules[i].Antecedent) + "->" + itemsetKey(rules[i].Consequent)
		kj := itemsetKey(rules[j].Antecedent) + "->" + itemsetKey(rules[j].Consequent)
		return ki < kj
	})
	return rules
}

// properSubsets возвращает все непустые собственные подмножества набора
func properSubsets(items []string) [][]string {
	n := len(items)
	subsets := make([][]string, 0)

	for mask := 1; mask < (1<<n)-1; mask++ {
		subset := make([]string, 0)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, items[i])
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

// difference возвращает товары из items, отсутствующие в exclude
func difference(items, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, item := range exclude {
		excluded[item] = struct{}{}
	}

	result := make([]string, 0, len(items)-len(exclude))
	for _, item := range items {
		if _, ok := excluded[item]; !ok {
			result = append(result, item)
		}
	}
	return result
}
