package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/LilVoxy/coursework_retail/models"
)

// ClusteringConfig конфигурация кластеризации k-средних
type ClusteringConfig struct {
	// Количество кластеров
	Clusters int
	// Максимальное количество итераций алгоритма Ллойда
	MaxIterations int
	// Порог сходимости по смещению центроидов
	Tolerance float64
	// Зерно генератора случайных чисел
	Seed int64
}

// DefaultClusteringConfig возвращает конфигурацию по умолчанию
func DefaultClusteringConfig(clusters int) ClusteringConfig {
	return ClusteringConfig{
		Clusters:      clusters,
		MaxIterations: 100,
		Tolerance:     1e-6,
		Seed:          42,
	}
}

// ClusterProfile представляет характеристику одного кластера покупателей
// в исходных (немасштабированных) признаках
type ClusterProfile struct {
	Cluster       int
	Size          int
	MeanTotal     float64
	MeanAvg       float64
	MeanPurchases float64
	MeanInvoices  float64
}

// ClusteringResult содержит результаты сегментации покупателей
type ClusteringResult struct {
	Customers  []CustomerFeatures
	Labels     []int
	Inertia    float64
	Silhouette float64
	Profiles   []ClusterProfile
}

// RunClustering сегментирует покупателей методом k-средних по
// стандартизованным признакам (траты, средний чек, количество покупок
// и счетов) и оценивает качество силуэтным коэффициентом
func RunClustering(records []models.TransactionRecord, config ClusteringConfig) (*ClusteringResult, error) {
	features := BuildCustomerFeatures(records, 0)
	if len(features) < config.Clusters {
		return nil, fmt.Errorf("покупателей (%d) меньше, чем кластеров (%d)", len(features), config.Clusters)
	}

	points := scaledFeatureMatrix(features)

	centroids := initCentroids(points, config.Clusters, config.Seed)
	labels := make([]int, len(points))

	// Итерации Ллойда до сходимости центроидов
	for iteration := 0; iteration < config.MaxIterations; iteration++ {
		for i, p := range points {
			labels[i] = nearestCentroid(p, centroids)
		}

		moved := updateCentroids(points, labels, centroids)
		if moved < config.Tolerance {
			break
		}
	}

	result := &ClusteringResult{
		Customers:  features,
		Labels:     labels,
		Inertia:    inertia(points, labels, centroids),
		Silhouette: silhouetteScore(points, labels, config.Clusters),
		Profiles:   clusterProfiles(features, labels, config.Clusters),
	}
	return result, nil
}

// ElbowPoint представляет качество кластеризации для одного значения k
type ElbowPoint struct {
	K          int
	Inertia    float64
	Silhouette float64
}

// ElbowSweep перебирает количество кластеров от 2 до maxClusters
// для подбора оптимального k методом локтя
func ElbowSweep(records []models.TransactionRecord, maxClusters int, seed int64) ([]ElbowPoint, error) {
	points := make([]ElbowPoint, 0, maxClusters-1)
	for k := 2; k <= maxClusters; k++ {
		config := DefaultClusteringConfig(k)
		config.Seed = seed
		result, err := RunClustering(records, config)
		if err != nil {
			return points, err
		}
		points = append(points, ElbowPoint{K: k, Inertia: result.Inertia, Silhouette: result.Silhouette})
	}
	return points, nil
}

// scaledFeatureMatrix строит матрицу стандартизованных признаков покупателей
func scaledFeatureMatrix(features []CustomerFeatures) [][]float64 {
	columns := [][]float64{
		make([]float64, len(features)),
		make([]float64, len(features)),
		make([]float64, len(features)),
		make([]float64, len(features)),
	}
	for i, f := range features {
		columns[0][i] = f.TotalAmount
		columns[1][i] = f.AvgAmount
		columns[2][i] = float64(f.PurchaseCount)
		columns[3][i] = float64(f.InvoiceCount)
	}
	for c := range columns {
		columns[c], _, _ = standardize(columns[c])
	}

	points := make([][]float64, len(features))
	for i := range features {
		points[i] = []float64{columns[0][i], columns[1][i], columns[2][i], columns[3][i]}
	}
	return points
}

// initCentroids выбирает начальные центроиды по схеме k-means++:
// первый случайно, следующие — пропорционально квадрату расстояния
func initCentroids(points [][]float64, k int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	centroids := make([][]float64, 0, k)

	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if dist := squaredDistance(p, c); dist < d {
					d = dist
				}
			}
			distances[i] = d
			total += d
		}

		// Все точки совпали с центроидами — добавляем любую
		if total == 0 {
			centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), points[chosen]...))
	}

	return centroids
}

// nearestCentroid возвращает индекс ближайшего центроида
func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := squaredDistance(point, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// updateCentroids пересчитывает центроиды и возвращает суммарное смещение
func updateCentroids(points [][]float64, labels []int, centroids [][]float64) float64 {
	dims := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dims)
	}

	for i, p := range points {
		cluster := labels[i]
		counts[cluster]++
		for d := range p {
			sums[cluster][d] += p[d]
		}
	}

	moved := 0.0
	for i := range centroids {
		if counts[i] == 0 {
			continue // пустой кластер сохраняет прежний центроид
		}
		for d := range centroids[i] {
			updated := sums[i][d] / float64(counts[i])
			moved += math.Abs(updated - centroids[i][d])
			centroids[i][d] = updated
		}
	}
	return moved
}

// inertia возвращает сумму квадратов расстояний точек до своих центроидов
func inertia(points [][]float64, labels []int, centroids [][]float64) float64 {
	total := 0.0
	for i, p := range points {
		total += squaredDistance(p, centroids[labels[i]])
	}
	return total
}

// silhouetteScore вычисляет средний силуэтный коэффициент разбиения
func silhouetteScore(points [][]float64, labels []int, k int) float64 {
	if k < 2 || len(points) < 2 {
		return 0
	}

	clusterSizes := make([]int, k)
	for _, l := range labels {
		clusterSizes[l]++
	}

	total := 0.0
	counted := 0
	for i, p := range points {
		own := labels[i]
		if clusterSizes[own] < 2 {
			continue
		}

		// Среднее расстояние до своего кластера и до ближайшего чужого
		sums := make([]float64, k)
		for j, q := range points {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(squaredDistance(p, q))
		}

		a := sums[own] / float64(clusterSizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || clusterSizes[c] == 0 {
				continue
			}
			if avg := sums[c] / float64(clusterSizes[c]); avg < b {
				b = avg
			}
		}

		if math.IsInf(b, 1) {
			continue
		}
		denom := math.Max(a, b)
		if denom > 0 {
			total += (b - a) / denom
		}
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// clusterProfiles строит характеристики кластеров в исходных признаках
func clusterProfiles(features []CustomerFeatures, labels []int, k int) []ClusterProfile {
	profiles := make([]ClusterProfile, k)
	for i := range profiles {
		profiles[i].Cluster = i
	}

	for i, f := range features {
		p := &profiles[labels[i]]
		p.Size++
		p.MeanTotal += f.TotalAmount
		p.MeanAvg += f.AvgAmount
		p.MeanPurchases += float64(f.PurchaseCount)
		p.MeanInvoices += float64(f.InvoiceCount)
	}

	for i := range profiles {
		if profiles[i].Size == 0 {
			continue
		}
		size := float64(profiles[i].Size)
		profiles[i].MeanTotal /= size
		profiles[i].MeanAvg /= size
		profiles[i].MeanPurchases /= size
		profiles[i].MeanInvoices /= size
	}
	return profiles
}

// squaredDistance возвращает квадрат евклидова расстояния
func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
