package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/olap"
	"github.com/LilVoxy/coursework_retail/utils"
)

// ChartGenerator строит графики по очищенным данным
type ChartGenerator struct {
	resultsDir string
	logger     *utils.PipelineLogger
}

// NewChartGenerator создает генератор графиков
func NewChartGenerator(resultsDir string, logger *utils.PipelineLogger) *ChartGenerator {
	return &ChartGenerator{
		resultsDir: resultsDir,
		logger:     logger,
	}
}

// WriteAll строит все графики и возвращает пути созданных файлов
func (g *ChartGenerator) WriteAll(records []models.TransactionRecord) ([]string, error) {
	if err := os.MkdirAll(g.resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог результатов: %w", err)
	}

	paths := make([]string, 0, 3)

	monthlyPath, err := g.MonthlyRevenueChart(records)
	if err != nil {
		return paths, err
	}
	paths = append(paths, monthlyPath)

	countriesPath, err := g.TopCountriesChart(records)
	if err != nil {
		return paths, err
	}
	paths = append(paths, countriesPath)

	histPath, err := g.AmountHistogram(records)
	if err != nil {
		return paths, err
	}
	paths = append(paths, histPath)

	return paths, nil
}

// MonthlyRevenueChart строит линейный график выручки по месяцам
func (g *ChartGenerator) MonthlyRevenueChart(records []models.TransactionRecord) (string, error) {
	monthly, err := olap.RollUp(records, olap.Day, olap.Month)
	if err != nil {
		return "", err
	}

	points := make(plotter.XYs, len(monthly))
	labels := make([]string, len(monthly))
	for i, t := range monthly {
		points[i].X = float64(i)
		points[i].Y = t.TotalAmount.InexactFloat64()
		labels[i] = t.Period
	}

	p := plot.New()
	p.Title.Text = "Выручка по месяцам"
	p.Y.Label.Text = "Выручка"
	p.NominalX(labels...)

	line, pts, err := plotter.NewLinePoints(points)
	if err != nil {
		return "", fmt.Errorf("не удалось построить график выручки: %w", err)
	}
	p.Add(line, pts)

	return g.savePlot(p, "monthly_revenue.png", 10*vg.Inch, 4*vg.Inch)
}

// TopCountriesChart строит столбчатую диаграмму выручки топ-10 стран
func (g *ChartGenerator) TopCountriesChart(records []models.TransactionRecord) (string, error) {
	summary := olap.CountrySummary(records)
	if len(summary) > 10 {
		summary = summary[:10]
	}

	values := make(plotter.Values, len(summary))
	labels := make([]string, len(summary))
	for i, c := range summary {
		values[i] = c.Revenue.InexactFloat64()
		labels[i] = c.Country
	}

	p := plot.New()
	p.Title.Text = "Топ-10 стран по выручке"
	p.Y.Label.Text = "Выручка"
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.5

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return "", fmt.Errorf("не удалось построить диаграмму стран: %w", err)
	}
	p.Add(bars)

	return g.savePlot(p, "top_countries.png", 10*vg.Inch, 4*vg.Inch)
}

// AmountHistogram строит гистограмму распределения сумм транзакций.
// Хвост распределения очень длинный, поэтому суммы обрезаются по
// 99-му перцентилю, чтобы гистограмма оставалась читаемой
func (g *ChartGenerator) AmountHistogram(records []models.TransactionRecord) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("нет данных для гистограммы")
	}

	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.TotalAmount.InexactFloat64()
	}
	cutoff := percentile(amounts, 0.99)

	values := make(plotter.Values, 0, len(amounts))
	for _, a := range amounts {
		if a <= cutoff {
			values = append(values, a)
		}
	}

	p := plot.New()
	p.Title.Text = "Распределение сумм транзакций"
	p.X.Label.Text = "Сумма"
	p.Y.Label.Text = "Количество"

	hist, err := plotter.NewHist(values, 40)
	if err != nil {
		return "", fmt.Errorf("не удалось построить гистограмму: %w", err)
	}
	p.Add(hist)

	return g.savePlot(p, "amount_histogram.png", 8*vg.Inch, 4*vg.Inch)
}

// savePlot сохраняет график в PNG и логирует путь
func (g *ChartGenerator) savePlot(p *plot.Plot, name string, width, height vg.Length) (string, error) {
	path := filepath.Join(g.resultsDir, name)
	if err := p.Save(width, height, path); err != nil {
		return "", fmt.Errorf("не удалось сохранить график %s: %w", name, err)
	}
	g.logger.Info("График записан: %s", path)
	return path, nil
}

// percentile возвращает значение перцентиля q по копии выборки
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}
