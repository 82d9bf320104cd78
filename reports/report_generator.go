// Package reports формирует текстовые отчёты и графики по результатам
// OLAP-анализа и моделей интеллектуального анализа данных.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LilVoxy/coursework_retail/analysis"
	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/olap"
	"github.com/LilVoxy/coursework_retail/utils"
)

// AnalysisResults собирает результаты всех моделей для отчёта
type AnalysisResults struct {
	Cleaning       *models.CleaningSummary
	Regression     *analysis.RegressionResult
	Classification *analysis.ClassificationResult
	Clustering     *analysis.ClusteringResult
	Association    *analysis.AssociationResult
	Advanced       *analysis.AdvancedResult
	Outliers       *analysis.OutlierResult
}

// ReportGenerator пишет отчёты в каталог результатов
type ReportGenerator struct {
	resultsDir string
	logger     *utils.PipelineLogger
}

// NewReportGenerator создает генератор отчётов
func NewReportGenerator(resultsDir string, logger *utils.PipelineLogger) *ReportGenerator {
	return &ReportGenerator{
		resultsDir: resultsDir,
		logger:     logger,
	}
}

// WriteAll формирует все текстовые отчёты и возвращает пути созданных файлов
func (g *ReportGenerator) WriteAll(records []models.TransactionRecord, results *AnalysisResults) ([]string, error) {
	if err := os.MkdirAll(g.resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог результатов: %w", err)
	}

	paths := make([]string, 0, 3)

	summaryPath, err := g.WriteExecutiveSummary(records, results.Cleaning)
	if err != nil {
		return paths, err
	}
	paths = append(paths, summaryPath)

	olapPath, err := g.WriteOLAPReport(records)
	if err != nil {
		return paths, err
	}
	paths = append(paths, olapPath)

	modelPath, err := g.WriteModelReport(results)
	if err != nil {
		return paths, err
	}
	paths = append(paths, modelPath)

	return paths, nil
}

// WriteExecutiveSummary пишет сводный отчёт: итоги очистки,
// общие показатели продаж и списки лидеров
func (g *ReportGenerator) WriteExecutiveSummary(records []models.TransactionRecord, cleaning *models.CleaningSummary) (string, error) {
	var b strings.Builder

	writeHeader(&b, "СВОДНЫЙ ОТЧЁТ ПО ПРОДАЖАМ")

	if cleaning != nil {
		b.WriteString("Очистка данных\n")
		fmt.Fprintf(&b, "  Строк в исходном файле:        %d\n", cleaning.TotalRows)
		fmt.Fprintf(&b, "  Удалено без покупателя:        %d\n", cleaning.RemovedNoCustomer)
		fmt.Fprintf(&b, "  Удалено с некорректным кол-вом: %d\n", cleaning.RemovedBadQuantity)
		fmt.Fprintf(&b, "  Удалено с некорректной ценой:  %d\n", cleaning.RemovedBadPrice)
		fmt.Fprintf(&b, "  Удалено нечитаемых строк:      %d\n", cleaning.RemovedUnparsable)
		fmt.Fprintf(&b, "  Чистых строк:                  %d\n\n", cleaning.CleanRows)
	}

	total := olap.SumTotalAmount(records)
	customers := make(map[int]struct{})
	invoices := make(map[string]struct{})
	for _, r := range records {
		customers[r.CustomerID] = struct{}{}
		invoices[r.Invoice] = struct{}{}
	}

	b.WriteString("Общие показатели\n")
	fmt.Fprintf(&b, "  Транзакций:   %d\n", len(records))
	fmt.Fprintf(&b, "  Счетов:       %d\n", len(invoices))
	fmt.Fprintf(&b, "  Покупателей:  %d\n", len(customers))
	fmt.Fprintf(&b, "  Выручка:      %s\n\n", total.StringFixed(2))

	b.WriteString("Топ-10 стран по выручке\n")
	for i, c := range olap.CountrySummary(records) {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "  %2d. %-25s %12s (%d транзакций, %d покупателей)\n",
			i+1, c.Country, c.Revenue.StringFixed(2), c.Transactions, c.Customers)
	}
	b.WriteString("\n")

	b.WriteString("Топ-10 товаров по выручке\n")
	for i, p := range olap.TopProducts(records, 10) {
		fmt.Fprintf(&b, "  %2d. %-40s %12s (%d шт.)\n",
			i+1, truncate(p.Description, 40), p.Revenue.StringFixed(2), p.Quantity)
	}
	b.WriteString("\n")

	b.WriteString("Топ-10 покупателей по тратам\n")
	for i, c := range olap.TopCustomers(records, 10) {
		fmt.Fprintf(&b, "  %2d. Покупатель %-8d %12s\n", i+1, c.CustomerID, c.Spending.StringFixed(2))
	}

	return g.writeFile("executive_summary.txt", b.String())
}

// WriteOLAPReport пишет отчёт OLAP-операций: свёртка по месяцам и годам,
// срез по Великобритании и сводная таблица страна × год
func (g *ReportGenerator) WriteOLAPReport(records []models.TransactionRecord) (string, error) {
	var b strings.Builder

	writeHeader(&b, "OLAP-АНАЛИЗ ПРОДАЖ")

	b.WriteString("Свёртка: выручка по месяцам\n")
	monthly, err := olap.RollUp(records, olap.Day, olap.Month)
	if err != nil {
		return "", err
	}
	writePeriodTotals(&b, monthly)

	b.WriteString("\nСвёртка: выручка по годам\n")
	yearly, err := olap.RollUp(records, olap.Day, olap.Year)
	if err != nil {
		return "", err
	}
	writePeriodTotals(&b, yearly)

	b.WriteString("\nСрез: продажи в United Kingdom по месяцам\n")
	uk, err := olap.Slice(records, olap.DimCountry, "United Kingdom")
	if err != nil {
		return "", err
	}
	ukMonthly := olap.DrillDown(uk, olap.Month)
	writePeriodTotals(&b, ukMonthly)

	b.WriteString("\nСводная таблица: выручка страна × год\n")
	pivot, err := olap.Pivot(records, olap.DimCountry, olap.DimYear, olap.MeasureTotalAmount)
	if err != nil {
		return "", err
	}
	writePivot(&b, pivot)

	return g.writeFile("olap_report.txt", b.String())
}

// WriteModelReport пишет отчёт по моделям интеллектуального анализа
func (g *ReportGenerator) WriteModelReport(results *AnalysisResults) (string, error) {
	var b strings.Builder

	writeHeader(&b, "ОТЧЁТ ПО МОДЕЛЯМ АНАЛИЗА ДАННЫХ")

	if r := results.Regression; r != nil {
		b.WriteString("Линейная регрессия: Total_Amount ~ Quantity + Price\n")
		fmt.Fprintf(&b, "  Уравнение: y = %.4f + %.4f*Quantity + %.4f*Price\n", r.Intercept, r.QuantityCoef, r.PriceCoef)
		fmt.Fprintf(&b, "  R²  = %.4f\n", r.R2)
		fmt.Fprintf(&b, "  MSE = %.4f, RMSE = %.4f, MAE = %.4f\n", r.MSE, r.RMSE, r.MAE)
		fmt.Fprintf(&b, "  Обучающая/тестовая выборка: %d/%d\n\n", r.TrainSize, r.TestSize)
	}

	if c := results.Classification; c != nil {
		b.WriteString("Решающее дерево: классификация ценных покупателей\n")
		fmt.Fprintf(&b, "  Покупателей: %d, из них ценных: %d\n", c.Customers, c.HighValueCount)
		fmt.Fprintf(&b, "  Глубина дерева: %d, листьев: %d\n", c.TreeDepth, c.TreeLeaves)
		writeClassMetrics(&b, c.ClassMetrics)
		b.WriteString("\n")
	}

	if k := results.Clustering; k != nil {
		b.WriteString("Кластеризация k-средних: сегменты покупателей\n")
		fmt.Fprintf(&b, "  Инерция: %.4f, силуэт: %.4f\n", k.Inertia, k.Silhouette)
		for _, p := range k.Profiles {
			fmt.Fprintf(&b, "  Кластер %d: %d покупателей, средние траты %.2f, средний чек %.2f\n",
				p.Cluster, p.Size, p.MeanTotal, p.MeanAvg)
		}
		b.WriteString("\n")
	}

	if a := results.Association; a != nil {
		fmt.Fprintf(&b, "Ассоциативные правила (Apriori): %d корзин, %d частых наборов\n",
			a.Baskets, len(a.FrequentItemsets))
		limit := len(a.Rules)
		if limit > 10 {
			limit = 10
		}
		for i := 0; i < limit; i++ {
			r := a.Rules[i]
			fmt.Fprintf(&b, "  {%s} → {%s}: поддержка %.3f, достоверность %.3f, lift %.2f\n",
				strings.Join(r.Antecedent, ", "), strings.Join(r.Consequent, ", "),
				r.Support, r.Confidence, r.Lift)
		}
		b.WriteString("\n")
	}

	if adv := results.Advanced; adv != nil {
		b.WriteString("Сравнение классификаторов (задача High_Value)\n")
		for _, m := range adv.Models {
			fmt.Fprintf(&b, "  %-16s accuracy %.4f, precision %.4f, recall %.4f, F1 %.4f\n",
				m.Name, m.Metrics.Accuracy, m.Metrics.Precision, m.Metrics.Recall, m.Metrics.F1)
		}
		fmt.Fprintf(&b, "  Лучшая модель: %s\n\n", adv.Best)
	}

	if o := results.Outliers; o != nil {
		b.WriteString("Поиск выбросов по сумме транзакции\n")
		fmt.Fprintf(&b, "  Среднее %.2f, ст. отклонение %.2f, медиана %.2f\n", o.Mean, o.StdDev, o.Median)
		writeOutlierStats(&b, o.ZScore)
		writeOutlierStats(&b, o.IQR)
	}

	return g.writeFile("model_report.txt", b.String())
}

// writeFile записывает отчёт и логирует путь
func (g *ReportGenerator) writeFile(name, content string) (string, error) {
	path := filepath.Join(g.resultsDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("не удалось записать отчёт %s: %w", name, err)
	}
	g.logger.Info("Отчёт записан: %s", path)
	return path, nil
}

func writeHeader(b *strings.Builder, title string) {
	line := strings.Repeat("=", 70)
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", line, title, line)
}

func writePeriodTotals(b *strings.Builder, totals []olap.PeriodTotal) {
	for _, t := range totals {
		fmt.Fprintf(b, "  %-10s %14s (%d транзакций, %d шт.)\n",
			t.Period, t.TotalAmount.StringFixed(2), t.Transactions, t.Quantity)
	}
}

func writePivot(b *strings.Builder, table *olap.PivotTable) {
	fmt.Fprintf(b, "  %-25s", "")
	for _, col := range table.ColumnKeys {
		fmt.Fprintf(b, " %14s", col)
	}
	fmt.Fprintf(b, " %14s\n", "Итого")

	for _, row := range table.RowKeys {
		fmt.Fprintf(b, "  %-25s", truncate(row, 25))
		for _, col := range table.ColumnKeys {
			fmt.Fprintf(b, " %14s", table.Value(row, col).StringFixed(2))
		}
		fmt.Fprintf(b, " %14s\n", table.RowSum(row).StringFixed(2))
	}
}

func writeClassMetrics(b *strings.Builder, m analysis.ClassMetrics) {
	fmt.Fprintf(b, "  Accuracy %.4f, precision %.4f, recall %.4f, F1 %.4f\n",
		m.Accuracy, m.Precision, m.Recall, m.F1)
	fmt.Fprintf(b, "  Матрица ошибок: [[%d %d] [%d %d]]\n",
		m.Confusion[0][0], m.Confusion[0][1], m.Confusion[1][0], m.Confusion[1][1])
}

func writeOutlierStats(b *strings.Builder, s analysis.OutlierStats) {
	fmt.Fprintf(b, "  Метод %-8s выбросов %d (%.2f%%), границы [%.2f; %.2f]\n",
		s.Method+":", s.Count, s.Share*100, s.LowerBound, s.UpperBound)
	if s.Count > 0 {
		fmt.Fprintf(b, "    суммы выбросов: мин %.2f, макс %.2f, среднее %.2f\n",
			s.MinAmount, s.MaxAmount, s.MeanAmount)
	}
}

// truncate обрезает строку до maxLen символов
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
