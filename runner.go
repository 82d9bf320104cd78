package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/LilVoxy/coursework_retail/analysis"
	"github.com/LilVoxy/coursework_retail/cleaner"
	"github.com/LilVoxy/coursework_retail/config"
	"github.com/LilVoxy/coursework_retail/dimensions"
	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/olap"
	"github.com/LilVoxy/coursework_retail/reports"
	"github.com/LilVoxy/coursework_retail/utils"
	"github.com/LilVoxy/coursework_retail/warehouse"
)

// PipelineRunner координирует этапы конвейера: очистку данных,
// построение измерений, загрузку хранилища и аналитику
type PipelineRunner struct {
	config  config.PipelineConfig
	logger  *utils.PipelineLogger
	cleaner *cleaner.Cleaner
	builder *dimensions.Builder
}

// NewPipelineRunner создает новый экземпляр PipelineRunner
func NewPipelineRunner() (*PipelineRunner, error) {
	// Получаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Инициализируем логгер
	logger := utils.NewPipelineLogger(cfg.EnableDetailedLogging)
	logger.Info("Инициализация Pipeline Runner")

	return &PipelineRunner{
		config:  cfg,
		logger:  logger,
		cleaner: cleaner.NewCleaner(cfg.RawDataPath, cfg.CleanedDataPath, cfg.SnapshotPath, logger),
		builder: dimensions.NewBuilder(logger),
	}, nil
}

// loadRecords возвращает очищенные транзакции. Если исходного файла нет,
// но сохранен снимок предыдущей очистки, данные читаются из снимка
func (r *PipelineRunner) loadRecords() ([]models.TransactionRecord, *models.CleaningSummary, error) {
	if _, err := os.Stat(r.config.RawDataPath); os.IsNotExist(err) {
		r.logger.Info("Исходный файл %s не найден, читаем снимок %s", r.config.RawDataPath, r.config.SnapshotPath)
		records, err := r.cleaner.LoadSnapshot()
		if err != nil {
			return nil, nil, err
		}
		return records, nil, nil
	}

	return r.cleaner.Process()
}

// RunAnalysis выполняет аналитическую ветку конвейера: очистка,
// OLAP-отчёт, модели анализа данных, текстовые отчёты и графики
func (r *PipelineRunner) RunAnalysis() error {
	r.logger.LogStageStart("аналитика")
	startTime := time.Now()

	if err := r.config.ValidateForAnalysis(); err != nil {
		return err
	}

	records, summary, err := r.loadRecords()
	if err != nil {
		return fmt.Errorf("ошибка очистки данных: %w", err)
	}

	results := &reports.AnalysisResults{Cleaning: summary}

	// Модели некритичны по отдельности: ошибка одной модели
	// логируется, остальные продолжают работу
	if res, err := analysis.RunRegression(records, analysis.DefaultRegressionConfig()); err != nil {
		r.logger.Error("Ошибка линейной регрессии: %v", err)
	} else {
		results.Regression = res
		r.logger.Info("Регрессия: R² = %.4f", res.R2)
	}

	if res, err := analysis.RunClassification(records, analysis.DefaultClassificationConfig(r.config.HighValueThreshold)); err != nil {
		r.logger.Error("Ошибка классификации: %v", err)
	} else {
		results.Classification = res
		r.logger.Info("Решающее дерево: accuracy = %.4f", res.Accuracy)
	}

	if res, err := analysis.RunClustering(records, r.clusteringConfig()); err != nil {
		r.logger.Error("Ошибка кластеризации: %v", err)
	} else {
		results.Clustering = res
		r.logger.Info("Кластеризация: силуэт = %.4f", res.Silhouette)
	}

	if res, err := analysis.RunAssociation(records, r.associationConfig()); err != nil {
		r.logger.Error("Ошибка поиска ассоциативных правил: %v", err)
	} else {
		results.Association = res
		r.logger.Info("Apriori: %d частых наборов, %d правил", len(res.FrequentItemsets), len(res.Rules))
	}

	if res, err := analysis.RunAdvancedClassification(records, r.advancedConfig()); err != nil {
		r.logger.Error("Ошибка сравнения классификаторов: %v", err)
	} else {
		results.Advanced = res
		r.logger.Info("Лучший классификатор: %s", res.Best)
	}

	if res, err := analysis.RunOutlierAnalysis(records, analysis.DefaultOutlierConfig()); err != nil {
		r.logger.Error("Ошибка поиска выбросов: %v", err)
	} else {
		results.Outliers = res
		r.logger.Info("Выбросы: z-score %d, IQR %d", res.ZScore.Count, res.IQR.Count)
	}

	reporter := reports.NewReportGenerator(r.config.ResultsDir, r.logger)
	if _, err := reporter.WriteAll(records, results); err != nil {
		return fmt.Errorf("ошибка формирования отчётов: %w", err)
	}

	charts := reports.NewChartGenerator(r.config.ResultsDir, r.logger)
	if _, err := charts.WriteAll(records); err != nil {
		// Графики некритичны для результата конвейера
		r.logger.Error("Ошибка построения графиков: %v", err)
	}

	r.logger.LogStageComplete("аналитика", startTime)
	return nil
}

// RunLoad выполняет ветку загрузки: очистка, построение измерений,
// загрузка звёздной схемы в MySQL
func (r *PipelineRunner) RunLoad() error {
	r.logger.LogStageStart("загрузка хранилища")
	startTime := time.Now()

	if err := r.config.ValidateForLoad(); err != nil {
		return err
	}

	records, _, err := r.loadRecords()
	if err != nil {
		return fmt.Errorf("ошибка очистки данных: %w", err)
	}

	set, err := r.builder.Build(records)
	if err != nil {
		return fmt.Errorf("ошибка построения измерений: %w", err)
	}

	db, err := config.ConnectDatabase(r.config.Database)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	manager := warehouse.NewLoadManager(db, r.logger, r.config.BatchSize)
	report, err := manager.Load(set)
	if err != nil {
		return err
	}

	r.logger.Info("Загрузка завершена: вставлено %d строк, пропущено дубликатов %d",
		report.TotalInserted(), report.TotalSkipped())
	r.logger.LogStageComplete("загрузка хранилища", startTime)
	return nil
}

// RunAll выполняет загрузку хранилища и затем аналитику
func (r *PipelineRunner) RunAll() error {
	if err := r.RunLoad(); err != nil {
		return err
	}
	return r.RunAnalysis()
}

// StartScheduler запускает планировщик для регулярного выполнения конвейера
func (r *PipelineRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика конвейера с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск конвейера")
		if err := r.RunAll(); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного конвейера: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик конвейера остановлен")
}

func (r *PipelineRunner) clusteringConfig() analysis.ClusteringConfig {
	cfg := analysis.DefaultClusteringConfig(r.config.Clusters)
	cfg.Seed = r.config.RandomSeed
	return cfg
}

func (r *PipelineRunner) associationConfig() analysis.AssociationConfig {
	cfg := analysis.DefaultAssociationConfig()
	cfg.MinSupport = r.config.MinSupport
	cfg.MinLift = r.config.MinLift
	return cfg
}

func (r *PipelineRunner) advancedConfig() analysis.AdvancedConfig {
	cfg := analysis.DefaultAdvancedConfig(r.config.HighValueThreshold)
	cfg.Seed = r.config.RandomSeed
	return cfg
}

// OLAPDemo выполняет набор OLAP-операций над очищенными данными и
// возвращает сводку по странам. Используется в режиме olap для
// быстрой проверки данных без построения отчётов
func (r *PipelineRunner) OLAPDemo() error {
	records, _, err := r.loadRecords()
	if err != nil {
		return err
	}

	yearly, err := olap.RollUp(records, olap.Day, olap.Year)
	if err != nil {
		return err
	}
	for _, t := range yearly {
		r.logger.Info("Год %s: выручка %s, транзакций %d", t.Period, t.TotalAmount.StringFixed(2), t.Transactions)
	}

	for i, c := range olap.CountrySummary(records) {
		if i >= 5 {
			break
		}
		r.logger.Info("Страна %s: выручка %s", c.Country, c.Revenue.StringFixed(2))
	}
	return nil
}
