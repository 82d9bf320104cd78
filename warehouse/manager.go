package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_retail/dimensions"
	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// LoadManager отвечает за управление процессом загрузки хранилища:
// порядок загрузки (измерения строго раньше фактов), журнал запусков
// и итоговый отчет о загрузке
type LoadManager struct {
	db      *sql.DB
	logger  *utils.PipelineLogger
	loader  Loader
	logRepo models.LoadLogRepository
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *LoadManager {
	return &LoadManager{
		db:      db,
		logger:  logger,
		loader:  NewStarSchemaLoader(db, logger, batchSize),
		logRepo: models.NewMySQLLoadLogRepository(db),
	}
}

// Load выполняет загрузку построенных измерений и фактов в хранилище.
// Возвращает отчет со счетчиками передано/вставлено/пропущено по каждой таблице
func (m *LoadManager) Load(set *dimensions.DimensionSet) (*models.LoadReport, error) {
	report := &models.LoadReport{StartTime: time.Now()}
	m.logger.LogStageStart("загрузка хранилища")

	// Готовим схему и журнал запусков
	if err := EnsureSchema(m.db, m.logger); err != nil {
		return report, m.fail(report, "", err)
	}

	repo, ok := m.logRepo.(*models.MySQLLoadLogRepository)
	if ok {
		if err := repo.CreateLoadLogTable(); err != nil {
			return report, m.fail(report, "", err)
		}
	}

	runID, err := m.logRepo.CreateLogEntry(report.StartTime)
	if err != nil {
		return report, m.fail(report, "", err)
	}
	m.logger.Info("Запуск загрузки %s", runID)

	// 1. Измерение времени
	report.Times, err = m.loader.LoadTimeDimension(set.Times)
	if err != nil {
		return report, m.fail(report, runID, err)
	}

	// 2. Измерение покупателей
	report.Customers, err = m.loader.LoadCustomerDimension(set.Customers)
	if err != nil {
		return report, m.fail(report, runID, err)
	}

	// 3. Измерение товаров
	report.Products, err = m.loader.LoadProductDimension(set.Products)
	if err != nil {
		return report, m.fail(report, runID, err)
	}

	// 4. Факты продаж — только после всех измерений,
	// так как строки фактов ссылаются на их ключи
	timeIDs, err := m.loader.TimeIDs()
	if err != nil {
		return report, m.fail(report, runID, err)
	}

	report.Facts, err = m.loader.LoadSalesFacts(set.Facts, timeIDs)
	if err != nil {
		return report, m.fail(report, runID, err)
	}

	report.EndTime = time.Now()

	if err := m.logRepo.UpdateLogEntrySuccess(runID, report.EndTime, *report); err != nil {
		m.logger.Error("Ошибка при обновлении журнала загрузок: %v", err)
	}

	m.logger.Info("Загрузка завершена. Time_Dim: %d/%d, Customer_Dim: %d/%d, Product_Dim: %d/%d, Sales_Fact: %d/%d (пропущено %d)",
		report.Times.Inserted, report.Times.Attempted,
		report.Customers.Inserted, report.Customers.Attempted,
		report.Products.Inserted, report.Products.Attempted,
		report.Facts.Inserted, report.Facts.Attempted, report.Facts.Skipped)
	m.logger.LogStageComplete("загрузка хранилища", report.StartTime)

	return report, nil
}

// fail фиксирует неудачное завершение загрузки в журнале и оборачивает
// ошибку с количеством строк, зафиксированных до сбоя
func (m *LoadManager) fail(report *models.LoadReport, runID string, err error) error {
	report.EndTime = time.Now()
	committed := report.TotalInserted()

	m.logger.Error("Ошибка в фазе загрузки: %v (зафиксировано строк до сбоя: %d)", err, committed)

	if runID != "" {
		if logErr := m.logRepo.UpdateLogEntryFailure(runID, report.EndTime, err.Error()); logErr != nil {
			m.logger.Error("Ошибка при обновлении журнала загрузок: %v", logErr)
		}
	}

	return &models.StageError{
		Stage:     "загрузка хранилища",
		Processed: committed,
		Err:       fmt.Errorf("ошибка загрузки хранилища: %w", err),
	}
}
