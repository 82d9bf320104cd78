package warehouse

import (
	"database/sql"

	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

// Loader интерфейс для загрузки данных в хранилище
type Loader interface {
	// LoadTimeDimension загружает измерение времени
	LoadTimeDimension(times []models.TimeDimension) (models.LoadStats, error)

	// LoadCustomerDimension загружает измерение покупателей
	LoadCustomerDimension(customers []models.CustomerDimension) (models.LoadStats, error)

	// LoadProductDimension загружает измерение товаров
	LoadProductDimension(products []models.ProductDimension) (models.LoadStats, error)

	// LoadSalesFacts загружает факты продаж, подставляя ключи времени
	LoadSalesFacts(facts []models.SalesFact, timeIDs map[string]int) (models.LoadStats, error)

	// TimeIDs возвращает соответствие календарного дня ключу Time_ID
	TimeIDs() (map[string]int, error)
}

// StarSchemaLoader реализация Loader для звездной схемы в MySQL
type StarSchemaLoader struct {
	db     *sql.DB
	logger *utils.PipelineLogger

	// Загрузчики для отдельных таблиц
	timeLoader     *TimeLoader
	customerLoader *CustomerLoader
	productLoader  *ProductLoader
	salesLoader    *SalesLoader
}

// NewStarSchemaLoader создает новый экземпляр StarSchemaLoader
func NewStarSchemaLoader(db *sql.DB, logger *utils.PipelineLogger, batchSize int) *StarSchemaLoader {
	return &StarSchemaLoader{
		db:             db,
		logger:         logger,
		timeLoader:     NewTimeLoader(db, logger, batchSize),
		customerLoader: NewCustomerLoader(db, logger, batchSize),
		productLoader:  NewProductLoader(db, logger, batchSize),
		salesLoader:    NewSalesLoader(db, logger, batchSize),
	}
}

// LoadTimeDimension загружает измерение времени
func (l *StarSchemaLoader) LoadTimeDimension(times []models.TimeDimension) (models.LoadStats, error) {
	return l.timeLoader.Load(times)
}

// LoadCustomerDimension загружает измерение покупателей
func (l *StarSchemaLoader) LoadCustomerDimension(customers []models.CustomerDimension) (models.LoadStats, error) {
	return l.customerLoader.Load(customers)
}

// LoadProductDimension загружает измерение товаров
func (l *StarSchemaLoader) LoadProductDimension(products []models.ProductDimension) (models.LoadStats, error) {
	return l.productLoader.Load(products)
}

// LoadSalesFacts загружает факты продаж
func (l *StarSchemaLoader) LoadSalesFacts(facts []models.SalesFact, timeIDs map[string]int) (models.LoadStats, error) {
	return l.salesLoader.Load(facts, timeIDs)
}

// TimeIDs возвращает соответствие календарного дня ключу Time_ID
func (l *StarSchemaLoader) TimeIDs() (map[string]int, error) {
	return l.timeLoader.TimeIDs()
}
