package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/LilVoxy/coursework_retail/models"
)

// PipelineConfig содержит конфигурацию конвейера розничной аналитики
type PipelineConfig struct {
	// Конфигурация подключения к хранилищу данных
	Database DatabaseConfig `json:"database" envconfig:"DB"`

	// Пути к файлам данных
	RawDataPath     string `json:"raw_data_path" envconfig:"RAW_DATA_PATH" default:"data/online_retail.csv"`
	CleanedDataPath string `json:"cleaned_data_path" envconfig:"CLEANED_DATA_PATH" default:"data/cleaned_retail.csv"`
	SnapshotPath    string `json:"snapshot_path" envconfig:"SNAPSHOT_PATH" default:"data/cleaned_retail.snappy"`
	ResultsDir      string `json:"results_dir" envconfig:"RESULTS_DIR" default:"results"`

	// Размер порции строк при вставке в хранилище
	BatchSize int `json:"batch_size" envconfig:"BATCH_SIZE" default:"1000"`

	// Интервал запуска загрузки в режиме планировщика
	RunInterval time.Duration `json:"run_interval" envconfig:"RUN_INTERVAL" default:"24h"`

	// Параметры анализа
	HighValueThreshold float64 `json:"high_value_threshold" envconfig:"HIGH_VALUE_THRESHOLD" default:"5000"`
	Clusters           int     `json:"clusters" envconfig:"CLUSTERS" default:"3"`
	MinSupport         float64 `json:"min_support" envconfig:"MIN_SUPPORT" default:"0.02"`
	MinLift            float64 `json:"min_lift" envconfig:"MIN_LIFT" default:"1.0"`

	// Зерно генератора случайных чисел для воспроизводимости
	RandomSeed int64 `json:"random_seed" envconfig:"RANDOM_SEED" default:"42"`

	// Включение/отключение детального логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging" envconfig:"VERBOSE" default:"true"`
}

// DatabaseConfig содержит настройки подключения к базе данных.
// Учетные данные никогда не хранятся в коде — только в окружении или .env
type DatabaseConfig struct {
	Driver   string `json:"driver" default:"mysql"`
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"3306"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname" envconfig:"NAME" default:"RetailDW"`
}

// Load собирает конфигурацию: значения по умолчанию, затем .env,
// затем переменные окружения с префиксом RETAIL
func Load() (PipelineConfig, error) {
	var config PipelineConfig

	// .env может отсутствовать — это не ошибка
	_ = godotenv.Load()

	if err := envconfig.Process("retail", &config); err != nil {
		return config, &models.ConfigError{Field: "environment", Reason: err.Error()}
	}

	return config, nil
}

// ValidateForLoad проверяет поля, обязательные для загрузки хранилища
func (c PipelineConfig) ValidateForLoad() error {
	if c.Database.User == "" {
		return &models.ConfigError{Field: "database.user", Reason: "не задан пользователь базы данных (RETAIL_DB_USER)"}
	}
	if c.Database.Password == "" {
		return &models.ConfigError{Field: "database.password", Reason: "не задан пароль базы данных (RETAIL_DB_PASSWORD)"}
	}
	if c.Database.DBName == "" {
		return &models.ConfigError{Field: "database.dbname", Reason: "не задано имя базы данных (RETAIL_DB_NAME)"}
	}
	if c.BatchSize <= 0 {
		return &models.ConfigError{Field: "batch_size", Reason: "размер порции должен быть положительным"}
	}
	return nil
}

// ValidateForAnalysis проверяет поля, обязательные для анализа данных
func (c PipelineConfig) ValidateForAnalysis() error {
	if c.RawDataPath == "" && c.CleanedDataPath == "" {
		return &models.ConfigError{Field: "raw_data_path", Reason: "не задан путь к исходным данным"}
	}
	if c.CleanedDataPath == "" {
		return &models.ConfigError{Field: "cleaned_data_path", Reason: "не задан путь для очищенных данных"}
	}
	if c.ResultsDir == "" {
		return &models.ConfigError{Field: "results_dir", Reason: "не задан каталог результатов"}
	}
	if c.Clusters < 2 {
		return &models.ConfigError{Field: "clusters", Reason: "количество кластеров должно быть не меньше 2"}
	}
	if c.MinSupport <= 0 || c.MinSupport > 1 {
		return &models.ConfigError{Field: "min_support", Reason: "минимальная поддержка должна лежать в (0, 1]"}
	}
	return nil
}
