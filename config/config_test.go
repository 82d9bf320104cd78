package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/online_retail.csv", cfg.RawDataPath)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, 24*time.Hour, cfg.RunInterval)
	assert.Equal(t, 3, cfg.Clusters)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RETAIL_BATCH_SIZE", "250")
	t.Setenv("RETAIL_DB_USER", "analyst")
	t.Setenv("RETAIL_CLUSTERS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, "analyst", cfg.Database.User)
	assert.Equal(t, 5, cfg.Clusters)
}

func TestValidateForLoadNamesMissingField(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Database.User = ""

	err = cfg.ValidateForLoad()
	require.Error(t, err)

	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "database.user", cfgErr.Field)
}

func TestValidateForLoadBatchSize(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Database.User = "analyst"
	cfg.Database.Password = "secret"
	cfg.BatchSize = 0

	err = cfg.ValidateForLoad()
	require.Error(t, err)

	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "batch_size", cfgErr.Field)
}

func TestValidateForAnalysis(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateForAnalysis())

	cfg.Clusters = 1
	err = cfg.ValidateForAnalysis()
	require.Error(t, err)

	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "clusters", cfgErr.Field)
}
