package warehouse

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_retail/dimensions"
	"github.com/LilVoxy/coursework_retail/models"
	"github.com/LilVoxy/coursework_retail/utils"
)

var duplicateEntry = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

func TestCustomerLoaderSkipsDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO Customer_Dim"))
	prep.ExpectExec().WithArgs(12583, "France").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(17850, "United Kingdom").WillReturnError(duplicateEntry)
	mock.ExpectCommit()

	loader := NewCustomerLoader(db, utils.NewPipelineLogger(false), 100)
	stats, err := loader.Load([]models.CustomerDimension{
		{CustomerID: 12583, Country: "France"},
		{CustomerID: 17850, Country: "United Kingdom"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Attempted)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeLoaderSplitsBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Две записи при размере порции 1: две отдельные транзакции
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO Time_Dim"))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	loader := NewTimeLoader(db, utils.NewPipelineLogger(false), 1)
	stats, err := loader.Load([]models.TimeDimension{
		{InvoiceDate: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC), Year: 2010, Month: 12, Day: 1},
		{InvoiceDate: time.Date(2010, 12, 2, 0, 0, 0, 0, time.UTC), Year: 2010, Month: 12, Day: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Attempted)
	assert.Equal(t, 2, stats.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchInsertFatalErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO Customer_Dim"))
	prep.ExpectExec().WillReturnError(errors.New("соединение разорвано"))
	mock.ExpectRollback()

	loader := NewCustomerLoader(db, utils.NewPipelineLogger(false), 100)
	stats, err := loader.Load([]models.CustomerDimension{
		{CustomerID: 12583, Country: "France"},
	})
	require.Error(t, err)

	// Незафиксированная порция не попадает в счетчики вставленных строк
	assert.Equal(t, 1, stats.Attempted)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"Time_ID", "InvoiceDate"}).
		AddRow(1, time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(2, time.Date(2010, 12, 2, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT Time_ID, InvoiceDate FROM Time_Dim")).WillReturnRows(rows)

	loader := NewTimeLoader(db, utils.NewPipelineLogger(false), 100)
	ids, err := loader.TimeIDs()
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"2010-12-01": 1, "2010-12-02": 2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesLoaderMissingTimeKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	loader := NewSalesLoader(db, utils.NewPipelineLogger(false), 100)
	_, err = loader.Load([]models.SalesFact{
		{
			Invoice:     "536365",
			CustomerID:  17850,
			StockCode:   "85123A",
			InvoiceDate: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC),
			Quantity:    6,
			TotalAmount: decimal.RequireFromString("15.30"),
		},
	}, map[string]int{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найден ключ измерения времени")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadManagerSchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS Time_Dim")).
		WillReturnError(errors.New("access denied"))

	manager := NewLoadManager(db, utils.NewPipelineLogger(false), 100)
	_, err = manager.Load(&dimensions.DimensionSet{})
	require.Error(t, err)

	var stageErr *models.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 0, stageErr.Processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
