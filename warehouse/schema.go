package warehouse

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/coursework_retail/utils"
)

// Определения таблиц звездной схемы хранилища.
// Естественный ключ факта защищен уникальным индексом: повторная загрузка
// тех же данных не создает дубликатов
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS Time_Dim (
		Time_ID INT AUTO_INCREMENT PRIMARY KEY,
		InvoiceDate DATE NOT NULL,
		Year INT NOT NULL,
		Month INT NOT NULL,
		Day INT NOT NULL,
		UNIQUE KEY uk_time_date (InvoiceDate)
	)`,
	`CREATE TABLE IF NOT EXISTS Customer_Dim (
		Customer_ID INT PRIMARY KEY,
		Country VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Product_Dim (
		StockCode VARCHAR(32) PRIMARY KEY,
		Description VARCHAR(255),
		Price DECIMAL(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Sales_Fact (
		Sales_ID BIGINT AUTO_INCREMENT PRIMARY KEY,
		Invoice VARCHAR(32) NOT NULL,
		Customer_ID INT NOT NULL,
		StockCode VARCHAR(32) NOT NULL,
		Time_ID INT NOT NULL,
		Quantity INT NOT NULL,
		Total_Amount DECIMAL(12,2) NOT NULL,
		UNIQUE KEY uk_sales_natural (Invoice, StockCode, Time_ID),
		CONSTRAINT fk_sales_customer FOREIGN KEY (Customer_ID) REFERENCES Customer_Dim (Customer_ID),
		CONSTRAINT fk_sales_product FOREIGN KEY (StockCode) REFERENCES Product_Dim (StockCode),
		CONSTRAINT fk_sales_time FOREIGN KEY (Time_ID) REFERENCES Time_Dim (Time_ID)
	)`,
}

// EnsureSchema создает таблицы звездной схемы, если они еще не существуют
func EnsureSchema(db *sql.DB, logger *utils.PipelineLogger) error {
	logger.Debug("Проверка схемы хранилища...")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка при создании таблиц хранилища: %w", err)
		}
	}

	logger.Info("Схема хранилища готова")
	return nil
}
