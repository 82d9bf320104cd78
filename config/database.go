package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/LilVoxy/coursework_retail/models"
)

// ConnectDatabase устанавливает подключение к хранилищу данных.
// Недоступность хранилища на старте загрузки — фатальная ошибка ConnectionError,
// политика повторов (если нужна) принадлежит вызывающей стороне
func ConnectDatabase(config DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.User,
		config.Password,
		config.Host,
		config.Port,
		config.DBName,
	)

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, &models.ConnectionError{Host: config.Host, Err: err}
	}

	// Настройка параметров пула подключений
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &models.ConnectionError{Host: config.Host, Err: err}
	}

	return db, nil
}

// CloseDatabase закрывает подключение к хранилищу данных
func CloseDatabase(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии соединения с хранилищем: %v", err)
	}
}
