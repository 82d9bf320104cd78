package models

import (
	"fmt"
)

// DataError представляет фатальную ошибку входных данных
// (отсутствует обязательная колонка или схема файла не читается)
type DataError struct {
	Column string // имя проблемной колонки, если применимо
	Reason string
}

func (e *DataError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("ошибка данных: %s (колонка %q)", e.Reason, e.Column)
	}
	return fmt.Sprintf("ошибка данных: %s", e.Reason)
}

// ConnectionError представляет ошибку подключения к хранилищу в начале загрузки
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("не удалось установить соединение с хранилищем %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ConfigError представляет ошибку конфигурации с указанием проблемного поля
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ошибка конфигурации: поле %q — %s", e.Field, e.Reason)
}

// StageError оборачивает фатальную ошибку этапа конвейера с количеством
// записей, обработанных до момента сбоя
type StageError struct {
	Stage     string
	Processed int
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("этап %q прерван после обработки %d записей: %v", e.Stage, e.Processed, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
