package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// PipelineLogger представляет логгер для конвейера анализа данных
type PipelineLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
}

// NewPipelineLogger создает новый экземпляр логгера для конвейера
func NewPipelineLogger(verbose bool) *PipelineLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("retail_pipeline_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &PipelineLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// Info логирует информационное сообщение
func (l *PipelineLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("INFO:", msg)
}

// Error логирует сообщение об ошибке
func (l *PipelineLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("ERROR:", msg)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *PipelineLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("DEBUG:", msg)
}

// LogStageStart логирует начало этапа конвейера
func (l *PipelineLogger) LogStageStart(stage string) {
	l.Info("Начало этапа %q", stage)
}

// LogStageComplete логирует завершение этапа конвейера
func (l *PipelineLogger) LogStageComplete(stage string, startTime time.Time) {
	l.Info("Этап %q завершен. Длительность: %v", stage, time.Since(startTime))
}

// LogCleaningSummary логирует итоги очистки данных
func (l *PipelineLogger) LogCleaningSummary(total, removed, kept int) {
	l.Info("Очистка завершена: всего строк %d, удалено %d, осталось %d", total, removed, kept)
}
