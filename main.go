// main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
)

// RunOnce запускает конвейер один раз в заданном режиме
func RunOnce(mode string) {
	runner, err := NewPipelineRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании Pipeline Runner: %v", err)
	}

	switch mode {
	case "analyze":
		err = runner.RunAnalysis()
	case "load":
		err = runner.RunLoad()
	case "olap":
		err = runner.OLAPDemo()
	default:
		err = runner.RunAll()
	}

	if err != nil {
		log.Fatalf("Ошибка при выполнении конвейера: %v", err)
	}
}

// RunScheduled запускает конвейер по расписанию
func RunScheduled() {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки сигналов
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем Pipeline Runner...")
		cancel()
	}()

	runner, err := NewPipelineRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании Pipeline Runner: %v", err)
	}

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "all", "Режим работы: analyze, load, all, olap или scheduled")

	flag.Parse()

	log.Println("Запуск Pipeline Runner в режиме:", *modePtr)

	switch *modePtr {
	case "analyze", "load", "all", "olap":
		RunOnce(*modePtr)
	case "scheduled":
		RunScheduled()
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: analyze, load, all, olap, scheduled")
		os.Exit(1)
	}

	log.Println("Pipeline Runner завершил работу")
}
