package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"scrum-analytics-service/internal/app"
	"scrum-analytics-service/internal/config"
	"scrum-analytics-service/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.MustLoad()
	cleanup := setupLogger(cfg)
	defer cleanup()

	slog.Info("starting scrum analytics service",
		"timezone", cfg.Analytics.Location().String(),
		"scheduler", cfg.Analytics.SchedulerOn(),
	)

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to init app", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
}

// setupLogger настраивает структурированное логирование на основе конфигурации.
// Возвращает функцию закрытия файла, если логи пишутся в файл.
func setupLogger(cfg config.Config) func() {
	writer, closer := logWriter(cfg.Logging.Output)

	handler := slog.Handler(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))
	handler = logging.NewLoggerImpl(handler)
	slog.SetDefault(slog.New(handler))

	return func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
}

// logWriter выбирает приёмник логов: stdout, stderr или файл.
func logWriter(output string) (io.Writer, io.Closer) {
	switch strings.ToLower(output) {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	return f, f
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
