package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.Mutex
	base        *zap.Logger
	serviceName = "screener"
)

func SetServiceName(newName string) string {
	mu.Lock()
	defer mu.Unlock()
	oldName := serviceName
	serviceName = newName
	return oldName
}

// Init настраивает глобальный zap-логгер с нужным уровнем
// ("debug", "info", "warn", "error"). Без вызова Init первый лог
// поднимет production-логгер с уровнем info.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	base = l
	return nil
}

func get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		base, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	return base.With(zap.String("service", serviceName))
}

func Debug(format string, args ...interface{}) {
	get().Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	get().Info(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	get().Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	get().Fatal(fmt.Sprintf(format, args...))
}
