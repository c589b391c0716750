package logger

import (
	"fmt"
	"os"

	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger from the logging section of the config.
// An unknown level falls back to info.
func New(config domain.LoggingConfig) (*zap.Logger, error) {
	sink, err := openSink(config.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %q: %w", config.OutputPath, err)
	}

	core := zapcore.NewCore(newEncoder(config.Format), sink, parseLevel(config.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewDefault creates a console logger on stderr, leaving stdout to command output
func NewDefault() *zap.Logger {
	log, _ := New(domain.LoggingConfig{Level: "info", Format: "console", OutputPath: "stderr"})
	return log
}

// ForTerminal moves a stdout logger to stderr, since stdout carries the preview
func ForTerminal(config domain.LoggingConfig) domain.LoggingConfig {
	if config.OutputPath == "" || config.OutputPath == "stdout" {
		config.OutputPath = "stderr"
	}
	return config
}

func parseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zapcore.NewConsoleEncoder(cfg)
}

func openSink(path string) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout", "":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}
