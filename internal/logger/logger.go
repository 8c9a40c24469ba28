package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger for development and a JSON logger otherwise.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "development", "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

// Init builds the logger for env and installs it as the zap global.
// The returned function flushes buffered entries.
func Init(env string) (*zap.Logger, func(), error) {
	log, err := New(env)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(log)
	return log, func() {
		_ = log.Sync()
		undo()
	}, nil
}
