package logger

import (
	"log"
	"os"

	"mpesa-gateway/internal/common/enum"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	Debug   *log.Logger
	HTTP    *log.Logger

	base = zap.NewNop()
)

func init() {
	bind(base)
}

// Setup replaces the no-op loggers with a zap backed set. Development and
// local environments get the console encoder, anything else writes JSON.
func Setup() {
	var (
		l   *zap.Logger
		err error
	)

	if enum.EnvEnum(os.Getenv("APP_ENV")).IsDevelopment() {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Printf("logger: falling back to stderr: %v", err)
		return
	}

	base = l
	bind(base)
}

// Named returns the underlying zap logger for packages that log with fields.
func Named(name string) *zap.Logger {
	return base.Named(name)
}

// Sync flushes buffered entries.
func Sync() {
	_ = base.Sync()
}

func bind(l *zap.Logger) {
	Info = stdAt(l.Named("info"), zapcore.InfoLevel)
	Warning = stdAt(l.Named("warning"), zapcore.WarnLevel)
	Error = stdAt(l.Named("error"), zapcore.ErrorLevel)
	Debug = stdAt(l.Named("debug"), zapcore.DebugLevel)
	HTTP = stdAt(l.Named("http"), zapcore.InfoLevel)
}

func stdAt(l *zap.Logger, level zapcore.Level) *log.Logger {
	std, err := zap.NewStdLogAt(l, level)
	if err != nil {
		return log.New(os.Stderr, "["+level.CapitalString()+"] ", log.LstdFlags)
	}
	return std
}
