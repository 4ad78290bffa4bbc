package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reddit/settings"
)

var logger = zap.NewNop().Sugar()

// Init replaces the no-op logger installed at package load.
func Init(cfg settings.LoggerConfig, develop bool) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrapf(err, "logger: parse level %q", cfg.Level)
	}

	options := make([]zap.Option, 0, 2)
	encoderConfig := zap.NewProductionEncoderConfig()
	if develop {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		options = append(options, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	core := zapcore.NewCore(getEncoder(encoderConfig), getWriter(cfg), level)
	logger = zap.New(core, options...).Sugar()

	Infof("Initializing logger successfully")
	return nil
}

// Replace swaps in l and returns a func restoring the previous logger.
func Replace(l *zap.Logger) func() {
	prev := logger
	logger = l.Sugar()
	return func() { logger = prev }
}

func Sync() {
	_ = logger.Sync()
}

func Debugf(template string, args ...any) {
	logger.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	logger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	logger.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	logger.Errorf(template, args...)
}

func ErrorWithStack(err error) {
	logger.Errorf("%T:\nstack trace:\n%+v", errors.Cause(err), err)
}

func getEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(config)
}

func getWriter(cfg settings.LoggerConfig) zapcore.WriteSyncer {
	out := make([]zapcore.WriteSyncer, 0, 2)
	if cfg.Path != "" {
		out = append(out, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}))
	}
	if cfg.Console || len(out) == 0 {
		out = append(out, os.Stdout)
	}
	return zapcore.NewMultiWriteSyncer(out...)
}
