package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log *zap.Logger
)

func init() {
	// 默认初始化一个 Nop Logger，防止未 Init 就调用导致 panic (测试中保持静默)
	Log = zap.NewNop()
}

// Init initializes the global logger
func Init(env string) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var err error
	Log, err = config.Build(zap.AddCallerSkip(1)) // Skip 1 caller so logs show where logger.Info was called, not wrapper
	if err != nil {
		panic(err)
	}

	zap.ReplaceGlobals(Log)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Log.Sync()
}

// Helper functions for direct usage
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// With 返回带固定字段的子 Logger
func With(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}

// AsynqLogger 适配 asynq.Logger 接口
type AsynqLogger struct{}

func NewAsynqLogger() *AsynqLogger {
	return &AsynqLogger{}
}

func (l *AsynqLogger) Debug(args ...interface{}) {
	Log.Debug(fmt.Sprint(args...), zap.String("component", "asynq"))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	Log.Info(fmt.Sprint(args...), zap.String("component", "asynq"))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	Log.Warn(fmt.Sprint(args...), zap.String("component", "asynq"))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	Log.Error(fmt.Sprint(args...), zap.String("component", "asynq"))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	Log.Fatal(fmt.Sprint(args...), zap.String("component", "asynq"))
}
