package mlog

import (
	"os"

	"go.uber.org/zap/zapcore"
)

var globalLogger *Logger

func InitGlobalLogger(logger *Logger) {
	glob := *logger
	glob.zap = glob.zap.WithOptions()
	globalLogger = &glob
}

func defaultLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewLogger(&LoggerConfiguration{
			EnableConsole: true,
			ConsoleLevel:  LevelDebug,
		})
	}

	return globalLogger
}

func Debug(message string, fields ...Field) {
	defaultLogger().Debug(message, fields...)
}

func Info(message string, fields ...Field) {
	defaultLogger().Info(message, fields...)
}

func Warn(message string, fields ...Field) {
	defaultLogger().Warn(message, fields...)
}

func Error(message string, fields ...Field) {
	defaultLogger().Error(message, fields...)
}

func Critical(message string, fields ...Field) {
	defaultLogger().Critical(message, fields...)
}

func stdout() *os.File {
	return os.Stdout
}

func fileWriter(location string) zapcore.WriteSyncer {
	f, err := os.OpenFile(location, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zapcore.AddSync(os.Stderr)
	}

	return zapcore.AddSync(f)
}
