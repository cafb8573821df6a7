package logger

import (
	"os"

	"go.uber.org/zap"
)

var Log *zap.Logger = getLogger()

func getLogger() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("ENV") == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		panic("Unable to build zap logger: " + err.Error())
	}
	return log
}

func Get() *zap.Logger {
	return Log
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal is a swappable variable so tests can intercept
// process-terminating paths. See testutil.MockLogger.
var Fatal = func(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
