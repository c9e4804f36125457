package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	log *zap.Logger
	// Once guard to ensure the logger is only initialized once
	once sync.Once
)

// contextKey is a private type for request-scoped logger in context
type contextKey int

// loggerKey is the key for retrieving the logger from the context
const loggerKey contextKey = iota

// Init initializes the logger: development configuration (console
// encoding) when APP_ENV is empty or "development", production
// configuration (JSON encoding) otherwise
func Init() {
	once.Do(func() {
		// Determine if we're in development or production
		env := os.Getenv("APP_ENV")
		isDevelopment := env == "" || env == "development"

		// Configure logging level
		logLevel := zap.InfoLevel
		if os.Getenv("LOG_LEVEL") == "debug" {
			logLevel = zap.DebugLevel
		}

		// Create encoder config based on environment
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		// Configure the logger
		config := zap.Config{
			Level:             zap.NewAtomicLevelAt(logLevel),
			Development:       isDevelopment,
			Encoding:          "json", // Use JSON in production
			EncoderConfig:     encoderConfig,
			OutputPaths:       []string{"stdout"},
			ErrorOutputPaths:  []string{"stderr"},
			DisableCaller:     !isDevelopment,
			DisableStacktrace: !isDevelopment,
		}

		// If in development mode, use a more readable console encoder
		if isDevelopment {
			config.Encoding = "console"
		}

		// Create the logger
		logger, err := config.Build()
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}

		logger.Info("Logger initialized",
			zap.Bool("development", isDevelopment),
			zap.String("level", logLevel.String()))

		log = logger
	})
}

// Get returns the global logger instance
func Get() *zap.Logger {
	if log == nil {
		Init()
	}
	return log
}

// With returns a child logger with additional fields
func With(fields ...zapcore.Field) *zap.Logger {
	return Get().With(fields...)
}

// WithJob returns a logger scoped to a single scan job, attached to every
// log line emitted while that job's activities run.
func WithJob(scanID string) *zap.Logger {
	return With(zap.String("scan_id", scanID))
}

// Debug logs a debug message
func Debug(msg string, fields ...zapcore.Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zapcore.Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zapcore.Field) {
	Get().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zapcore.Field) {
	Get().Error(msg, fields...)
}

// Fatal logs a fatal message and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	Get().Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Get().Sync()
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return Get()
}
