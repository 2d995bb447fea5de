package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	mu sync.RWMutex
)

// InitLogger initializes Zap logger with configuration
func InitLogger(cfg *config.Config) error {
	zapLevel := levelFor(cfg.App.Environment, cfg.App.LogLevel)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	infoWriter := zapcore.AddSync(os.Stdout)
	errorWriter := zapcore.AddSync(os.Stderr)

	// Optional file sinks next to the console output
	if cfg.App.LogsPath != "" {
		if err := os.MkdirAll(cfg.App.LogsPath, 0755); err != nil {
			return err
		}

		infoFile, err := os.OpenFile(filepath.Join(cfg.App.LogsPath, "info.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		errorFile, err := os.OpenFile(filepath.Join(cfg.App.LogsPath, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			infoFile.Close()
			return err
		}

		infoWriter = zapcore.NewMultiWriteSyncer(zapcore.AddSync(infoFile), infoWriter)
		errorWriter = zapcore.NewMultiWriteSyncer(zapcore.AddSync(errorFile), errorWriter)
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.App.Environment != constants.EnvProduction && cfg.App.Debug {
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(consoleConfig)
	}

	// info core stops below error so error lines are written once, to stderr
	infoCore := zapcore.NewCore(encoder, infoWriter, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapLevel && l < zapcore.ErrorLevel
	}))
	errorCore := zapcore.NewCore(encoder, errorWriter, zapcore.ErrorLevel)

	core := zapcore.NewTee(infoCore, errorCore)

	SetLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	return nil
}

func levelFor(environment, override string) zapcore.Level {
	if override != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(override)); err == nil {
			return lvl
		}
	}

	switch environment {
	case constants.EnvProduction:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// SetLogger swaps the global logger. Tests use it to install zap.NewNop or an observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	Logger = l
	Sugar = l.Sugar()
}

// GetLogger returns the structured logger, or a no-op logger before InitLogger runs.
func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	if l := GetLogger(); l != nil {
		_ = l.Sync()
	}
}

// WithFields adds structured fields to the logger
func WithFields(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

// LogRequest logs HTTP request information
func LogRequest(method, path string, statusCode int, durationMs int64, clientIP, requestID string) {
	GetLogger().Info("HTTP Request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
		zap.String("client_ip", clientIP),
		zap.String("request_id", requestID),
	)
}

// LogPanic logs a recovered panic with its stack
func LogPanic(recovered interface{}) {
	GetLogger().Error("Panic recovered",
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
}

// LogAuth logs authentication events
func LogAuth(email, action string, success bool, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("email", email),
		zap.String("action", action),
		zap.Bool("success", success),
	}, fields...)

	if success {
		GetLogger().Info("Authentication success", allFields...)
	} else {
		GetLogger().Warn("Authentication failure", allFields...)
	}
}
