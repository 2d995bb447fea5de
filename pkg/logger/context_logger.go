package logger

import (
	"context"
	"time"

	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one log line and pulls request
// metadata out of ctx when the level is set.
type ContextLogBuilder struct {
	logger     *zap.Logger
	ctx        context.Context
	level      zapcore.Level
	fields     []zap.Field
	message    string
	shouldLog  bool
	autoFields bool
}

// WithContext starts a builder bound to ctx
func WithContext(ctx context.Context) *ContextLogBuilder {
	return &ContextLogBuilder{
		logger:     GetLogger(),
		ctx:        ctx,
		level:      zapcore.InfoLevel,
		fields:     make([]zap.Field, 0, 12),
		shouldLog:  true,
		autoFields: true,
	}
}

// AutoFields toggles extraction of request fields from the context
func (clb *ContextLogBuilder) AutoFields(auto bool) *ContextLogBuilder {
	clb.autoFields = auto
	return clb
}

func (clb *ContextLogBuilder) extractContextFields() {
	if !clb.autoFields || clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userID, ok := ctxutil.GetUserIDUint(clb.ctx); ok {
		clb.fields = append(clb.fields, zap.Uint("user_id", userID))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}
}

func (clb *ContextLogBuilder) at(level zapcore.Level, message string) *ContextLogBuilder {
	if !clb.logger.Core().Enabled(level) {
		clb.shouldLog = false
		return clb
	}
	clb.level = level
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	return clb.at(zapcore.InfoLevel, message)
}

func (clb *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	return clb.at(zapcore.WarnLevel, message)
}

func (clb *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	return clb.at(zapcore.ErrorLevel, message)
}

func (clb *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	return clb.at(zapcore.DebugLevel, message)
}

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Uint(key string, value uint) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Uint(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Bool(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Duration("duration", value))
	}
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if clb.shouldLog && err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Any(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Method(method string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("method", method))
	}
	return clb
}

func (clb *ContextLogBuilder) Path(path string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("path", path))
	}
	return clb
}

func (clb *ContextLogBuilder) StatusCode(code int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int("status_code", code))
	}
	return clb
}

// Log writes the entry, including for contexts that are already cancelled.
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	if ce := clb.logger.Check(clb.level, clb.message); ce != nil {
		ce.Write(clb.fields...)
	}
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return WithContext(ctx).Debug(message)
}
