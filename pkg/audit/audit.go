package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the kind of dispatch event
type EventType string

const (
	EventDispatchSucceeded EventType = "dispatch_succeeded"
	EventDispatchRejected  EventType = "dispatch_rejected"
	EventDispatchFailed    EventType = "dispatch_failed"
	EventMethodNotAllowed  EventType = "method_not_allowed"
)

// Event is one entry of the dispatch audit stream. Email is masked on write.
type Event struct {
	Timestamp      time.Time
	Event          EventType
	RequestID      string
	Email          string
	Method         string
	IP             string
	UserAgent      string
	AdminDelivered bool
	AckDelivered   bool
	ErrorCount     int
	Stage          string
	Detail         string
}

// Logger writes audit events through zap
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds a JSON audit logger on stdout with ISO8601 timestamps.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithLogger(logger, serviceName, environment)
}

// NewWithLogger wraps an existing zap logger.
func NewWithLogger(logger *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// Nop discards every event.
func Nop() *Logger {
	return NewWithLogger(zap.NewNop(), "", "")
}

// Record writes one event. Failures are logged at error level, rejections
// and method misuse at warn.
func (l *Logger) Record(_ context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.InfoLevel
	switch event.Event {
	case EventDispatchRejected, EventMethodNotAllowed:
		level = zapcore.WarnLevel
	case EventDispatchFailed:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Email != "" {
		fields = append(fields,
			zap.String("subject_value", MaskEmail(event.Email)),
			zap.String("subject_hash", HashValue(strings.ToLower(event.Email))),
		)
	}
	if event.Method != "" {
		fields = append(fields, zap.String("method", event.Method))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	switch event.Event {
	case EventDispatchSucceeded, EventDispatchFailed:
		fields = append(fields,
			zap.Bool("admin_delivered", event.AdminDelivered),
			zap.Bool("ack_delivered", event.AckDelivered),
		)
	case EventDispatchRejected:
		fields = append(fields, zap.Int("error_count", event.ErrorCount))
	}
	if event.Stage != "" {
		fields = append(fields, zap.String("stage", event.Stage))
	}
	if event.Detail != "" {
		fields = append(fields, zap.String("detail", event.Detail))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if utf8.RuneCountInString(email) < 3 {
		return "***"
	}
	_, first := utf8.DecodeRuneInString(email)
	at := strings.IndexByte(email, '@')
	if at <= first {
		return "***" + email[first:]
	}
	return email[:first] + "***" + email[at:]
}

// HashValue returns a short SHA256 prefix so repeated submitters can be
// correlated without storing the address.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
