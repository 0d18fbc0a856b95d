package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Importance string

const (
	Info    Importance = " "
	Warning Importance = "?"
	Error   Importance = "!"
	Raw     Importance = "-"
)

// LogDatabase receives a copy of every feature log message when attached
type LogDatabase interface {
	WriteLogMessage(ctx context.Context, message *FeatureLogMessage) error
}

// Logger writes structured lines through zap and, when a database is attached,
// copies messages to it from a background writer
type Logger struct {
	zap       *zap.Logger
	database  LogDatabase
	debugMode bool
	writer    chan *FeatureLogMessage
}

func NewLogger(level string) (*Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(strings.ToLower(strings.TrimSpace(level))); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building zap logger: %w", err)
	}
	return newLogger(z), nil
}

// NewNopLogger discards everything; used in tests
func NewNopLogger() *Logger {
	return newLogger(zap.NewNop())
}

func newLogger(z *zap.Logger) *Logger {
	logger := &Logger{
		zap:    z,
		writer: make(chan *FeatureLogMessage, 100),
	}
	go logger.startWriter()
	return logger
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format(time.RFC3339Nano))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func (l *Logger) startWriter() {
	for message := range l.writer {
		if l.database == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.database.WriteLogMessage(ctx, message); err != nil {
			l.zap.Warn("write log to database failed", zap.Error(err))
		}
		cancel()
	}
}

func (l *Logger) SetDebugMode(debugMode bool) {
	l.debugMode = debugMode
}

func (l *Logger) SetDatabase(database LogDatabase) {
	l.database = database
}

// Zap exposes the underlying logger for components that log with fields
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

func logTime(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}

func (l *Logger) FeatureEvent(feature, id, text string) {
	l.zap.Info(text, zap.String("feature", feature), zap.String("id", id))
	l.logEvent(Info, feature, id, text)
}

func (l *Logger) Debug(text string) {
	l.zap.Debug(text)
}

func (l *Logger) Warn(text string) {
	l.zap.Warn(text)
	l.logEvent(Warning, "warning", "", text)
}

func (l *Logger) Error(text string, err error) {
	l.zap.Error(text, zap.Error(err))
	l.logEvent(Error, "error", "", fmt.Sprintf("%s: %s", text, err))
}

func (l *Logger) RawDataEvent(direction, data string) {
	if l.debugMode {
		l.zap.Debug(data, zap.String("direction", direction))
	}
}

func (l *Logger) logEvent(importance Importance, feature, id, text string) {
	if l.database == nil {
		return
	}
	if id == "" {
		id = "*"
	}
	now := time.Now()
	message := &FeatureLogMessage{
		Time:       logTime(now),
		TimeStamp:  now.UTC(),
		Feature:    feature,
		Id:         id,
		Text:       text,
		Importance: string(importance),
	}
	select {
	case l.writer <- message:
	default:
		l.zap.Warn("log writer queue is full, message dropped", zap.String("feature", feature))
	}
}
