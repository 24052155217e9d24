package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
	core zapcore.Core
}

const defaultZapLevel = zapcore.DebugLevel

// sampleTick is the window in which a repeated message is logged once by
// the sampled logger.
const sampleTick = time.Second

func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

// newConsoleCore builds a console-encoded core writing to stderr so command
// output on stdout stays clean.
func newConsoleCore(level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	ws := zapcore.Lock(os.Stderr)
	return zapcore.NewCore(encoder, zapcore.AddSync(ws), zap.NewAtomicLevelAt(level))
}

// New constructs a logger with the provided level string.
func New(levelStr string) *Logger {
	return fromCore(newConsoleCore(toZapLevel(levelStr)))
}

// FromZap wraps an existing zap logger, e.g. one from zaptest.
func FromZap(l *zap.Logger) *Logger {
	return fromCore(l.Core())
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return fromCore(zapcore.NewNopCore())
}

func fromCore(core zapcore.Core) *Logger {
	return &Logger{SugaredLogger: zap.New(core).Sugar(), core: core}
}

// Sampled returns a logger that lets the first occurrence of each message
// through per second and drops the rest.
func (l *Logger) Sampled() *Logger {
	return fromCore(zapcore.NewSamplerWithOptions(l.core, sampleTick, 1, 0))
}

// OrNop returns l, or a no-op logger when l is nil.
func (l *Logger) OrNop() *Logger {
	if l == nil {
		return Nop()
	}
	return l
}
