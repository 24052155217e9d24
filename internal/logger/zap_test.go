package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{InfoLevel, zapcore.InfoLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{DebugLevel, zapcore.DebugLevel},
		{"bogus", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := toZapLevel(tt.in); got != tt.want {
			t.Errorf("toZapLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSampledDropsRepeats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).Sampled()

	for i := 0; i < 50; i++ {
		l.Warnw("drude parameters missing", "material", "iron")
	}
	l.Warnw("other message")

	if n := logs.FilterMessage("drude parameters missing").Len(); n != 1 {
		t.Errorf("expected 1 sampled entry, got %d", n)
	}
	if n := logs.FilterMessage("other message").Len(); n != 1 {
		t.Errorf("distinct message dropped: %d", n)
	}
}

func TestOrNop(t *testing.T) {
	var l *Logger
	l.OrNop().Infow("ignored")
}
