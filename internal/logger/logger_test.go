package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		log, err := New(tt.level)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q): expected error", tt.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q): %v", tt.level, err)
		}
		if !log.Core().Enabled(tt.enabled) {
			t.Errorf("New(%q): level %v should be enabled", tt.level, tt.enabled)
		}
		if tt.enabled > zapcore.DebugLevel && log.Core().Enabled(tt.enabled-1) {
			t.Errorf("New(%q): level %v should be disabled", tt.level, tt.enabled-1)
		}
	}
}
