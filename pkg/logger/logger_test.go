package logger

import (
	"testing"

	gormlogger "gorm.io/gorm/logger"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "info", Format: format})
		if err != nil {
			t.Fatalf("format %s: %v", format, err)
		}
		if l == nil {
			t.Fatalf("format %s: nil logger", format)
		}
	}

	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug": gormlogger.Info,
		"info":  gormlogger.Warn,
		"warn":  gormlogger.Warn,
		"error": gormlogger.Error,
	}
	for in, want := range cases {
		if got := GormLevel(in); got != want {
			t.Errorf("GormLevel(%q)=%v, want %v", in, got, want)
		}
	}
}
