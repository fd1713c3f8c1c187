package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/config"
)

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("console logger: %v", err)
	}
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	FromContext(context.Background(), base).Info("no id")
	FromContext(WithRequestID(context.Background(), "rid-1"), base).Info("with id")

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if _, ok := all[0].ContextMap()["request_id"]; ok {
		t.Error("request_id should be absent without an id in context")
	}
	if all[1].ContextMap()["request_id"] != "rid-1" {
		t.Errorf("expected request_id=rid-1, got %v", all[1].ContextMap()["request_id"])
	}
}

func TestGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"debug": gormlogger.Info,
		"info":  gormlogger.Warn,
		"warn":  gormlogger.Warn,
		"error": gormlogger.Error,
	}
	for in, want := range tests {
		if got := GormLogLevel(in); got != want {
			t.Errorf("GormLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
