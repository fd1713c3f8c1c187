package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/config"
)

// NewLogger 根据配置初始化 Zap 日志实例
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger.With(zap.String("service", "timetable")), nil
}

// GormLogLevel 将应用日志级别映射为 GORM 日志级别
// debug 输出全部 SQL；info/warn 仅输出慢查询与错误；其余仅输出错误
func GormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

type ctxKey struct{}

// WithRequestID 将请求 ID 写入 ctx，供下游服务日志关联同一请求
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID 读取 ctx 中的请求 ID，不存在时返回空串
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKey{}).(string)
	return rid
}

// FromContext 返回附带 request_id 字段的子日志器；ctx 中无请求 ID 时原样返回 base
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if rid := RequestID(ctx); rid != "" {
		return base.With(zap.String("request_id", rid))
	}
	return base
}
