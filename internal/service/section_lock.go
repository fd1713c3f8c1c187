package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	applogger "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/logger"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/redis"
)

// SectionLocker 按班级串行化课表提交
type SectionLocker interface {
	// Lock 获取班级锁，返回的 release 必须调用
	Lock(ctx context.Context, sectionID string) (release func(), err error)
}

type redisSectionLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewSectionLocker 创建班级提交锁；rdb 为 nil 时返回空实现，仅依赖唯一索引兜底
func NewSectionLocker(rdb *redis.Client, ttl, wait time.Duration, logger *zap.Logger) SectionLocker {
	if rdb == nil {
		return noopSectionLocker{}
	}
	return &redisSectionLocker{rdb: rdb, ttl: ttl, wait: wait, logger: logger}
}

func (l *redisSectionLocker) Lock(ctx context.Context, sectionID string) (func(), error) {
	lock, err := l.rdb.AcquireLock(ctx, "timetable:section:"+sectionID, l.ttl, l.wait)
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return nil, ErrEntrySectionBusy
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Redis 故障时降级为无锁提交
		applogger.FromContext(ctx, l.logger).Warn("获取班级提交锁失败，降级为无锁提交", zap.String("section_id", sectionID), zap.Error(err))
		return func() {}, nil
	}
	return func() {
		// 请求上下文可能已取消，释放锁使用独立上下文
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := lock.Release(ctx); err != nil {
			l.logger.Warn("释放班级提交锁失败", zap.String("section_id", sectionID), zap.Error(err))
		}
	}, nil
}

type noopSectionLocker struct{}

func (noopSectionLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
