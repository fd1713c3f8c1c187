package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/redis"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

// RateLimit 写接口限流（Redis 固定窗口）。
// 同一 scope 下的路由共用一个计数桶，批量导入与单条提交一起计数。
// rdb 为 nil 或 Redis 出错时放行。
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	limitHeader := strconv.Itoa(limit)
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Scope", scope)

		key := "rate_limit:" + scope + ":" + c.ClientIP()
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, please slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
