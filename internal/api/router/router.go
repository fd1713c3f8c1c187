package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/config"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/api/handler"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/api/middleware"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/database"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.JSONLimitKB<<10, cfg.Server.UploadLimitMB<<20))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unreachable"
			}
		}
		c.JSON(code, status)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 课表提交与基础数据维护分桶计数
	limit, window := cfg.Timetable.RateLimitRequests, cfg.Timetable.RateLimitWindow
	entryLimit := middleware.RateLimit(rdb, "entries", limit, window, logger)
	writeLimit := middleware.RateLimit(rdb, "reference", limit, window, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课表记录模块
		entries := v1.Group("/timetable-entries")
		{
			entries.GET("", h.TimetableEntry.ListEntries)
			entries.GET("/grid", h.TimetableEntry.GetGrid)
			entries.GET("/:id", h.TimetableEntry.GetEntry)
			entries.POST("", entryLimit, h.TimetableEntry.CreateEntries)
			entries.POST("/import", entryLimit, h.TimetableEntry.ImportEntries)
			entries.PUT("/:id", entryLimit, h.TimetableEntry.UpdateEntry)
			entries.DELETE("/:id", entryLimit, h.TimetableEntry.DeleteEntry)
		}

		// 当前学年
		years := v1.Group("/academic-years")
		{
			years.GET("/current", h.AcademicYear.GetCurrent)
			years.PUT("/:id/activate", writeLimit, h.AcademicYear.Activate)
		}

		// 时间段模块
		timeSlots := v1.Group("/time-slots")
		{
			timeSlots.GET("", h.TimeSlot.ListTimeSlots)
			timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
			timeSlots.POST("", writeLimit, h.TimeSlot.CreateTimeSlot)
			timeSlots.POST("/import", writeLimit, h.TimeSlot.ImportTimeSlots)
			timeSlots.PUT("/:id", writeLimit, h.TimeSlot.UpdateTimeSlot)
			timeSlots.DELETE("/:id", writeLimit, h.TimeSlot.DeleteTimeSlot)
		}

		// 科目模块
		subjects := v1.Group("/subjects")
		{
			subjects.GET("", h.Subject.ListSubjects)
			subjects.GET("/:id", h.Subject.GetSubject)
			subjects.POST("", writeLimit, h.Subject.CreateSubject)
			subjects.PUT("/:id", writeLimit, h.Subject.UpdateSubject)
			subjects.DELETE("/:id", writeLimit, h.Subject.DeleteSubject)
		}

		// 教师模块
		teachers := v1.Group("/teachers")
		{
			teachers.GET("", h.Teacher.ListTeachers)
			teachers.GET("/:id", h.Teacher.GetTeacher)
			teachers.GET("/:id/entries", h.Teacher.ListTeacherEntries)
			teachers.POST("", writeLimit, h.Teacher.CreateTeacher)
			teachers.PUT("/:id", writeLimit, h.Teacher.UpdateTeacher)
			teachers.DELETE("/:id", writeLimit, h.Teacher.DeleteTeacher)
		}
	}

	return r
}
