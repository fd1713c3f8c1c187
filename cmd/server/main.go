package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/config"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/api/handler"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/api/router"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/database"
	applogger "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/logger"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/redis"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/validate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config/config.yaml or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("课表服务启动中",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Timetable.Location().String()),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	// Redis 不可用时降级运行：班级锁退化为仅依赖唯一索引，限流放行
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，班级锁与限流将降级为单机模式", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if err := validate.RegisterGin(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, logger)
	engine := router.Setup(cfg, handler.NewHandler(svc), rdb, db, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("收到关闭信号，等待进行中的提交完成")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭异常: %w", err)
	}
	logger.Info("服务器已关闭")
	return nil
}
