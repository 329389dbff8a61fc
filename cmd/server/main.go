package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // export.timezone 在无系统时区库的容器中也可解析

	"go.uber.org/zap"

	"course-planner/config"
	"course-planner/internal/api/handler"
	"course-planner/internal/api/middleware"
	"course-planner/internal/api/router"
	"course-planner/internal/recordio"
	"course-planner/internal/repository"
	"course-planner/internal/service"
	"course-planner/pkg/database"
	applogger "course-planner/pkg/logger"
	"course-planner/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 加载课程目录（无法读取时终止启动）
	catalog, err := recordio.LoadCourseRecords(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("加载课程目录失败", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	logger.Info("课程目录已加载",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("courses", len(catalog.Courses)),
		zap.Int("skipped", catalog.Skipped),
	)

	// 4. 连接数据库（可选：仅在启用存档时）
	var repo *repository.Repository
	var closeDB func()
	if cfg.Feature.ArchiveEnabled {
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)
		closeDB = func() { sqlDB.Close() }
	} else {
		logger.Info("存档功能未启用，跳过数据库连接")
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	var snapshots service.SnapshotStore
	var limiter middleware.RateLimiter
	if cfg.Feature.SnapshotEnabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，会话快照与限流将不可用", zap.Error(err))
			rdb = nil
		} else {
			snapshots = rdb
			limiter = rdb
		}
	}

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, catalog.Courses, repo, snapshots, logger)
	h := handler.NewHandler(svc)

	// 7. 空闲会话回收
	sweeper, err := service.StartSweeper(svc.Sessions, cfg.Session.SweepInterval, logger)
	if err != nil {
		logger.Fatal("启动会话回收任务失败", zap.Error(err))
	}

	// 8. 初始化路由
	engine := router.Setup(cfg, h, limiter, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 等待正在执行的回收任务结束
	<-sweeper.Stop().Done()

	if closeDB != nil {
		closeDB()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
