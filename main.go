package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/config"
	"github.com/BerniceZTT/course_funnel/funnel"
	"github.com/BerniceZTT/course_funnel/middleware"
	"github.com/BerniceZTT/course_funnel/repository"
	"github.com/BerniceZTT/course_funnel/routes"
	"github.com/BerniceZTT/course_funnel/service"
	"github.com/BerniceZTT/course_funnel/utils"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	utils.InitLogger(cfg.LogFile, cfg.Debug())

	// 设置Gin模式
	if cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化储存层
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		utils.Logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("初始化储存层失败")
	}
	utils.Logger.Info().Str("backend", cfg.StoreBackend).Msg("储存层初始化完成")

	svc := service.NewFunnelService(store, funnel.SystemClock{})

	// 定时任务
	scheduler, err := service.NewScheduler(svc, cfg.FunnelSyncCron)
	if err != nil {
		utils.Logger.Fatal().Err(err).Str("cron", cfg.FunnelSyncCron).Msg("定时任务设置失败")
	}
	scheduler.Start()

	// 创建Gin实例
	router := gin.New()

	// 应用中间件
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLogger())

	// 注册路由
	routes.RegisterRoutes(router, svc)

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}
	scheduler.Stop(ctx)
	if err := store.Close(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("关闭储存层失败")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
}

// openStore 依 STORE_BACKEND 建立储存层
func openStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.BackendSheets:
		opts := repository.SheetsCredentials(cfg.GoogleCredentialsJSON, cfg.GoogleCredentialsFile)
		return repository.NewSheetsStore(ctx, cfg.SheetsSpreadsheetID, opts...)
	case config.BackendPostgres:
		return repository.NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return repository.NewMemoryStore(repository.SeedStudents(), nil), nil
	}
}
