package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SlpAus/water-wars-backend/api"
	"github.com/SlpAus/water-wars-backend/internal/auth"
	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/backup"
	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/SlpAus/water-wars-backend/internal/platform/health"
	"github.com/SlpAus/water-wars-backend/internal/platform/shutdown"
	"github.com/SlpAus/water-wars-backend/internal/platform/startup"
	"github.com/SlpAus/water-wars-backend/internal/stats"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/SlpAus/water-wars-backend/pkg/token"
	"github.com/google/logger"
)

func main() {
	configDir := flag.String("config", "", "配置文件所在目录")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		logger.Fatalf("无法加载配置: %v", err)
	}

	defer logger.Init("water-wars", cfg.Log.Verbose, false, io.Discard).Close()

	// 1. 连接数据库和Redis
	if err := database.InitDB(cfg.Database); err != nil {
		logger.Fatalf("数据库初始化失败: %v", err)
	}
	if err := database.InitRedis(cfg.Database.Redis); err != nil {
		// Redis只用于限流，不可用时降级运行
		logger.Warningf("Redis不可用，将以降级模式运行: %v", err)
	}

	// 2. 迁移表结构并组装业务模块
	if err := startup.MigrateAll(database.DB); err != nil {
		logger.Fatalf("数据库迁移失败: %v", err)
	}
	modules, err := startup.NewModules(database.DB, cfg.Game, nil)
	if err != nil {
		logger.Fatalf("应用初始化失败: %v", err)
	}

	handlers := api.Handlers{
		Entry:     entry.NewHandler(modules.EntryService),
		Winner:    winner.NewHandler(modules.Resolver, modules.WinnerService, cfg.Game.DefaultWindowDays),
		Stats:     stats.NewHandler(modules.Stats, cfg.Game.DefaultWindowDays),
		Health:    health.NewHandler(database.DB, time.Now()),
		RateLimit: entry.NewRateLimiter(database.RDB, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window).Middleware(),
	}
	if len(cfg.Auth.Users) > 0 {
		signer, err := token.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			logger.Fatalf("令牌配置无效: %v", err)
		}
		authService, err := auth.NewService(cfg.Auth.Users, modules.Roster, signer)
		if err != nil {
			logger.Fatalf("登录配置无效: %v", err)
		}
		handlers.Auth = auth.NewHandler(authService)
		if cfg.Auth.Required {
			handlers.RequireAuth = authService.RequireToken()
		}
	} else if cfg.Auth.Required {
		logger.Fatal("auth.required 为 true 但没有配置任何用户")
	}

	// 3. 启动后台服务
	gracefulManager := lifecycle.NewManager("graceful")
	forcefulManager := lifecycle.NewManager("forceful")

	checker := health.NewChecker(database.RDB)
	if err := gracefulManager.Go("redis-health", checker.Start); err != nil {
		logger.Fatalf("无法启动健康检查器: %v", err)
	}
	if cfg.Scheduler.Enabled {
		scheduler := winner.NewScheduler(modules.Resolver, modules.Clock, cfg.Scheduler.ResolveInterval, modules.Metadata)
		if err := gracefulManager.Go("winner-scheduler", scheduler.Start); err != nil {
			logger.Fatalf("无法启动结算调度器: %v", err)
		}
	}

	var snapshotter *backup.Snapshotter
	if cfg.Backup.Enabled {
		snapshotter = backup.NewSnapshotter(database.DB, modules.Metadata, cfg.Backup)
		if err := gracefulManager.Go("backup", snapshotter.StartBackupScheduler); err != nil {
			logger.Fatalf("无法启动备份调度器: %v", err)
		}
	}

	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.AddFinalStep("结算今日胜者", func(ctx context.Context) error {
		_, err := modules.Resolver.ResolveToday(ctx)
		if errors.Is(err, winner.ErrNoEntries) {
			return nil
		}
		return err
	})
	if snapshotter != nil && snapshotter.Supported() {
		coordinator.AddFinalStep("最终快照", func(ctx context.Context) error {
			_, err := snapshotter.Snapshot(ctx)
			return err
		})
	}
	coordinator.AddFinalStep("关闭Redis", func(context.Context) error { return database.CloseRedis() })
	coordinator.AddFinalStep("关闭数据库", func(context.Context) error { return database.Close() })

	// 4. 启动HTTP服务器
	router := api.NewRouter(cfg.Server, handlers)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}
	go func() {
		logger.Infof("服务器已准备就绪，开始监听 %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("服务器启动失败: %v", err)
			os.Exit(1)
		}
	}()

	coordinator.ListenForSignalsAndShutdown(server)
}
