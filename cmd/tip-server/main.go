package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tip-core/internal/handler"
	"tip-core/internal/model"
	"tip-core/internal/server"
	"tip-core/internal/service"
	"tip-core/internal/service/mq"
	"tip-core/internal/service/price"
	"tip-core/internal/service/settlement"
	"tip-core/pkg/cache"
	"tip-core/pkg/chain"
	"tip-core/pkg/config"
	"tip-core/pkg/database"
	"tip-core/pkg/logger"
	"tip-core/pkg/utils/lock"

	_ "tip-core/docs/swagger"
)

// @title Tip Core API
// @version 1.0
// @description Crypto tip settlement API: verifies on-chain payments and records tips
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	// 0. 初始化 Config
	config.Init()
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	// 2. 连接数据库
	db, err := database.ConnectPostgres(cfg.DB.DSN(), cfg.App.Env == "development")
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. 连接 Redis
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. 开发环境自动迁移，生产环境使用 migrate 工具
	if cfg.App.Env == "development" {
		logger.Info("开发环境: 尝试自动迁移 Schema (GORM AutoMigrate)...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
	} else {
		logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
	}

	// 5. 报价 (L1 内存 + L2 Redis)
	priceCache := cache.NewMultiLevelCache(
		cache.NewMemoryCache(cfg.Price.CacheTTL, 5*time.Minute),
		cache.NewRedisCache(rdb, "tip:"),
	)
	quoter, err := price.New(cfg.Price, priceCache)
	if err != nil {
		logger.Fatal("报价源初始化失败", zap.Error(err))
	}

	// 6. 链客户端池
	pool := chain.NewPool(cfg.Chains.RpcUrls, cfg.Chains.RPS)
	for _, n := range chain.All() {
		if pool.Endpoint(n.ChainID) == "" {
			logger.Warn("链未配置 RPC，提交该链的小费将被拒绝", zap.String("network", n.Name))
		}
	}

	// 7. 结算流水线
	locker := lock.NewRedisLock(rdb)
	verifier := settlement.New(db, locker, pool, quoter, cfg.Settlement)

	// 8. Outbox 中继
	ctx, cancel := context.WithCancel(context.Background())
	producer := mq.NewProducer(cfg, rdb)
	relay := service.NewRelayService(db, producer)
	go relay.Start(ctx)

	// 9. 报价预热任务
	cronService := service.NewCronService(locker, func(ctx context.Context, symbol string) error {
		_, err := quoter.Refresh(ctx, symbol)
		return err
	})
	cronService.Start()

	// 10. HTTP
	r := server.NewHTTPRouter(server.Handlers{
		Tip: handler.NewTipHandler(verifier, db, cfg.Settlement.RequestTimeout),
		QR:  handler.NewQRHandler(db),
	})
	app := server.New(server.Config{
		HttpPort:     cfg.App.HttpPort,
		WriteTimeout: cfg.Settlement.RequestTimeout + 30*time.Second,
	}, r)

	// 11. 退出后资源清理
	app.OnShutdown(func() {
		cancel()
		cronService.Stop()
		pool.Close()
		_ = producer.Close()
		logger.Info("正在关闭数据库连接...")
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = rdb.Close()
	})

	// 运行 (阻塞)
	app.Run()
	logger.Info("系统已退出")
}
