package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tip-core/internal/service"
	"tip-core/internal/service/mq"
	"tip-core/internal/worker"
	"tip-core/internal/worker/tasks"
	"tip-core/pkg/config"
	"tip-core/pkg/database"
	"tip-core/pkg/logger"
)

// notify-worker 消费入账事件并给服务员发到账通知
// MQ 负责跨服务投递，Asynq 负责重试和去重
func main() {
	// 1. 初始化配置与日志
	config.Init()
	cfg := config.Global
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	logger.Info("启动通知服务 (Notify Worker)...", zap.String("env", cfg.App.Env), zap.String("mq", cfg.Redis.MQType))

	// 2. 数据库 (读取小费和任职信息)
	db, err := database.ConnectPostgres(cfg.DB.DSN(), false)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. Redis
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. Asynq Worker
	notify := tasks.NewTipNotifyHandler(db, tasks.NewLogMailer())
	srv := worker.NewServer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Worker.Concurrency, notify)
	srv.Start()

	// 5. MQ -> Asynq
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "notify-worker-0"
	}
	consumer := mq.NewConsumer(cfg, rdb, "tip_notifier", hostname)
	client := worker.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	notifier := service.NewNotifierService(consumer, client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := notifier.Start(ctx); err != nil {
			logger.Fatal("订阅失败", zap.Error(err))
		}
	}()

	// 6. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在停止通知服务...")
	cancel()
	srv.Stop()
	_ = client.Close()
	_ = consumer.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("通知服务已停止")
}
