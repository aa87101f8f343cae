package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/api"
	"github.com/alphaowl/premium_go_server/internal/api/handler"
	"github.com/alphaowl/premium_go_server/internal/database"
	"github.com/alphaowl/premium_go_server/internal/pkg/cron"
	"github.com/alphaowl/premium_go_server/internal/pkg/oss"
	"github.com/alphaowl/premium_go_server/internal/pkg/pubsub"
	"github.com/alphaowl/premium_go_server/internal/pkg/queue"
	"github.com/alphaowl/premium_go_server/internal/pkg/ws"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，未配置时凭证上传功能关闭）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 订阅支付事件，推送给在线的对账页
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.PaymentEventMessage) {
			if err := wsHub.Broadcast(&ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to broadcast payment event: %v", err)
			}
		})
		if err != nil {
			log.Printf("Payment event subscription stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	paymentRepo := repository.NewPaymentRepository(db)
	premiumRepo := repository.NewPremiumUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	sessionTTL := time.Duration(cfg.Checkout.SessionTTLMinutes) * time.Minute
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	sessionRepo := repository.NewCheckoutSessionRepository(rdb, sessionTTL)

	// 初始化 Service
	pricingService := service.NewPricingService(cfg)
	chainRegistry := service.NewChainRegistry(cfg)
	paymentService := service.NewPaymentService(paymentRepo, pricingService, chainRegistry, publisher, ossClient)
	premiumService := service.NewPremiumService(premiumRepo)
	reconcileService := service.NewReconcileService(db, notifyQueue, publisher)
	checkoutService := service.NewCheckoutService(sessionRepo, pricingService, chainRegistry, paymentService, cfg)
	authService := service.NewAuthService(adminRepo, cfg)

	// 首次启动时写入初始运营账号
	if err := authService.SeedAdmin(); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// 启动定时任务（会员降级 + 积压提醒）
	cronService := cron.NewService(premiumService, paymentRepo, 48)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	premiumHandler := handler.NewPremiumHandler(premiumService)
	adminHandler := handler.NewAdminHandler(authService, paymentService, reconcileService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		checkoutHandler,
		paymentHandler,
		premiumHandler,
		adminHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
