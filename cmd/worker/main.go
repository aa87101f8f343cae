package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/database"
	"github.com/alphaowl/premium_go_server/internal/pkg/email"
	"github.com/alphaowl/premium_go_server/internal/pkg/queue"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/worker"
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

	// 初始化邮件服务（可选，未配置时只消费队列不发信）
	var emailService *email.Service
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewService(&cfg.Email)
		log.Println("Email service initialized")
	}

	// 初始化通知队列
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)

	// 初始化 Repository
	paymentRepo := repository.NewPaymentRepository(db)
	premiumRepo := repository.NewPremiumUserRepository(db)

	// 创建通知处理器
	processor := worker.NewProcessor(paymentRepo, premiumRepo, emailService)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	log.Printf("Notification worker started, max workers: %d", maxWorkers)

	// 启动 worker 循环
	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := notifyQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop message: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: notifying payment %d (%s)", workerID, msg.PaymentID, msg.Event)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: notification for payment %d failed: %v", workerID, msg.PaymentID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
