package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

var (
	dryRun       = flag.Bool("dry-run", true, "Dry run mode, don't actually update records")
	staleHours   = flag.Int("stale-hours", 48, "Hours before a pending payment is considered stale")
	demotePremim = flag.Bool("demote", true, "Demote expired premium users")
	reportStale  = flag.Bool("report-stale", true, "Report stale pending payments")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting maintenance task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	premiumRepo := repository.NewPremiumUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	now := time.Now()
	demoted := int64(0)
	staleCount := 0

	// 1. 摘掉已过期记录的会员标记
	if *demotePremim {
		log.Println("\n⏳ Checking expired premium users...")
		expired, err := premiumRepo.ListExpired(now)
		if err != nil {
			log.Fatalf("Failed to query expired premium users: %v", err)
		}

		for _, user := range expired {
			log.Printf("  - %s (premium until %s, expired %s ago)",
				user.Email,
				user.PremiumUntil.Format("2006-01-02"),
				now.Sub(*user.PremiumUntil).Round(time.Hour))
		}

		if *dryRun {
			demoted = int64(len(expired))
		} else {
			demoted, err = premiumRepo.DemoteExpired(now)
			if err != nil {
				log.Fatalf("Failed to demote expired premium users: %v", err)
			}
		}
	}

	// 2. 统计滞留过久的 pending 支付，提醒运营跟进
	if *reportStale {
		log.Printf("\n📋 Checking pending payments older than %d hours...", *staleHours)
		stale, err := paymentRepo.ListStalePending(now.Add(-time.Duration(*staleHours) * time.Hour))
		if err != nil {
			log.Fatalf("Failed to query stale pending payments: %v", err)
		}
		staleCount = len(stale)

		for _, p := range stale {
			log.Printf("  - payment %d: %s, %s %.2f USDC, waiting %s",
				p.ID, p.UserEmail, p.Chain, p.Amount,
				now.Sub(p.CreatedAt).Round(time.Hour))
		}
	}

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Maintenance Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Demoted premium users: %d", demoted)
	log.Printf("Stale pending payments: %d", staleCount)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - No records were actually updated")
		log.Println("   Run with -dry-run=false to apply changes")
	} else {
		log.Println("\n✅ Maintenance completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// connectDB 连接数据库
func connectDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
