package bootstrap

import (
	"context"
	"log"
	"time"

	"chowbot-be/internal/catalog"
	"chowbot-be/internal/config"
	"chowbot-be/internal/controller"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/pkg/mailer"
	"chowbot-be/internal/repository/memory"
	"chowbot-be/internal/repository/unitofwork"
	"chowbot-be/internal/service"
	pktNats "chowbot-be/pkg/nats"
	"chowbot-be/pkg/paystack"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const receiptTopic = "order.receipts"

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	PaymentController controller.IPaymentController
	AdminController   controller.IAdminController

	// Background Services (Exposed for main.go to run)
	CleanupService  service.ICleanupService
	ReceiptConsumer service.IReceiptConsumerService
	NotifierService service.INotifierService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	menuCatalog := catalog.New()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Paystack
	paystackClient := paystack.NewClient(
		cfg.Paystack.SecretKey,
		cfg.Paystack.BaseURL,
		time.Duration(cfg.Paystack.TimeoutSeconds)*time.Second,
	)

	// In-memory per-session turn locks
	turnLocks := memory.NewTurnLockRegistry()

	// 3. Services
	orderService := service.NewOrderService(uowFactory, natsPub)
	paymentService := service.NewPaymentService(
		uowFactory,
		orderService,
		paystackClient,
		cfg.Paystack.SecretKey,
		cfg.Paystack.PublicKey,
		menuCatalog,
		natsPub,
		pubSub,
		receiptTopic,
		rdb,
		sysLogger,
	)
	conversationService := service.NewConversationService(
		uowFactory,
		menuCatalog,
		orderService,
		paymentService,
		turnLocks,
		sysLogger,
	)
	adminService := service.NewAdminService(uowFactory, cfg.Admin, sysLogger)

	cleanupService := service.NewCleanupService(uowFactory, cfg.App.SessionRetentionHours, sysLogger)
	receiptConsumer := service.NewReceiptConsumerService(pubSub, receiptTopic, uowFactory, emailService, sysLogger)

	eventLogger := logger.NewIsolatedLogger("logs/events.log")
	notifierService := service.NewNotifierService(natsSub, eventLogger)

	// 4. Controllers
	chatController := controller.NewChatController(conversationService, paymentService, sysLogger)
	paymentController := controller.NewPaymentController(paymentService, sysLogger)
	adminController := controller.NewAdminController(adminService)

	return &Container{
		ChatController:    chatController,
		PaymentController: paymentController,
		AdminController:   adminController,
		CleanupService:    cleanupService,
		ReceiptConsumer:   receiptConsumer,
		NotifierService:   notifierService,
		Logger:            sysLogger,
	}
}
