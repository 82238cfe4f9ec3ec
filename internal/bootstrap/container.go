package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-studyprep-be/internal/config"
	"ai-studyprep-be/internal/constant"
	"ai-studyprep-be/internal/controller"
	"ai-studyprep-be/internal/handler"
	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/internal/pkg/mailer"
	"ai-studyprep-be/internal/repository/unitofwork"
	"ai-studyprep-be/internal/service"
	"ai-studyprep-be/internal/websocket"
	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/llm/factory"
	"ai-studyprep-be/pkg/ocr"
	"ai-studyprep-be/pkg/pipeline/aggregate"
	"ai-studyprep-be/pkg/pipeline/extract"
	"ai-studyprep-be/pkg/pipeline/generate"
	"ai-studyprep-be/pkg/storage"

	pktNats "ai-studyprep-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Progress
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub
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
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.GeminiModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.GeminiModel)

	var visionProvider llm.VisionProvider
	if cfg.Ai.GeminiAPIKey != "" {
		visionProvider, err = factory.NewVisionProvider(cfg.Ai.VisionModel, cfg.Ai.GeminiAPIKey)
		if err != nil {
			log.Printf("[WARN] AI-vision extraction unavailable: %v", err)
		}
	}

	// 3.5 Infrastructure
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Object Storage
	objectStore, err := storage.NewObjectStore(context.Background(), cfg.Storage.GCSBucket, cfg.Storage.LocalDir, cfg.App.BaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	// 4. Extraction Pipeline
	fileCache := extract.NewFileCache(time.Duration(cfg.Pipeline.CacheTTLMins) * time.Minute)

	ocrEngine := ocr.NewTesseractEngine(cfg.Pipeline.OcrLanguage)
	ocrStrategy := extract.NewOCRStrategy(ocrEngine, cfg.Pipeline.RasterDPI)

	var visionStrategy extract.Strategy
	if visionProvider != nil {
		visionStrategy = extract.NewVisionStrategy(visionProvider, cfg.Pipeline.RasterDPI)
	}

	extractor := extract.NewExtractor(fileCache, ocrStrategy, visionStrategy, extract.ParsePreference(cfg.Pipeline.PreferredMode), sysLogger)
	orchestrator := generate.NewOrchestrator(llmProvider, sysLogger)
	aggregator := aggregate.NewAggregator(sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(constant.TopicProcessSession, pubSub)
	sessionService := service.NewSessionService(uowFactory, publisherService, objectStore)

	var eventPub service.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
	}
	processingService := service.NewProcessingService(
		uowFactory,
		extractor,
		fileCache,
		orchestrator,
		aggregator,
		objectStore,
		eventPub,
		wsHub,
		sysLogger,
		cfg.Storage.LocalDir,
	)
	consumerService := service.NewConsumerService(pubSub, constant.TopicProcessSession, processingService)

	notifService := service.NewNotificationService(natsSub, emailService, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	progressHandler := handler.NewProgressHandler(wsHub, wsLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		ConsumerService:   consumerService,
		ProgressHandler:   progressHandler,
		WebSocketHub:      wsHub,
	}
}
