package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/config"
	"github.com/kindredlabs/matchmaker/internal/api/handlers"
	"github.com/kindredlabs/matchmaker/internal/api/middleware"
	"github.com/kindredlabs/matchmaker/internal/api/routes"
	"github.com/kindredlabs/matchmaker/internal/cache"
	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/introductions"
	"github.com/kindredlabs/matchmaker/internal/logger"
	"github.com/kindredlabs/matchmaker/internal/matchmaking"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	"github.com/kindredlabs/matchmaker/internal/providers/stt"
	"github.com/kindredlabs/matchmaker/internal/providers/tts"
	mongorepo "github.com/kindredlabs/matchmaker/internal/repositories/mongo"
	pgrepo "github.com/kindredlabs/matchmaker/internal/repositories/postgres"
	"github.com/kindredlabs/matchmaker/internal/services"
	"github.com/kindredlabs/matchmaker/internal/storage"
	"github.com/kindredlabs/matchmaker/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	// LLM provider
	var llmProvider llm.Provider = llm.Unconfigured{}
	if project := os.Getenv("GOOGLE_PROJECT"); project != "" {
		location := os.Getenv("GOOGLE_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-1.5-flash"
		}
		p, err := llm.NewVertexGemini(ctx, project, location, model)
		if err != nil {
			log.Fatalf("Vertex AI init error: %v", err)
		}
		defer p.Close()
		llmProvider = p
	} else {
		log.Warn("GOOGLE_PROJECT not set, LLM provider disabled")
	}

	// TTS provider via registry
	ttsName := os.Getenv("TTS_PROVIDER")
	if ttsName == "" {
		ttsName = "none"
	}
	ttsProvider, err := tts.DefaultRegistry().New(ctx, ttsName)
	if err != nil {
		log.Fatalf("TTS init error (%s): %v", ttsName, err)
	}
	defer ttsProvider.Close()

	// Optional STT for voice answers
	var sttProvider stt.Provider
	if os.Getenv("ENABLE_STT") == "true" {
		sp, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.Fatalf("STT init error: %v", err)
		}
		defer sp.Close()
		sttProvider = sp
	}

	cat := catalog.Default()
	redisCache := cache.NewRedisCache(config.RedisClient)
	sessions := mongorepo.NewSessionRepo(config.MongoDatabase())
	candidates := pgrepo.NewCandidateRepo(config.PostgresDB)
	users := pgrepo.NewUserRepo(config.PostgresDB)

	analyst := matchmaking.NewAnalyst(llmProvider, matchmaking.DefaultQuestionCount)
	profiler := matchmaking.NewProfiler(llmProvider, cat)
	events := matchmaking.NewRedisPublisher(config.RedisClient)
	orch := matchmaking.NewOrchestrator(sessions, analyst, profiler, cat, events, logger.Component(log, "orchestrator"))

	introCache := introductions.NewCache(redisCache, logger.Component(log, "intro_cache"))
	generator := introductions.NewGenerator(llmProvider, cat, logger.Component(log, "intro_generator"))

	speakerOpts := []introductions.SpeakerOption{}
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		uploader, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer uploader.Close()
		speakerOpts = append(speakerOpts, introductions.WithUploader(uploader))

		// Audio retention sweep mirrors the cache TTL.
		go func() {
			ticker := time.NewTicker(12 * time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				stats, err := uploader.SweepOld(ctx, "introductions/", introductions.RetentionTTL)
				if err != nil {
					log.WithError(err).Warn("introduction audio sweep failed")
					continue
				}
				log.WithFields(logrus.Fields{"scanned": stats.Scanned, "deleted": stats.Deleted}).Info("introduction audio sweep")
			}
		}()
	}
	speaker := introductions.NewSpeaker(introCache, generator, ttsProvider, logger.Component(log, "speaker"), speakerOpts...)

	mmService := services.NewMatchmakingService(orch, sttProvider)
	candidateService := services.NewCandidateService(candidates, cat, llmProvider, introCache, logger.Component(log, "candidates"))
	authService := services.NewAuthService(users)

	// Background introduction warmup
	pool := &workers.IntroWorkerPool{
		Redis:      config.RedisClient,
		Speaker:    speaker,
		Candidates: candidates,
		Logger:     log,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:        handlers.NewAuthHandler(authService),
		Matchmaking: handlers.NewMatchmakingHandler(mmService),
		Candidates:  handlers.NewCandidateHandler(candidateService, mmService, cat, speaker, config.RedisClient, log),
		WS:          handlers.NewWSHandler(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
