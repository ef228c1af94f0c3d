package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"linguaclash/internal/cache"
	"linguaclash/internal/config"
	"linguaclash/internal/repository"
	"linguaclash/internal/service"
	"linguaclash/internal/transport/rest"
	"linguaclash/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	curriculumRepo := repository.NewCurriculumRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services; one keyed mutex serializes all mutations per code
	locks := service.NewKeyedMutex()
	authSvc := service.NewAuthService(cfg.JWTSecret)
	resultsSvc := service.NewResultsService(profileRepo)
	sessionSvc := service.NewSessionService(sessionRepo, curriculumRepo, sessionCache, leaderboard, locks)
	answerSvc := service.NewAnswerService(sessionRepo, curriculumRepo, sessionCache, leaderboard, resultsSvc, locks)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)
	answerSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		AnswerService:  answerSvc,
		ResultsService: resultsSvc,
		Leaderboard:    leaderboard,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{code}/join")
		log.Println("  POST /v1/sessions/{code}/start")
		log.Println("  POST /v1/sessions/{code}/answers")
		log.Println("  GET  /v1/sessions/{code}")
		log.Println("  GET  /v1/sessions/{code}/leaderboard")
		log.Println("  GET  /v1/profiles/{userId}")
		log.Println("  WS   /v1/ws/sessions/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
