package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/api"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/events"
	"hotel-booking-backend/internal/lock"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "hoteld ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Room-type lock provider: local for a single instance, redis when
	// several hoteld replicas share the inventory.
	var locks lock.Locker
	switch cfg.Lock.Provider {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.Redis.Addr,
			Password: cfg.Lock.Redis.Password,
			DB:       cfg.Lock.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis at %s: %v", cfg.Lock.Redis.Addr, err)
		}
		locks = lock.NewRedis(client, cfg.Lock.TTL, cfg.Lock.RetryInterval)
		logger.Printf("using redis lock provider at %s", cfg.Lock.Redis.Addr)
	default:
		locks = lock.NewKeyed()
		logger.Println("using in-process lock provider")
	}

	opts := []booking.Option{
		booking.WithEarlyCheckIn(cfg.Booking.AllowEarlyCheckIn),
	}

	// Booking lifecycle events are optional; an empty broker list disables
	// the producer.
	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic)
		defer producer.Close()
		opts = append(opts, booking.WithPublisher(producer))
		logger.Printf("kafka producer started for topic %q", cfg.Kafka.BookingEventsTopic)
	} else {
		logger.Println("kafka brokers not configured; booking events disabled")
	}

	// Staff web-push notifications are optional as well.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		opts = append(opts, booking.WithNotifier(pool))
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; staff notifications disabled")
	}

	svc := booking.NewService(appStore, locks, opts...)

	router := api.NewRouter(appStore, svc, cfg.Server, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
