package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/mkotelnikov/elearning_platform/internal/blacklist"
	"github.com/mkotelnikov/elearning_platform/internal/config"
	"github.com/mkotelnikov/elearning_platform/internal/es"
	"github.com/mkotelnikov/elearning_platform/internal/handlers"
	"github.com/mkotelnikov/elearning_platform/internal/logging"
	authmw "github.com/mkotelnikov/elearning_platform/internal/middleware/auth"
	"github.com/mkotelnikov/elearning_platform/internal/mykafka"
	"github.com/mkotelnikov/elearning_platform/internal/storage"
	"github.com/mkotelnikov/elearning_platform/internal/token"
	httpserver "github.com/mkotelnikov/elearning_platform/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	tokens := token.NewService([]byte(configuration.JWT_SECRET))

	var revoked blacklist.Store
	if configuration.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		revoked = blacklist.NewRedis(client)
	} else {
		logger.Warn("REDIS_ADDR not set, revocations will not survive a restart")
		revoked = blacklist.NewMemory()
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	files, err := storage.NewFileStore(configuration.UPLOAD_DIR)
	if err != nil {
		log.Fatalf("file store init error: %v", err)
	}

	gate := &authmw.Gate{DB: db, Tokens: tokens, Blacklist: revoked}

	deps := httpserver.Deps{
		Gate:          gate,
		AuthHandler:   &handlers.AuthHandler{DB: db, Tokens: tokens, Blacklist: revoked, Producer: producer},
		UserHandler:   &handlers.UserHandler{DB: db},
		CourseHandler: &handlers.CourseHandler{DB: db, Producer: producer, Files: files, Index: "courses"},
		LessonHandler: &handlers.LessonHandler{DB: db, Producer: producer},
		TopicHandler:  &handlers.TopicHandler{DB: db, Producer: producer, Files: files},
		UploadDir:     configuration.UPLOAD_DIR,
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.CourseHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "courses"}
	} else {
		logger.Warn("ES_URL not set, course search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", configuration.PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
