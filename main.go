package main

import (
	"context"
	"errors"
	"log"
	"movehub-backend/cache"
	"movehub-backend/controller"
	"movehub-backend/dal"
	"movehub-backend/events"
	"movehub-backend/geo"
	"movehub-backend/middelware"
	"movehub-backend/models"
	"movehub-backend/pricing"
	"movehub-backend/repository"
	"movehub-backend/services"
	"movehub-backend/utils"
	"movehub-backend/utils/logger"
	"movehub-backend/worker"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "movehub-backend/docs"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title MoveHub Backend API
// @version 1.0
// @description Move requests, quotes with negotiation, and contracts.
// @description
// @description Customer endpoints are anonymous. Staff endpoints (quote counter and accept,
// @description request status, contract drafting) need a Bearer token with role staff or manager.
// @description Payment gateway callbacks need role payment.

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme.
func main() {
	Init()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dal.NewDynamoDBClient(ctx, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}

	var geoCache cache.Cache = cache.Nop{}
	var locker worker.Locker
	if config.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, config.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		geoCache = cache.NewRedisCache(redisClient, appLogger)
		locker = worker.NewRedisLocker(redisClient)
	}

	var publisher events.Publisher = events.LogPublisher{Log: appLogger}
	if config.Kafka.Enabled {
		producer, err := events.NewSyncProducer(config.Kafka)
		if err != nil {
			log.Fatalf("Failed to create kafka producer: %v", err)
		}
		publisher = events.NewKafkaPublisher(producer, config.Kafka.Topic, appLogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Warnf("Failed to close event publisher: %v", err)
		}
	}()

	geocoder := geo.NewGeocoder(config.Geo, geoCache, appLogger)
	router := geo.NewDistanceResolver(config.Geo, config.Pricing.FallbackSpeedKmh, geoCache, appLogger)
	calculator := pricing.NewCalculator(pricing.TariffFromConfig(config.Pricing), models.PricingStrategy(config.Pricing.DefaultStrategy))

	repoContainer := repository.NewRepository(db, config, appLogger)
	svc := services.NewService(repoContainer, services.Dependencies{
		DB:         db,
		Geocoder:   geocoder,
		Router:     router,
		Calculator: calculator,
		Publisher:  publisher,
	}, appLogger, config)

	infraWorker, err := worker.NewWorker(config, appLogger, db, svc.GetQuoteService(), locker)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	if _, err := infraWorker.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap tables: %v", err)
	}
	if config.Worker.Enabled {
		if err := infraWorker.Start(ctx); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
		defer infraWorker.Stop()
	}
	svc.GetInfrastructureService().AttachWorker(infraWorker)

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	controller.NewController(svc, middelware.NewJWTManager(config, appLogger), config, appLogger).RegisterRoutes(r, config.BasePath)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Infof("Listening on %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorf("Server shutdown failed: %v", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorf("Server stopped: %v", err)
		}
	}
}
