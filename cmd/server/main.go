package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"skysearch/cfg"
	"skysearch/internal/airport"
	"skysearch/internal/flight"
	"skysearch/pkg/amadeus"
	"skysearch/pkg/httpx"
	"skysearch/pkg/idgen"
	"skysearch/pkg/logger"
	"skysearch/pkg/memcache"
	"skysearch/pkg/metrics"
	"skysearch/pkg/middleware"
)

// @title           Skysearch Flight API
// @version         1.0
// @description     API service for searching flights and airports.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// observability
	// ============
	appMetrics := metrics.NewMetrics("skysearch")
	idGenerator, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	gateway := amadeus.New(amadeus.Config{
		BaseURL:      config.Amadeus.BaseURL,
		ClientID:     config.Amadeus.ClientID,
		ClientSecret: config.Amadeus.ClientSecret,
		RateQuota:    config.RateLimitQuota,
		RateWindow:   time.Duration(config.RateLimitWindowSeconds) * time.Second,
		SearchTTL:    time.Duration(config.SearchCacheTTLMinutes) * time.Minute,
		AirportTTL:   time.Duration(config.AirportCacheTTLHours) * time.Hour,
		Retry: httpx.Policy{
			MaxAttempts:    config.MaxRetries,
			AttemptTimeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
			BackoffBase:    time.Second,
			Retryable:      httpx.DefaultRetryable,
		},
	}, zlogger, appMetrics)

	// ============
	// Internal Service
	// ============
	flightSvc := flight.NewService(gateway, zlogger)
	flightHandler := flight.NewHandler(flightSvc, zlogger)

	airportCache := memcache.NewStore()
	airportTTL := time.Duration(config.AirportCacheTTLHours) * time.Hour
	airportSvc := airport.NewService(gateway, airportCache, airportTTL, zlogger)
	airportHandler := airport.NewHandler(airportSvc, zlogger)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID(idGenerator))
	r.Use(middleware.RequestLogger(zlogger))

	flightHandler.RegisterRoutes(r)
	airportHandler.RegisterRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	initSwagger(r)

	addr := fmt.Sprintf(":%s", config.AppPort)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
