package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"crmdashboard/internal/config"
	"crmdashboard/internal/handlers"
	"crmdashboard/internal/logger"
	"crmdashboard/internal/middleware"
	"crmdashboard/internal/pdf"
	"crmdashboard/internal/repositories"
	"crmdashboard/internal/routes"
	"crmdashboard/internal/services"
)

func Run() {
	cfg := config.LoadConfig()
	logger.Init(cfg.App.Name, cfg.App.LogLevel)

	// === DB ===
	db, err := OpenDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("database close failed")
		}
	}()

	router := NewRouter(cfg, repositories.NewSQLStore(db, cfg.Collections.Deals, cfg.Collections.Expertise))

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", listenAddr).Msg("server started")
	if err := router.Run(listenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// OpenDB opens the postgres pool. Connections are established lazily.
func OpenDB(dbCfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbCfg.ConnString())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	db.SetMaxIdleConns(dbCfg.MaxIdleConns)
	db.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	return db, nil
}

// NewRouter wires services and handlers over store.
func NewRouter(cfg *config.Config, store *repositories.SQLStore) *gin.Engine {
	// === Services ===
	dealService := services.NewDealService(store, cfg.Collections.Deals, cfg.Deals.DefaultCategory)
	expertiseService := services.NewExpertiseService(store, cfg.Collections.Expertise)
	reportService := services.NewReportService(dealService, pdf.NewReportGenerator(cfg.Report.FontPath, cfg.Report.Title))

	// === Handlers ===
	dealHandler := handlers.NewDealHandler(dealService)
	reportHandler := handlers.NewReportHandler(reportService)
	expertiseHandler := handlers.NewExpertiseHandler(expertiseService)
	healthHandler := handlers.NewHealthHandler(store)

	// === Gin ===
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.HTTPLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(router, dealHandler, reportHandler, expertiseHandler, healthHandler)
	routes.SetupStatic(router, cfg.Server.StaticDir, cfg.Server.IndexFile)
	return router
}

func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{middleware.HeaderRequestID}
	return cors.New(corsConfig)
}
