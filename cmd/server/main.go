// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/api"
	"github.com/jpcardenas/heladeria-pos/internal/cache"
	"github.com/jpcardenas/heladeria-pos/internal/config"
	"github.com/jpcardenas/heladeria-pos/internal/repository/postgres"
	"github.com/jpcardenas/heladeria-pos/internal/service"
	"github.com/jpcardenas/heladeria-pos/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dashCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		dashCache = cache.NewNoopDashboardCache()
	}

	ingredientRepo := postgres.NewIngredientRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	productRepo := postgres.NewProductRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	additionRepo := postgres.NewAdditionRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	userRepo := postgres.NewUserRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	stockService := service.NewStockService(ingredientRepo, recipeRepo, productRepo)
	services := &api.Services{
		Auth:       service.NewAuthService(userRepo, cfg.Auth),
		Ingredient: service.NewIngredientService(ingredientRepo, recipeRepo),
		Recipe:     service.NewRecipeService(recipeRepo, ingredientRepo, productRepo),
		Product:    service.NewProductService(productRepo, categoryRepo),
		Addition:   service.NewAdditionService(additionRepo),
		Stock:      stockService,
		Sale:       service.NewSaleService(saleRepo, productRepo, recipeRepo, ingredientRepo, dashCache),
		Dashboard:  service.NewDashboardService(statsRepo, ingredientRepo, stockService, dashCache),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
