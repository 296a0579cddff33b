// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/api/handlers"
	"github.com/jpcardenas/heladeria-pos/internal/api/middleware"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type Services struct {
	Auth       *service.AuthService
	Ingredient *service.IngredientService
	Recipe     *service.RecipeService
	Product    *service.ProductService
	Addition   *service.AdditionService
	Stock      *service.StockService
	Sale       *service.SaleService
	Dashboard  *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(services.Auth)
	apiGroup.POST("/auth/login", authHandler.Login)

	// Everything past login requires a bearer token.
	authed := apiGroup.Group("", middleware.RequireAuth(services.Auth))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/users", authHandler.CreateUser)
		authed.GET("/users", authHandler.ListUsers)
		authed.GET("/roles", authHandler.ListRoles)

		ingredientHandler := handlers.NewIngredientHandler(services.Ingredient)
		ingredientGroup := authed.Group("/ingredients")
		{
			ingredientGroup.POST("", ingredientHandler.Create)
			ingredientGroup.GET("", ingredientHandler.List)
			ingredientGroup.GET("/:id", ingredientHandler.Get)
			ingredientGroup.PUT("/:id", ingredientHandler.Update)
			ingredientGroup.DELETE("/:id", ingredientHandler.Delete)
			ingredientGroup.POST("/:id/restock", ingredientHandler.Restock)
		}

		productHandler := handlers.NewProductHandler(services.Product, services.Recipe)
		productGroup := authed.Group("/products")
		{
			productGroup.POST("", productHandler.Create)
			productGroup.GET("", productHandler.List)
			productGroup.GET("/:id", productHandler.Get)
			productGroup.PUT("/:id", productHandler.Update)
			productGroup.DELETE("/:id", productHandler.Deactivate)
			productGroup.GET("/:id/recipe", productHandler.GetRecipe)
			productGroup.PUT("/:id/recipe", productHandler.SetRecipe)
		}

		authed.POST("/categories", productHandler.CreateCategory)
		authed.GET("/categories", productHandler.ListCategories)
		authed.DELETE("/categories/:id", productHandler.DeleteCategory)

		additionHandler := handlers.NewAdditionHandler(services.Addition)
		additionGroup := authed.Group("/additions")
		{
			additionGroup.POST("", additionHandler.Create)
			additionGroup.GET("", additionHandler.List)
			additionGroup.GET("/:id", additionHandler.Get)
			additionGroup.PUT("/:id", additionHandler.Update)
			additionGroup.DELETE("/:id", additionHandler.Delete)
		}

		stockHandler := handlers.NewStockHandler(services.Stock, services.Dashboard)
		stockGroup := authed.Group("/stock")
		{
			stockGroup.GET("/levels", stockHandler.GetLevels)
			stockGroup.GET("/products/:id", stockHandler.GetProductDetail)
			stockGroup.GET("/summary", stockHandler.GetSummary)
		}

		saleHandler := handlers.NewSaleHandler(services.Sale)
		saleGroup := authed.Group("/sales")
		{
			saleGroup.POST("/validate", saleHandler.Validate)
			saleGroup.POST("", saleHandler.Commit)
			saleGroup.GET("", saleHandler.List)
			saleGroup.GET("/:number", saleHandler.Get)
			saleGroup.POST("/:number/cancel", saleHandler.Cancel)
		}

		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		dashboardGroup := authed.Group("/dashboard")
		{
			dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
			dashboardGroup.GET("/top_products", dashboardHandler.GetTopProducts)
			dashboardGroup.GET("/payments", dashboardHandler.GetPaymentBreakdown)
			dashboardGroup.GET("/daily_revenue", dashboardHandler.GetDailyRevenue)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
