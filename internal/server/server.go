package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/api"
	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/router"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// NewServer wires services and handlers onto a router. The redis client
// and image storage may be nil; rate limiting and uploads degrade
// accordingly.
func NewServer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, images service.ImageStorage) *Server {
	store := storage.New(db)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db, images)
	ingredientService := service.NewIngredientService(db)
	recipeService := service.NewRecipeService(db, images)
	shoppingListService := service.NewShoppingListService(store)
	shortLinkService := service.NewShortLinkService(store, cfg.BaseURL)

	recipeHandler := api.NewRecipeHandler(recipeService, shoppingListService, shortLinkService, authService)
	if redisClient != nil {
		recipeHandler.WithRateLimiters(
			middleware.NewRecipeCreationRateLimiter(redisClient),
			middleware.NewRecipeModificationRateLimiter(redisClient),
		)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService),
		api.NewIngredientHandler(ingredientService),
		recipeHandler,
		api.NewShortLinkHandler(shortLinkService),
		cfg.AllowedOrigins,
	)

	return &Server{
		router: engine,
		db:     db,
	}
}

// Start runs the server and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
