package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "github.com/example/gourmet/docs"
	"github.com/example/gourmet/pkg/cart"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the domain operations the HTTP layer exposes.
type Services struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Menu   *service.MenuService
	Orders *service.OrderService
	Carts  cart.Store
	Health map[string]Pinger
}

type Gateway struct {
	config   *config.Config
	services Services
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

func NewGateway(cfg *config.Config, logger *zap.Logger, services Services) *Gateway {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	registerValidatorTags()

	logger = logger.Named("gateway")
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(corsMiddleware(cfg.Server.CORSOrigin))

	g := &Gateway{
		config:   cfg,
		services: services,
		logger:   logger,
		router:   router,
	}
	g.SetupRoutes()
	return g
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", g.health)

	api := g.router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", g.register)
			authGroup.POST("/login", g.login)
		}

		menu := api.Group("/menu")
		{
			menu.GET("", g.listMenu)
			menu.GET("/:id", g.getMenuItem)
		}

		protected := api.Group("")
		protected.Use(g.authRequired())
		{
			users := protected.Group("/users")
			{
				users.GET("/me", g.getProfile)
				users.PUT("/me", g.updateProfile)
			}

			orders := protected.Group("/orders")
			{
				orders.POST("", g.createOrder)
				orders.GET("", g.listOrders)
				orders.GET("/:id", g.getOrder)
			}

			if g.services.Carts != nil {
				carts := protected.Group("/cart")
				{
					carts.GET("", g.getCart)
					carts.DELETE("", g.clearCart)
					carts.POST("/items", g.addCartItem)
					carts.PUT("/items/:id", g.updateCartItem)
					carts.DELETE("/items/:id", g.removeCartItem)
				}
			}
		}
	}

	g.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Handler exposes the router, mainly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.Server.Addr()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

// health godoc
// @Summary  Liveness and dependency check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Failure  503  {object}  map[string]interface{}
// @Router   /health [get]
func (g *Gateway) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, dep := range g.services.Health {
		if err := dep.Ping(ctx); err != nil {
			g.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
