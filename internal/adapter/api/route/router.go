package route

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controllers agrupa os controllers expostos pela API
type Controllers struct {
	Auth     *controller.AuthController
	Catalog  *controller.CatalogController
	Customer *controller.CustomerController
	Till     *controller.TillController
	Sale     *controller.SaleController
}

// Options configura o roteador
type Options struct {
	JWTService     *auth.JWTService
	AllowedOrigins []string
	Logger         logger.Logger
	HealthCheck    func(*gin.Context) error // Opcional; verifica o armazenamento
	EnableSwagger  bool
}

// requestLogger registra método, rota, status e duração de cada requisição
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("requisição",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter monta o roteador com todas as rotas sob /api/v1
func NewRouter(c Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(opts.Logger))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api/v1")

	// Health check
	api.GET("/health", func(ctx *gin.Context) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(ctx); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	SetupAuthRoutes(api, c.Auth, opts.JWTService)

	// Demais rotas exigem token
	protected := api.Group("")
	protected.Use(auth.JWTAuthMiddleware(opts.JWTService))

	SetupUserRoutes(protected, c.Auth)
	RegisterCatalogRoutes(protected, c.Catalog)
	RegisterCustomerRoutes(protected, c.Customer)
	RegisterTillRoutes(protected, c.Till)
	RegisterSaleRoutes(protected, c.Sale)

	return router
}
