package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/hugohenrick/erp-ceramica/docs"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/route"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/repository"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ceramica/internal/config"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/internal/domain/transaction"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// repositories reúne as implementações de armazenamento escolhidas na inicialização
type repositories struct {
	tx         transaction.Manager
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	customers  customer.Repository
	tills      till.Repository
	sales      sale.Repository
	users      user.Repository
	health     func(*gin.Context) error
}

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	db     *database.PostgresDB
	router *gin.Engine
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{cfg: cfg, logger: log}
	repos, err := app.setupStorage(ctx)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecretKey, cfg.JWTExpiration)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Serviços
	authService := service.NewAuthService(repos.users, jwtService, log)
	customerService := service.NewCustomerService(repos.customers)
	tillService := service.NewTillService(repos.tills, repos.tx, cfg.Location(), log)
	catalogService := service.NewCatalogService(repos.categories, repos.products, repos.tx, log)
	saleService := service.NewSaleService(
		repos.sales,
		repos.products,
		repos.tills,
		customerService,
		repos.tx,
		service.ReceiptSettings{Currency: cfg.Currency, TaxRate: cfg.TaxRate},
		log,
	)

	authService.Bootstrap(ctx, cfg.AdminUsername, cfg.AdminPassword)

	app.router = route.NewRouter(route.Controllers{
		Auth:     controller.NewAuthController(authService, log),
		Catalog:  controller.NewCatalogController(catalogService, log),
		Customer: controller.NewCustomerController(customerService, log),
		Till:     controller.NewTillController(tillService, log),
		Sale:     controller.NewSaleController(saleService, log),
	}, route.Options{
		JWTService:     jwtService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
		HealthCheck:    repos.health,
		EnableSwagger:  !cfg.IsProduction(),
	})

	return app, nil
}

// setupStorage escolhe PostgreSQL quando DATABASE_URL existe e memória caso contrário
func (a *App) setupStorage(ctx context.Context) (*repositories, error) {
	if !a.cfg.UsesDatabase() {
		a.logger.Warn("DATABASE_URL não configurada, usando armazenamento em memória")
		store := memory.NewStore()
		return &repositories{
			tx:         store,
			categories: store.Categories(),
			products:   store.Products(),
			customers:  store.Customers(),
			tills:      store.Tills(),
			sales:      store.Sales(),
			users:      store.Users(),
		}, nil
	}

	if a.cfg.RunMigrations {
		if err := database.RunMigrations(a.cfg.DatabaseURL, a.logger); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresDB(ctx, database.PostgresConfig{
		URL:             a.cfg.DatabaseURL,
		MaxConnections:  a.cfg.DBMaxConnections,
		MinConnections:  a.cfg.DBMinConnections,
		MaxConnLifetime: a.cfg.DBMaxConnLifetime,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.logger.Info("conectado ao PostgreSQL")

	return &repositories{
		tx:         db,
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
		customers:  repository.NewCustomerRepository(db),
		tills:      repository.NewTillRepository(db),
		sales:      repository.NewSaleRepository(db),
		users:      repository.NewUserRepository(db),
		health: func(c *gin.Context) error {
			return db.Ping(c.Request.Context())
		},
	}, nil
}

// Run inicia o servidor HTTP e o encerra quando ctx é cancelado
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor iniciado", "port", a.cfg.Port, "env", a.cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("erro ao iniciar servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro ao encerrar servidor: %w", err)
	}
	return nil
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
