package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Config reúne as configurações da aplicação lidas do ambiente
type Config struct {
	Port   string `env:"PORT"    envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Vazio usa o armazenamento em memória
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxConnections  int32         `env:"DB_MAX_CONNECTIONS"   envDefault:"10"`
	DBMinConnections  int32         `env:"DB_MIN_CONNECTIONS"   envDefault:"2"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	RunMigrations     bool          `env:"RUN_MIGRATIONS"       envDefault:"false"`

	JWTSecretKey  string        `env:"JWT_SECRET_KEY"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`

	BusinessTimezone string          `env:"BUSINESS_TIMEZONE" envDefault:"America/Lima"`
	Currency         string          `env:"CURRENCY"          envDefault:"PEN"`
	TaxRate          decimal.Decimal `env:"TAX_RATE"          envDefault:"0.18"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogDebug           bool     `env:"LOG_DEBUG"            envDefault:"false"`

	location *time.Location
}

// Load lê a configuração das variáveis de ambiente do processo
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY é obrigatória"))
	}
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("BUSINESS_TIMEZONE inválido: %w", err))
	}
	c.location = loc
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if gomoney.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("CURRENCY %q desconhecida", c.Currency))
	}
	if c.TaxRate.IsNegative() {
		errs = append(errs, errors.New("TAX_RATE não pode ser negativa"))
	}
	if c.DBMinConnections > c.DBMaxConnections {
		errs = append(errs, errors.New("DB_MIN_CONNECTIONS maior que DB_MAX_CONNECTIONS"))
	}
	return errors.Join(errs...)
}

// Location retorna o fuso horário do negócio
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// UsesDatabase indica se o PostgreSQL está configurado
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}
