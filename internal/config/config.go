package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	AppEnv    string `env:"APP_ENV, default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=pretty"`

	ServerPort         string        `env:"SERVER_PORT, default=8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT, default=15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT, default=30s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT, default=120s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT, default=30s"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS, default=10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS, default=1"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=168h"`

	CORSOrigins      []string `env:"CORS_ORIGINS, default=*"`
	RateLimitRPM     int      `env:"RATE_LIMIT_RPM, default=100"`
	AuthRateLimitRPM int      `env:"AUTH_RATE_LIMIT_RPM, default=10"`

	DefaultPlanID int64 `env:"DEFAULT_PLAN_ID, default=1"`
	MonthlyGoal   int   `env:"MONTHLY_GOAL, default=30"`

	UploadRoot          string `env:"UPLOAD_ROOT, default=./uploads"`
	MaxPhotoSize        int64  `env:"MAX_PHOTO_SIZE, default=10485760"`
	MaxProfilePhotoSize int64  `env:"MAX_PROFILE_PHOTO_SIZE, default=5242880"`
	StaticRoot          string `env:"STATIC_ROOT, default=./public"`
	DocsSpecPath        string `env:"DOCS_SPEC_PATH, default=./docs/openapi.yaml"`

	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	Carrier CarrierConfig
}

// CarrierConfig points at the upstream carrier portal proxied by
// /api/carrier/status. An empty BaseURL disables the proxy.
type CarrierConfig struct {
	BaseURL string        `env:"CARRIER_BASE_URL"`
	App     string        `env:"CARRIER_APP"`
	Token   string        `env:"CARRIER_TOKEN"`
	Timeout time.Duration `env:"CARRIER_TIMEOUT, default=15s"`
}

// Load reads .env (when present) and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	return LoadFrom(ctx, envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.Carrier.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Carrier.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent")
	}

	if c.RateLimitRPM <= 0 || c.AuthRateLimitRPM <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	if c.DefaultPlanID <= 0 {
		return fmt.Errorf("DEFAULT_PLAN_ID must be positive")
	}

	if c.MonthlyGoal <= 0 {
		return fmt.Errorf("MONTHLY_GOAL must be positive")
	}

	if c.MaxPhotoSize <= 0 || c.MaxProfilePhotoSize <= 0 {
		return fmt.Errorf("photo size limits must be positive")
	}

	if strings.TrimSpace(c.UploadRoot) == "" {
		return fmt.Errorf("UPLOAD_ROOT cannot be empty")
	}

	if c.Carrier.Timeout <= 0 {
		return fmt.Errorf("CARRIER_TIMEOUT must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
