package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"homebase-go/pkg/logger"
)

type Config struct {
	HTTPPort       string        `envconfig:"HTTP_PORT" default:"8080"`
	Env            string        `envconfig:"ENV" default:"development"`
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"30s"`
	// ShutdownTimeout bounds how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	MetricsEnabled bool          `envconfig:"METRICS_ENABLED" default:"true"`

	DB         DBConfig
	Supabase   SupabaseConfig
	Categorize CategorizeConfig
	Notify     NotifyConfig
}

type DBConfig struct {
	DSN             string        `envconfig:"DB_DSN"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name            string        `envconfig:"DB_NAME" default:"homebase"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone        string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// SupabaseConfig describes the identity provider. When JWTSecret is set
// tokens are verified locally and the user endpoint is never called.
type SupabaseConfig struct {
	URL            string        `envconfig:"SUPABASE_URL"`
	PublishableKey string        `envconfig:"SUPABASE_PUBLISHABLE_KEY"`
	JWTSecret      string        `envconfig:"AUTH_JWT_SECRET"`
	AuthTimeout    time.Duration `envconfig:"AUTH_TIMEOUT" default:"5s"`
	SkipAuth       bool          `envconfig:"AUTH_SKIP" default:"false"`
	MockUserID     string        `envconfig:"AUTH_MOCK_USER_ID" default:"00000000-0000-0000-0000-000000000001"`
	MockUserEmail  string        `envconfig:"AUTH_MOCK_USER_EMAIL"`
	MockUserName   string        `envconfig:"AUTH_MOCK_USER_NAME"`
	MockUserAvatar string        `envconfig:"AUTH_MOCK_USER_AVATAR_URL"`
}

type CategorizeConfig struct {
	APIKey        string        `envconfig:"LLM_API_KEY"`
	Model         string        `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	BaseURL       string        `envconfig:"LLM_BASE_URL"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"10s"`
	MinConfidence float64       `envconfig:"SUGGESTION_MIN_CONFIDENCE" default:"0.3"`
	CacheTTL      time.Duration `envconfig:"SUGGESTION_CACHE_TTL" default:"1h"`
}

type NotifyConfig struct {
	AMQPURL    string `envconfig:"AMQP_URL"`
	Exchange   string `envconfig:"AMQP_EXCHANGE" default:"homebase"`
	RoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"invite.issued"`
}

// Load reads .env (if any) and then the process environment.
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %q: must be a number", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %d: must be between 1 and 65535", port))
	}

	if !c.Supabase.SkipAuth && c.Supabase.JWTSecret == "" && (c.Supabase.URL == "" || c.Supabase.PublishableKey == "") {
		problems = append(problems, "auth not configured: set AUTH_JWT_SECRET or SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY, or AUTH_SKIP=true")
	}

	if c.Supabase.SkipAuth && uuid.Validate(c.Supabase.MockUserID) != nil {
		problems = append(problems, fmt.Sprintf("AUTH_SKIP requires AUTH_MOCK_USER_ID to be a UUID, got %q", c.Supabase.MockUserID))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "HTTP_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Categorize.MinConfidence < 0 || c.Categorize.MinConfidence > 1 {
		problems = append(problems, "SUGGESTION_MIN_CONFIDENCE must be within [0,1]")
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
