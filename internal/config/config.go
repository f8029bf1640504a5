package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Kafka     KafkaConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	Register string
}

type CatalogConfig struct {
	Source string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type SessionConfig struct {
	IdleTTL        time.Duration
	SweepInterval  time.Duration
	RecentBills    int
	IdempotencyTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	Width     int
	AutoPrint bool
	Timeout   time.Duration
}

type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

type KafkaConfig struct {
	Brokers   []string
	BillTopic string
}

// Enabled reports whether bill events should be published
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads configuration from .env (when present) and the environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read .env: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "freshmart-pos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_REGISTER", "till-1")
	v.SetDefault("CATALOG_SOURCE", CatalogStatic)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "freshmart")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("SESSION_TOKEN_TTL_HOURS", 12)
	v.SetDefault("SESSION_IDLE_TTL_MINUTES", 30)
	v.SetDefault("SESSION_SWEEP_INTERVAL_SECONDS", 60)
	v.SetDefault("SESSION_RECENT_BILLS", 20)
	v.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("PRINTER_AUTO_PRINT", false)
	v.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	v.SetDefault("STORE_NAME", "Grocery Store")
	v.SetDefault("STORE_ADDRESS", "123 Main Street, City, State 12345")
	v.SetDefault("STORE_PHONE", "Phone: (555) 123-4567")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_BILLS_TOPIC", "pos.bills.finalized")
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			Debug:    v.GetBool("APP_DEBUG"),
			Register: v.GetString("APP_REGISTER"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(v.GetString("CATALOG_SOURCE")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("SESSION_TOKEN_TTL_HOURS")) * time.Hour,
		},
		Session: SessionConfig{
			IdleTTL:        time.Duration(v.GetInt("SESSION_IDLE_TTL_MINUTES")) * time.Minute,
			SweepInterval:  time.Duration(v.GetInt("SESSION_SWEEP_INTERVAL_SECONDS")) * time.Second,
			RecentBills:    v.GetInt("SESSION_RECENT_BILLS"),
			IdempotencyTTL: time.Duration(v.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath:   v.GetString("PRINTER_USB_PATH"),
			Address:   v.GetString("PRINTER_ADDRESS"),
			Width:     v.GetInt("PRINTER_WIDTH"),
			AutoPrint: v.GetBool("PRINTER_AUTO_PRINT"),
			Timeout:   time.Duration(v.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
		},
		Kafka: KafkaConfig{
			Brokers:   splitList(v.GetString("KAFKA_BROKERS")),
			BillTopic: v.GetString("KAFKA_BILLS_TOPIC"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogStatic, CatalogPostgres:
	default:
		return fmt.Errorf("config: CATALOG_SOURCE must be %q or %q, got %q", CatalogStatic, CatalogPostgres, c.Catalog.Source)
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("config: SESSION_IDLE_TTL_MINUTES must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("config: SESSION_SWEEP_INTERVAL_SECONDS must be positive")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("config: SESSION_TOKEN_TTL_HOURS must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Duration <= 0 {
		return errors.New("config: RATE_LIMIT_REQUESTS and RATE_LIMIT_DURATION must be positive")
	}
	if c.Kafka.Enabled() && c.Kafka.BillTopic == "" {
		return errors.New("config: KAFKA_BILLS_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
