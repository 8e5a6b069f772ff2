package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chatorder/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the ordering service.
type Config struct {
	AppPort string

	DBDriver    string
	DatabaseDSN string

	RabbitMQURL string

	PaystackSecretKey string
	PaystackBaseURL   string
	PaystackCurrency  string
	PaystackTimeout   time.Duration
	GuestEmailDomain  string

	SessionTTL time.Duration

	JWTSecret     string
	StaffUsername string
	StaffPassword string

	// Menu replaces the built-in catalog when non-empty.
	Menu []models.MenuItem
}

// New returns a Viper instance with defaults, environment binding and the
// optional config.yaml search path set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "orders.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PAYSTACK_SECRET_KEY", "")
	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	v.SetDefault("PAYSTACK_CURRENCY", "NGN")
	v.SetDefault("PAYSTACK_TIMEOUT", "15s")
	v.SetDefault("GUEST_EMAIL_DOMAIN", "niyisrestaurant.com")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("STAFF_USERNAME", "")
	v.SetDefault("STAFF_PASSWORD", "")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return v
}

// Load reads the optional config file and decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		PaystackSecretKey: v.GetString("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   v.GetString("PAYSTACK_BASE_URL"),
		PaystackCurrency:  v.GetString("PAYSTACK_CURRENCY"),
		PaystackTimeout:   v.GetDuration("PAYSTACK_TIMEOUT"),
		GuestEmailDomain:  v.GetString("GUEST_EMAIL_DOMAIN"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		StaffUsername:     v.GetString("STAFF_USERNAME"),
		StaffPassword:     v.GetString("STAFF_PASSWORD"),
	}

	if err := v.UnmarshalKey("menu", &cfg.Menu); err != nil {
		return nil, fmt.Errorf("failed to decode menu: %w", err)
	}
	if err := validateMenu(cfg.Menu); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("SESSION_TTL must not be negative")
	}
	return cfg, nil
}

func validateMenu(items []models.MenuItem) error {
	validate := validator.New()
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				e := verrs[0]
				return fmt.Errorf("menu item %d: field '%s' failed on the '%s' tag", i, e.Field(), e.Tag())
			}
			return fmt.Errorf("menu item %d: %w", i, err)
		}
	}
	return nil
}
