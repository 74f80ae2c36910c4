package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Shared token for service-to-service endpoints.
	InternalAPIToken string `mapstructure:"INTERNAL_API_TOKEN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisNotifyQueue int    `mapstructure:"REDIS_NOTIFY_QUEUE_DB"`

	// Payment gateway.
	GatewayBaseURL  string `mapstructure:"GATEWAY_BASE_URL"`
	GatewaySecret   string `mapstructure:"GATEWAY_SECRET"`
	WebhookSecret   string `mapstructure:"WEBHOOK_SECRET"`
	PaymentCallback string `mapstructure:"PAYMENT_CALLBACK_URL"`

	// Booking policy.
	DefaultCommissionRate float64       `mapstructure:"DEFAULT_COMMISSION_RATE"` // percent
	SameDayCutoffHour     int           `mapstructure:"SAME_DAY_CUTOFF_HOUR"`
	PendingMaxAge         time.Duration `mapstructure:"PENDING_MAX_AGE"`
	PaymentLinkTTL        time.Duration `mapstructure:"PAYMENT_LINK_TTL"`

	// Sweep cadences.
	ExpirySweepInterval time.Duration `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
	CompletionSweepHour int           `mapstructure:"COMPLETION_SWEEP_HOUR"`
}

var AppConfig Config

// LoadConfig initializes Viper to load config values from env, file, or defaults.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_NOTIFY_QUEUE_DB", 1)
	viper.SetDefault("GATEWAY_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("PAYMENT_CALLBACK_URL", "http://localhost:8080/api/payments/verify")
	viper.SetDefault("DEFAULT_COMMISSION_RATE", 5.0)
	viper.SetDefault("SAME_DAY_CUTOFF_HOUR", 14)
	viper.SetDefault("PENDING_MAX_AGE", 30*time.Minute)
	viper.SetDefault("PAYMENT_LINK_TTL", 30*time.Minute)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", 5*time.Minute)
	viper.SetDefault("COMPLETION_SWEEP_HOUR", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// GetEnv returns the application environment.
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return GetEnv() == "production"
}
