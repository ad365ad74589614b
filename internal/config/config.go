/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the pledge-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort                   string `mapstructure:"SERVER_PORT"`
	DatabaseURL                  string `mapstructure:"DATABASE_URL"`
	RedisURL                     string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix         string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL                  string `mapstructure:"RABBITMQ_URL"`
	PledgeEventQueue             string `mapstructure:"PLEDGE_EVENT_QUEUE"`
	PaymentAPIBaseURL            string `mapstructure:"PAYMENT_API_BASE_URL"`
	PaymentAPIKey                string `mapstructure:"PAYMENT_API_KEY"`
	PaymentWebhookSecret         string `mapstructure:"PAYMENT_WEBHOOK_SECRET"`
	ClerkJWKSURL                 string `mapstructure:"CLERK_JWKS_URL"`
	AccountServiceURL            string `mapstructure:"ACCOUNT_SERVICE_URL"`
	AccountServiceInternalAPIKey string `mapstructure:"ACCOUNT_SERVICE_INTERNAL_API_KEY"`
	InternalAPIKey               string `mapstructure:"INTERNAL_API_KEY"`
	DisputeWindowDays            int    `mapstructure:"DISPUTE_WINDOW_DAYS"`
	PlatformFeeThousands         int    `mapstructure:"PLATFORM_FEE_THOUSANDS"`
	PayoutJobSchedule            string `mapstructure:"PAYOUT_JOB_SCHEDULE"`
	PayoutJobTimeoutSeconds      int    `mapstructure:"PAYOUT_JOB_TIMEOUT_SECONDS"`
	WebhookRateLimitPerMinute    int    `mapstructure:"WEBHOOK_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PLEDGE_EVENT_QUEUE", "pledge_service.pledge_updates")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "issuepay:rate_limit")
	viper.SetDefault("DISPUTE_WINDOW_DAYS", 7)
	viper.SetDefault("PLATFORM_FEE_THOUSANDS", 0)
	viper.SetDefault("PAYOUT_JOB_SCHEDULE", "0 * * * *")
	viper.SetDefault("PAYOUT_JOB_TIMEOUT_SECONDS", 300)
	viper.SetDefault("WEBHOOK_RATE_LIMIT_PER_MINUTE", 120)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL", "REDIS_URL", "PLEDGE_REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("PLEDGE_EVENT_QUEUE")
	_ = viper.BindEnv("PAYMENT_API_BASE_URL")
	_ = viper.BindEnv("PAYMENT_API_KEY")
	_ = viper.BindEnv("PAYMENT_WEBHOOK_SECRET")
	_ = viper.BindEnv("CLERK_JWKS_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_INTERNAL_API_KEY")
	_ = viper.BindEnv("INTERNAL_API_KEY", "INTERNAL_API_KEY", "PLEDGE_SERVICE_INTERNAL_API_KEY")
	_ = viper.BindEnv("DISPUTE_WINDOW_DAYS")
	_ = viper.BindEnv("PLATFORM_FEE_THOUSANDS")
	_ = viper.BindEnv("PAYOUT_JOB_SCHEDULE")
	_ = viper.BindEnv("PAYOUT_JOB_TIMEOUT_SECONDS")
	_ = viper.BindEnv("WEBHOOK_RATE_LIMIT_PER_MINUTE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	if strings.TrimSpace(config.InternalAPIKey) == "" {
		config.InternalAPIKey = strings.TrimSpace(os.Getenv("PLEDGE_SERVICE_INTERNAL_API_KEY"))
	}
	config.AccountServiceInternalAPIKey = strings.TrimSpace(config.AccountServiceInternalAPIKey)
	if config.AccountServiceInternalAPIKey == "" {
		config.AccountServiceInternalAPIKey = config.InternalAPIKey
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "issuepay:rate_limit"
	}

	if config.DisputeWindowDays <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive dispute window configured; using default\" days=%d", config.DisputeWindowDays)
		config.DisputeWindowDays = 7
	}
	if config.PlatformFeeThousands < 0 {
		log.Printf("level=warn component=config msg=\"negative platform fee configured; coercing to zero\" fee_thousands=%d", config.PlatformFeeThousands)
		config.PlatformFeeThousands = 0
	}
	if config.PlatformFeeThousands > 1000 {
		log.Printf("level=warn component=config msg=\"platform fee too high; capping at 1000\" fee_thousands=%d", config.PlatformFeeThousands)
		config.PlatformFeeThousands = 1000
	}
	if strings.TrimSpace(config.PayoutJobSchedule) == "" {
		config.PayoutJobSchedule = "0 * * * *"
	}
	if config.PayoutJobTimeoutSeconds <= 0 {
		config.PayoutJobTimeoutSeconds = 300
	}
	if config.WebhookRateLimitPerMinute <= 0 {
		config.WebhookRateLimitPerMinute = 120
	}

	return
}
