package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MC"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration from configs/<env>.yaml, applying .env and MC_* overrides
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return decode(v, env)
}

// decode applies env overrides, unmarshals and validates
func decode(v *viper.Viper, env string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	processDurations(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct tags and cross-field rules
func Validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(config.Credits.Packs))
	for _, pack := range config.Credits.Packs {
		if _, dup := seen[pack.VariantID]; dup {
			return fmt.Errorf("invalid configuration: duplicate credit pack variant %s", pack.VariantID)
		}
		seen[pack.VariantID] = struct{}{}
	}

	if config.Auth.RequireToken && config.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid configuration: auth.requireToken needs auth.jwtSecret")
	}
	return nil
}

// loadDotEnvFile loads the first .env file found in the search paths
func loadDotEnvFile() error {
	var lastError error
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 120)     // seconds, image generation is slow
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 15)   // seconds
	v.SetDefault("server.maxBodyBytes", 15<<20)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)      // seconds
	v.SetDefault("database.slowThreshold", 200) // milliseconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("credits.startingBalance", 0)
	v.SetDefault("credits.generateCost", 1)
	v.SetDefault("credits.backgroundRemovalCost", 2)
	v.SetDefault("credits.paidStatuses", []string{"paid", "completed"})
	v.SetDefault("credits.historyLimit", 20)

	v.SetDefault("entitlement.backgroundRemovalRequiresPurchase", false)

	v.SetDefault("generation.chargeRetryAttempts", 3)
	v.SetDefault("generation.chargeRetryDelay", 200) // milliseconds

	v.SetDefault("providers.openai.baseUrl", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.model", "gpt-image-1")
	v.SetDefault("providers.openai.size", "1024x1024")
	v.SetDefault("providers.openai.timeout", 90) // seconds
	v.SetDefault("providers.removebg.baseUrl", "https://api.remove.bg/v1.0")
	v.SetDefault("providers.removebg.timeout", 30) // seconds
	v.SetDefault("providers.printify.baseUrl", "https://api.printify.com/v1")
	v.SetDefault("providers.printify.blueprintId", 706)
	v.SetDefault("providers.printify.printProviderId", 99)
	v.SetDefault("providers.printify.variantId", 79153)
	v.SetDefault("providers.printify.shippingMethod", 1)
	v.SetDefault("providers.printify.timeout", 30) // seconds

	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("rateLimit.ratePerSecond", 0.2)
	v.SetDefault("rateLimit.burst", 5)

	v.SetDefault("mockup.width", 1000)
	v.SetDefault("mockup.height", 1200)
}

// getEnvironment determines the environment from MC_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures secrets and deployment settings from the environment win over the file
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"MC_DB_DRIVER":              "database.driver",
		"MC_DB_HOST":                "database.host",
		"MC_DB_PORT":                "database.port",
		"MC_DB_USERNAME":            "database.username",
		"MC_DB_PASSWORD":            "database.password",
		"MC_DB_NAME":                "database.database",
		"MC_DB_SSL_MODE":            "database.sslMode",
		"MC_SERVER_HOST":            "server.host",
		"MC_LOGGER_LEVEL":           "logger.level",
		"MC_AUTH_JWT_SECRET":        "auth.jwtSecret",
		"MC_OPENAI_API_KEY":         "providers.openai.apiKey",
		"MC_REMOVEBG_API_KEY":       "providers.removebg.apiKey",
		"MC_PRINTIFY_API_TOKEN":     "providers.printify.apiToken",
		"MC_PRINTIFY_SHOP_ID":       "providers.printify.shopId",
		"MC_S3_BUCKET":              "storage.bucket",
		"MC_S3_ENDPOINT":            "storage.endpoint",
		"MC_S3_ACCESS_KEY":          "storage.accessKey",
		"MC_S3_SECRET_KEY":          "storage.secretKey",
		"MC_REDIS_ADDR":             "rateLimit.redisAddr",
		"MC_REDIS_PASSWORD":         "rateLimit.redisPassword",
		"MC_SHOPIFY_WEBHOOK_SECRET": "webhooks.shopifySecret",
	}
	for env, key := range stringOverrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	if port := getEnvInt("MC_SERVER_PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if maxOpenConns := getEnvInt("MC_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if startingBalance := getEnvInt("MC_CREDITS_STARTING_BALANCE", -1); startingBalance >= 0 {
		v.Set("credits.startingBalance", startingBalance)
	}
	if requireToken := os.Getenv("MC_AUTH_REQUIRE_TOKEN"); requireToken != "" {
		if parsed, err := strconv.ParseBool(requireToken); err == nil {
			v.Set("auth.requireToken", parsed)
		}
	}
}

// getEnvInt reads an integer environment variable
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts raw numeric durations to their units
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.RetryDelay *= time.Second
	config.Database.SlowThreshold *= time.Millisecond

	config.Generation.ChargeRetryDelay *= time.Millisecond

	config.Providers.OpenAI.Timeout *= time.Second
	config.Providers.RemoveBg.Timeout *= time.Second
	config.Providers.Printify.Timeout *= time.Second
}
