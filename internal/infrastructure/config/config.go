package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Credits     CreditsConfig     `mapstructure:"credits"`
	Entitlement EntitlementConfig `mapstructure:"entitlement"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Storage     StorageConfig     `mapstructure:"storage"`
	RateLimit   RateLimitConfig   `mapstructure:"rateLimit"`
	Mockup      MockupConfig      `mapstructure:"mockup"`
	Webhooks    WebhooksConfig    `mapstructure:"webhooks"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	MaxBodyBytes      int64         `mapstructure:"maxBodyBytes"`
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host            string        `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database" validate:"required"` // file path or DSN for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns" validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts" validate:"min=0"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThreshold"` // milliseconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// AuthConfig controls how storefront requests are attributed to customers
type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwtSecret"`
	RequireToken bool   `mapstructure:"requireToken"`
}

// CreditPackConfig maps a storefront variant to a number of credits
type CreditPackConfig struct {
	VariantID string `mapstructure:"variantId" validate:"required"`
	Code      string `mapstructure:"code" validate:"required"`
	Credits   int64  `mapstructure:"credits" validate:"gt=0"`
}

// CreditsConfig holds pricing and the pack catalog
type CreditsConfig struct {
	StartingBalance       int64              `mapstructure:"startingBalance" validate:"min=0"`
	GenerateCost          int64              `mapstructure:"generateCost" validate:"gt=0"`
	BackgroundRemovalCost int64              `mapstructure:"backgroundRemovalCost" validate:"min=0"`
	PaidStatuses          []string           `mapstructure:"paidStatuses"`
	Packs                 []CreditPackConfig `mapstructure:"packs" validate:"dive"`
	HistoryLimit          int                `mapstructure:"historyLimit"`
}

// EntitlementConfig holds capability gates
type EntitlementConfig struct {
	BackgroundRemovalRequiresPurchase bool `mapstructure:"backgroundRemovalRequiresPurchase"`
}

// GenerationConfig tunes the generation flow
type GenerationConfig struct {
	ChargeRetryAttempts int           `mapstructure:"chargeRetryAttempts" validate:"min=1"`
	ChargeRetryDelay    time.Duration `mapstructure:"chargeRetryDelay"` // milliseconds
}

// OpenAIConfig configures the image generation provider
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"apiKey"`
	BaseURL string        `mapstructure:"baseUrl" validate:"omitempty,url"`
	Model   string        `mapstructure:"model"`
	Size    string        `mapstructure:"size"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds
}

// RemoveBgConfig configures the background removal provider
type RemoveBgConfig struct {
	APIKey  string        `mapstructure:"apiKey"`
	BaseURL string        `mapstructure:"baseUrl" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds
}

// PrintifyConfig configures the print-on-demand provider
type PrintifyConfig struct {
	APIToken        string        `mapstructure:"apiToken"`
	BaseURL         string        `mapstructure:"baseUrl" validate:"omitempty,url"`
	ShopID          string        `mapstructure:"shopId"`
	BlueprintID     int64         `mapstructure:"blueprintId"`
	PrintProviderID int64         `mapstructure:"printProviderId"`
	VariantID       int64         `mapstructure:"variantId"`
	ProductVariants []int64       `mapstructure:"productVariants"`
	ShippingMethod  int           `mapstructure:"shippingMethod"`
	Timeout         time.Duration `mapstructure:"timeout"` // seconds
}

// ProvidersConfig groups the external provider settings
type ProvidersConfig struct {
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	RemoveBg RemoveBgConfig `mapstructure:"removebg"`
	Printify PrintifyConfig `mapstructure:"printify"`
}

// StorageConfig configures the S3-compatible artwork bucket; empty bucket disables storage
type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey     string `mapstructure:"accessKey"`
	SecretKey     string `mapstructure:"secretKey"`
	PublicBaseURL string `mapstructure:"publicBaseUrl" validate:"omitempty,url"`
	UsePathStyle  bool   `mapstructure:"usePathStyle"`
}

// RateLimitConfig configures the redis token bucket; empty address disables limiting
type RateLimitConfig struct {
	RedisAddr     string  `mapstructure:"redisAddr"`
	RedisPassword string  `mapstructure:"redisPassword"`
	RedisDB       int     `mapstructure:"redisDb"`
	RatePerSecond float64 `mapstructure:"ratePerSecond" validate:"gte=0"`
	Burst         int     `mapstructure:"burst" validate:"gte=0"`
}

// MockupConfig configures the garment preview compositor
type MockupConfig struct {
	TemplatePath string `mapstructure:"templatePath"`
	Width        int    `mapstructure:"width" validate:"gte=0"`
	Height       int    `mapstructure:"height" validate:"gte=0"`
}

// WebhooksConfig holds the commerce webhook shared secret; empty disables signature checks
type WebhooksConfig struct {
	ShopifySecret string `mapstructure:"shopifySecret"`
}
