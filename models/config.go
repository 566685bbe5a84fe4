package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`

	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Geo         GeoConfig         `mapstructure:"geo"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
	Negotiation NegotiationConfig `mapstructure:"negotiation"`
	Request     RequestConfig     `mapstructure:"request"`
	Worker      WorkerSettings    `mapstructure:"worker"`
}

// RedisConfig configures the geo cache and the worker lock
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig configures the domain event producer
type KafkaConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

// GeoConfig configures the Nominatim geocoder and the OSRM router
type GeoConfig struct {
	NominatimURL string        `mapstructure:"nominatim_url"`
	OSRMURL      string        `mapstructure:"osrm_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	RouteTTL     time.Duration `mapstructure:"route_ttl"`
}

// PricingConfig is the tariff table injected into the quote calculator. Amounts are VND.
type PricingConfig struct {
	PricePerKm         int64            `mapstructure:"price_per_km"`
	LaborRatePerWorker int64            `mapstructure:"labor_rate_per_worker"`
	DefaultWorkers     int              `mapstructure:"default_workers"`
	PackingFees        map[string]int64 `mapstructure:"packing_fees"`
	PerFloorFee        int64            `mapstructure:"per_floor_fee"`
	ExpressMultiplier  float64          `mapstructure:"express_multiplier"`
	FallbackSpeedKmh   float64          `mapstructure:"fallback_speed_kmh"`
	VehicleRatesPerKm  map[string]int64 `mapstructure:"vehicle_rates_per_km"`
	ExtraServiceFees   map[string]int64 `mapstructure:"extra_service_fees"`
	MonthlyExtras      []string         `mapstructure:"monthly_extras"`
	TierPerFloorFee    int64            `mapstructure:"tier_per_floor_fee"`
	DefaultStrategy    string           `mapstructure:"default_strategy"`
}

// NegotiationConfig controls the quote negotiation rules
type NegotiationConfig struct {
	RequirePositivePrice bool `mapstructure:"require_positive_price"`
	MaxCASRetries        int  `mapstructure:"max_cas_retries"`
}

// RequestConfig controls move request validation
type RequestConfig struct {
	Timezone      string `mapstructure:"timezone"`
	MaxImages     int    `mapstructure:"max_images"`
	MaxImageChars int    `mapstructure:"max_image_chars"`
	CutoffHour    int    `mapstructure:"cutoff_hour"`
}

// WorkerSettings controls the background worker
type WorkerSettings struct {
	Enabled         bool          `mapstructure:"enabled"`
	ExpirySchedule  string        `mapstructure:"expiry_schedule"`
	QuoteTTL        time.Duration `mapstructure:"quote_ttl"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
	LockFilePath    string        `mapstructure:"lock_file_path"`
	BootstrapTables bool          `mapstructure:"bootstrap_tables"`
}
