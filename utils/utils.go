package utils

import (
	"encoding/json"
	"fmt"
	"movehub-backend/models"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../configs")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	if v.IsSet("app") {
		flattenNestedConfig(v)
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v.IsSet("jwt.expires_in") {
		expiresStr := v.GetString("jwt.expires_in")
		if expiresStr != "" {
			expires, err := time.ParseDuration(expiresStr)
			if err != nil {
				return nil, fmt.Errorf("invalid JWT expires_in format: %w", err)
			}
			config.JWTExpiresIn = expires
		}
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "MoveHub Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	v.SetDefault("jwt_secret", "your-super-secret-jwt-key-change-this-in-production")
	v.SetDefault("jwt_expires_in", 12*time.Hour)

	v.SetDefault("aws_region", "ap-southeast-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("basePath", "/api")
	v.SetDefault("tables", []string{"requests", "quotes", "contracts"})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "movehub.events")
	v.SetDefault("kafka.client_id", "movehub-backend")

	v.SetDefault("geo.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geo.osrm_url", "https://router.project-osrm.org")
	v.SetDefault("geo.user_agent", "movehub-backend/1.0")
	v.SetDefault("geo.timeout", 8*time.Second)
	v.SetDefault("geo.cache_ttl", 24*time.Hour)
	v.SetDefault("geo.route_ttl", 60*time.Minute)

	v.SetDefault("pricing.price_per_km", 10000)
	v.SetDefault("pricing.labor_rate_per_worker", 100000)
	v.SetDefault("pricing.default_workers", 2)
	v.SetDefault("pricing.packing_fees", map[string]int64{
		"self_pack":     0,
		"standard_pack": 200000,
		"premium_pack":  400000,
	})
	v.SetDefault("pricing.per_floor_fee", 10000)
	v.SetDefault("pricing.express_multiplier", 1.5)
	v.SetDefault("pricing.fallback_speed_kmh", 40)
	v.SetDefault("pricing.vehicle_rates_per_km", map[string]int64{
		"van":      8000,
		"truck_1t": 12000,
		"truck_2t": 16000,
		"truck_5t": 25000,
	})
	v.SetDefault("pricing.extra_service_fees", map[string]int64{
		"packing":     200000,
		"disassembly": 150000,
		"cleaning":    100000,
		"storage":     500000,
	})
	v.SetDefault("pricing.monthly_extras", []string{"storage"})
	v.SetDefault("pricing.tier_per_floor_fee", 20000)
	v.SetDefault("pricing.default_strategy", "flat")

	v.SetDefault("negotiation.require_positive_price", true)
	v.SetDefault("negotiation.max_cas_retries", 3)

	v.SetDefault("request.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("request.max_images", 4)
	v.SetDefault("request.max_image_chars", 2000000)
	v.SetDefault("request.cutoff_hour", 12)

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.expiry_schedule", "0 */15 * * * *")
	v.SetDefault("worker.quote_ttl", 7*24*time.Hour)
	v.SetDefault("worker.lock_ttl", 5*time.Minute)
	v.SetDefault("worker.lock_file_path", "/tmp/movehub-worker.lock")
	v.SetDefault("worker.bootstrap_tables", true)
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == "your-super-secret-jwt-key-change-this-in-production" && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if c.Pricing.PricePerKm < 0 || c.Pricing.LaborRatePerWorker < 0 || c.Pricing.PerFloorFee < 0 {
		return fmt.Errorf("pricing rates cannot be negative")
	}

	if c.Pricing.ExpressMultiplier < 1 {
		return fmt.Errorf("pricing.express_multiplier must be at least 1")
	}

	if c.Pricing.FallbackSpeedKmh <= 0 {
		return fmt.Errorf("pricing.fallback_speed_kmh must be positive")
	}

	if c.Request.CutoffHour < 0 || c.Request.CutoffHour > 23 {
		return fmt.Errorf("request.cutoff_hour must be between 0 and 23")
	}

	if _, err := time.LoadLocation(c.Request.Timezone); err != nil {
		return fmt.Errorf("invalid request.timezone %q: %w", c.Request.Timezone, err)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must be set when kafka is enabled")
	}

	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig maps the nested sections of config.json onto the flat keys
func flattenNestedConfig(v *viper.Viper) {
	flat := map[string]string{
		"app.name":                  "app_name",
		"app.version":               "app_version",
		"app.env":                   "app_env",
		"app.host":                  "app_host",
		"app.port":                  "app_port",
		"jwt.secret":                "jwt_secret",
		"aws.region":                "aws_region",
		"aws.access_key_id":         "aws_access_key_id",
		"aws.secret_access_key":     "aws_secret_access_key",
		"aws.dynamodb_endpoint":     "dynamodb_endpoint",
		"aws.dynamodb_table_prefix": "dynamodb_table_prefix",
		"logging.level":             "log_level",
		"logging.format":            "log_format",
	}
	for nested, key := range flat {
		// an explicit environment variable beats the file
		if _, ok := os.LookupEnv(strings.ToUpper(key)); ok {
			continue
		}
		if v.IsSet(nested) {
			v.Set(key, v.GetString(nested))
		}
	}

	if v.IsSet("cors.origins") {
		v.Set("cors_origins", v.GetStringSlice("cors.origins"))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}
