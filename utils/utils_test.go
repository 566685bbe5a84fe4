package utils

import (
	"encoding/json"
	"movehub-backend/models"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]*string
}

var trackedEnv = []string{
	"APP_NAME", "APP_VERSION", "APP_ENV", "APP_HOST", "APP_PORT",
	"JWT_SECRET", "JWT_EXPIRES_IN",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	"DYNAMODB_ENDPOINT", "DYNAMODB_TABLE_PREFIX",
	"LOG_LEVEL", "LOG_FORMAT",
	"CORS_ORIGINS", "BASEPATH",
	"REQUEST_TIMEZONE", "REQUEST_CUTOFF_HOUR",
	"PRICING_PRICE_PER_KM", "PRICING_EXPRESS_MULTIPLIER",
	"KAFKA_ENABLED", "KAFKA_BROKERS",
}

// SetupTest clears the variables Load looks at
func (suite *UtilsTestSuite) SetupTest() {
	suite.originalEnv = make(map[string]*string)
	for _, envVar := range trackedEnv {
		if value, ok := os.LookupEnv(envVar); ok {
			v := value
			suite.originalEnv[envVar] = &v
		} else {
			suite.originalEnv[envVar] = nil
		}
		os.Unsetenv(envVar)
	}
}

// TearDownTest restores the environment
func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != nil {
			os.Setenv(envVar, *value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

func validConfig() *models.Config {
	return &models.Config{
		AppEnv:    "development",
		JWTSecret: "your-super-secret-jwt-key-change-this-in-production",
		Pricing: models.PricingConfig{
			PricePerKm:         10000,
			LaborRatePerWorker: 100000,
			PerFloorFee:        10000,
			ExpressMultiplier:  1.5,
			FallbackSpeedKmh:   40,
		},
		Request: models.RequestConfig{
			Timezone:   "Asia/Ho_Chi_Minh",
			CutoffHour: 12,
		},
	}
}

func (suite *UtilsTestSuite) TestGetConfig() {
	config, err := GetConfig()
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "MoveHub Backend", config.AppName)
	assert.Equal(suite.T(), "1.0.0", config.AppVersion)
	assert.Equal(suite.T(), "development", config.AppEnv)
	assert.Equal(suite.T(), "0.0.0.0", config.AppHost)
	assert.Equal(suite.T(), "8081", config.AppPort)
}

func (suite *UtilsTestSuite) TestGetConfigWithEnvironmentVariables() {
	os.Setenv("APP_NAME", "Test App")
	os.Setenv("APP_VERSION", "2.0.0")
	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_SECRET", "production-secret")
	os.Setenv("AWS_REGION", "us-west-2")
	os.Setenv("LOG_LEVEL", "warn")

	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Test App", config.AppName)
	assert.Equal(suite.T(), "2.0.0", config.AppVersion)
	assert.Equal(suite.T(), "production", config.AppEnv)
	assert.Equal(suite.T(), "production-secret", config.JWTSecret)
	assert.Equal(suite.T(), "us-west-2", config.AWSRegion)
	assert.Equal(suite.T(), "warn", config.LogLevel)
}

// TestLoad checks configs/config.json layered over the defaults
func (suite *UtilsTestSuite) TestLoad() {
	config, err := Load()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "MoveHub Backend", config.AppName)
	assert.Equal(suite.T(), 12*time.Hour, config.JWTExpiresIn)
	assert.Equal(suite.T(), "ap-southeast-1", config.AWSRegion)
	assert.Equal(suite.T(), "debug", config.LogLevel)
	assert.Equal(suite.T(), "text", config.LogFormat)
	assert.Equal(suite.T(), []string{"*"}, config.CORSOrigins)
	assert.Equal(suite.T(), "/api", config.BasePath)
	assert.Equal(suite.T(), []string{"requests", "quotes", "contracts"}, config.Tables)

	assert.Equal(suite.T(), int64(10000), config.Pricing.PricePerKm)
	assert.Equal(suite.T(), int64(100000), config.Pricing.LaborRatePerWorker)
	assert.Equal(suite.T(), 2, config.Pricing.DefaultWorkers)
	assert.Equal(suite.T(), int64(200000), config.Pricing.PackingFees["standard_pack"])
	assert.Equal(suite.T(), 1.5, config.Pricing.ExpressMultiplier)
	assert.Equal(suite.T(), float64(40), config.Pricing.FallbackSpeedKmh)
	assert.Equal(suite.T(), "flat", config.Pricing.DefaultStrategy)

	assert.True(suite.T(), config.Negotiation.RequirePositivePrice)
	assert.Equal(suite.T(), 3, config.Negotiation.MaxCASRetries)

	assert.Equal(suite.T(), "Asia/Ho_Chi_Minh", config.Request.Timezone)
	assert.Equal(suite.T(), 12, config.Request.CutoffHour)
	assert.Equal(suite.T(), 4, config.Request.MaxImages)

	assert.Equal(suite.T(), 8*time.Second, config.Geo.Timeout)
	assert.Equal(suite.T(), 24*time.Hour, config.Geo.CacheTTL)
	assert.Equal(suite.T(), 7*24*time.Hour, config.Worker.QuoteTTL)
	assert.Equal(suite.T(), "0 */15 * * * *", config.Worker.ExpirySchedule)
}

func (suite *UtilsTestSuite) TestLoadWithJWTExpirationString() {
	os.Setenv("JWT_EXPIRES_IN", "24h")

	config, err := Load()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 24*time.Hour, config.JWTExpiresIn)
}

func (suite *UtilsTestSuite) TestLoadWithInvalidJWTExpiration() {
	os.Setenv("JWT_EXPIRES_IN", "invalid-duration")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.True(suite.T(), strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "failed"))
}

func (suite *UtilsTestSuite) TestLoadWithProductionValidation() {
	os.Setenv("APP_ENV", "production")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET must be set in production environment")
}

func (suite *UtilsTestSuite) TestLoadWithPricingOverride() {
	os.Setenv("PRICING_PRICE_PER_KM", "12000")

	config, err := Load()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12000), config.Pricing.PricePerKm)
}

func (suite *UtilsTestSuite) TestLoadWithInvalidTimezone() {
	os.Setenv("REQUEST_TIMEZONE", "Mars/Olympus_Mons")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "request.timezone")
}

func (suite *UtilsTestSuite) TestValidate() {
	assert.NoError(suite.T(), validate(validConfig()))
}

func (suite *UtilsTestSuite) TestValidateProductionWithDefaultSecret() {
	config := validConfig()
	config.AppEnv = "production"

	err := validate(config)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET must be set in production environment")
}

func (suite *UtilsTestSuite) TestValidateProductionWithNoAWSCredentials() {
	config := validConfig()
	config.AppEnv = "production"
	config.JWTSecret = "production-secret"

	assert.NoError(suite.T(), validate(config))
}

func (suite *UtilsTestSuite) TestValidateRejectsBadTariff() {
	tests := []struct {
		name   string
		mutate func(c *models.Config)
		want   string
	}{
		{"negative rate", func(c *models.Config) { c.Pricing.PricePerKm = -1 }, "negative"},
		{"express below one", func(c *models.Config) { c.Pricing.ExpressMultiplier = 0.5 }, "express_multiplier"},
		{"zero fallback speed", func(c *models.Config) { c.Pricing.FallbackSpeedKmh = 0 }, "fallback_speed_kmh"},
		{"cutoff out of range", func(c *models.Config) { c.Request.CutoffHour = 24 }, "cutoff_hour"},
		{"kafka without brokers", func(c *models.Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			config := validConfig()
			tt.mutate(config)
			err := validate(config)
			require.Error(suite.T(), err)
			assert.Contains(suite.T(), err.Error(), tt.want)
		})
	}
}

func (suite *UtilsTestSuite) TestPrintPrettyJSON() {
	data := map[string]interface{}{
		"requestID": "req-1",
		"status":    "PENDING_CONFIRMATION",
	}

	result := PrintPrettyJSON(data)
	assert.Contains(suite.T(), result, "\"requestID\": \"req-1\"")
	assert.Contains(suite.T(), result, "    ")

	var parsed map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal([]byte(result), &parsed))
	assert.Equal(suite.T(), "PENDING_CONFIRMATION", parsed["status"])
}

func (suite *UtilsTestSuite) TestPrintPrettyJSONWithNil() {
	assert.Equal(suite.T(), "null", PrintPrettyJSON(nil))
}

func (suite *UtilsTestSuite) TestPrintPrettyJSONWithInvalidData() {
	assert.Equal(suite.T(), "", PrintPrettyJSON(make(chan int)))
}

func (suite *UtilsTestSuite) TestGenerateUUID() {
	id := GenerateUUID()
	_, err := uuid.Parse(id)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), id, 36)
}

func (suite *UtilsTestSuite) TestGenerateUUIDUniqueness() {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateUUID()
		assert.False(suite.T(), seen[id])
		seen[id] = true
	}
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}
