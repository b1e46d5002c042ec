package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCleanEnv unsets the given variables for the duration of a test and restores them afterwards
func withCleanEnv(t *testing.T, keys ...string) func() {
	t.Helper()
	original := make(map[string]string, len(keys))
	for _, k := range keys {
		original[k] = os.Getenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
	return func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}
}

func TestLoad(t *testing.T) {
	clearEnv := withCleanEnv(t,
		"POS_APP_NAME",
		"POS_APP_ENV",
		"POS_APP_PORT",
		"POS_DATABASE_DRIVER",
		"POS_DATABASE_HOST",
		"POS_DATABASE_PORT",
		"POS_DATABASE_USER",
		"POS_DATABASE_PASSWORD",
		"POS_DATABASE_DBNAME",
		"POS_DATABASE_SSLMODE",
		"POS_DATABASE_MAX_OPEN_CONNS",
		"POS_DATABASE_MAX_IDLE_CONNS",
		"POS_JWT_SECRET",
		"POS_KAFKA_ENABLED",
		"POS_KAFKA_BROKERS",
		"POS_SHOP_TIME_ZONE",
		"POS_TELEMETRY_SAMPLING_RATIO",
	)

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "foodcourt-pos", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "pos", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 5, cfg.JWT.MaxLoginAttempts)
		assert.NotEmpty(t, cfg.JWT.Secret, "development gets a generated secret")
		assert.Equal(t, "pos.events", cfg.Kafka.Topic)
		assert.Equal(t, "Asia/Kolkata", cfg.Shop.TimeZone)
		assert.Equal(t, time.Minute, cfg.Report.CacheTTL)
		assert.Equal(t, "30 2", cfg.Report.WarmupSchedule)
		assert.False(t, cfg.Report.WarmupEnabled)
		assert.Equal(t, 3.15, cfg.Printing.PaperWidth)
		assert.False(t, cfg.Storage.UsesS3())
	})

	t.Run("loads values from environment variables with POS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_APP_NAME", "mall-court")
		os.Setenv("POS_APP_PORT", "9000")
		os.Setenv("POS_DATABASE_DRIVER", "mysql")
		os.Setenv("POS_DATABASE_HOST", "db.local")
		os.Setenv("POS_DATABASE_USER", "pos")
		os.Setenv("POS_DATABASE_PASSWORD", "secret")
		os.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "mall-court", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port, "mysql gets its own default port")
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("kafka needs brokers", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_KAFKA_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka.brokers")
	})

	t.Run("rejects unknown time zone", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_SHOP_TIME_ZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shop.time_zone")
	})

	t.Run("rejects sampling ratio above 1", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	clearEnv := withCleanEnv(t,
		"POS_APP_ENV",
		"POS_JWT_SECRET",
		"POS_DATABASE_DRIVER",
		"POS_DATABASE_PASSWORD",
		"POS_DATABASE_SSLMODE",
		"POS_HTTP_CORS_ALLOW_ORIGINS",
		"POS_SWAGGER_ENABLED",
		"POS_SWAGGER_REQUIRE_AUTH",
		"POS_TELEMETRY_DB_LOG_FULL_SQL",
	)

	setValidProductionBase := func() {
		clearEnv()
		os.Setenv("POS_APP_ENV", "production")
		os.Setenv("POS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("POS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("POS_DATABASE_SSLMODE", "require")
		os.Setenv("POS_SWAGGER_ENABLED", "false")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "short jwt secret", env: map[string]string{"POS_JWT_SECRET": "short-secret"}, wantErr: "jwt.secret must be at least 32 characters"},
		{name: "missing database password", env: map[string]string{"POS_DATABASE_PASSWORD": ""}, wantErr: "database.password is required in production"},
		{name: "ssl disabled", env: map[string]string{"POS_DATABASE_SSLMODE": "disable"}, wantErr: "database.sslmode cannot be 'disable'"},
		{name: "sqlite driver", env: map[string]string{"POS_DATABASE_DRIVER": "sqlite"}, wantErr: "sqlite is not allowed in production"},
		{name: "wildcard CORS origin", env: map[string]string{"POS_HTTP_CORS_ALLOW_ORIGINS": "*"}, wantErr: "cors_allow_origins cannot be '*'"},
		{name: "unprotected swagger", env: map[string]string{"POS_SWAGGER_ENABLED": "true", "POS_SWAGGER_REQUIRE_AUTH": "false"}, wantErr: "swagger endpoint must be disabled"},
		{name: "full SQL logging", env: map[string]string{"POS_TELEMETRY_DB_LOG_FULL_SQL": "true"}, wantErr: "db_log_full_sql must be false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase()
			for k, v := range tt.env {
				if v == "" {
					os.Unsetenv(k)
				} else {
					os.Setenv(k, v)
				}
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		setValidProductionBase()
		os.Setenv("POS_SWAGGER_ENABLED", "true")
		os.Setenv("POS_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "pos",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("mysql", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "pos", Password: "pw", DBName: "pos"}

		assert.Equal(t, "pos:pw@tcp(db:3306)/pos?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
	})

	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", DBName: "./data/pos.db"}

		assert.Equal(t, "./data/pos.db", cfg.DSN())
	})
}

func TestShopConfig_Location(t *testing.T) {
	assert.Equal(t, "Asia/Kolkata", ShopConfig{TimeZone: "Asia/Kolkata"}.Location().String())
	assert.Equal(t, time.UTC, ShopConfig{TimeZone: "Nowhere/Else"}.Location())
}
