package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Environment string        `mapstructure:"environment"`
	Debug       bool          `mapstructure:"debug"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        string        `mapstructure:"port"`
	LogLevel    string        `mapstructure:"log_level"`
	LogsPath    string        `mapstructure:"logs_path"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// JWTConfig holds the two independent signing secrets. Access and refresh
// tokens must never share a secret.
type JWTConfig struct {
	AccessSecret   string        `mapstructure:"access_secret"`
	RefreshSecret  string        `mapstructure:"refresh_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Password        string        `mapstructure:"password"`
	Database        int           `mapstructure:"database"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
	RefreshCacheTTL time.Duration `mapstructure:"refresh_cache_ttl"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type SeedConfig struct {
	DemoUser     bool   `mapstructure:"demo_user"`
	DemoPassword string `mapstructure:"demo_password"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", constants.AppName),
			Environment: getEnv("APP_ENV", constants.EnvDevelopment),
			Port:        getEnv("APP_PORT", "3000"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogsPath:    getEnv("LOGS_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "chirpy"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", false),
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnvAsInt("REDIS_PORT", 6379),
			Password:        getEnv("REDIS_PASSWORD", ""),
			Database:        getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:     getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:     getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			RefreshCacheTTL: getEnvAsDuration("REDIS_REFRESH_CACHE_TTL", 24*time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:   getEnv("JWT_ACCESS_SECRET", "secret"),
			RefreshSecret:  getEnv("JWT_REFRESH_SECRET", "supersecret"),
			AccessTokenTTL: getEnvAsDuration("JWT_ACCESS_TTL", constants.DefaultAccessTokenTTL),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_SALT_ROUNDS", 10),
		},
		Seed: SeedConfig{
			DemoUser:     getEnvAsBool("SEED_DEMO_USER", false),
			DemoPassword: getEnv("SEED_DEMO_PASSWORD", "password123"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt secrets must not be empty")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive, got %s", c.JWT.AccessTokenTTL)
	}
	return nil
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
