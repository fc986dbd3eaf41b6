package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Database drivers understood by DatabaseConfig.Driver.
const (
	DriverMongo    = "mongo"
	DriverSupabase = "supabase"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	JWT       JWTConfig       `yaml:"jwt"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"gt=0,lte=65535"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=mongo supabase memory"`
	URI    string `yaml:"uri" validate:"required_if=Driver mongo"`
	DBName string `yaml:"dbname" validate:"required_if=Driver mongo"`
	// SeedFile is loaded into the memory driver at startup when set.
	SeedFile string `yaml:"seed_file"`
}

type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`
}

type RedisConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host" validate:"required_if=Enabled true"`
	Port        int    `yaml:"port" validate:"gt=0,lte=65535"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db" validate:"gte=0"`
	PoolSize    int    `yaml:"pool_size" validate:"gte=0"`
	TLSEnabled  bool   `yaml:"tls_enabled"`
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig holds TTLs per cache category and the breaker that guards the store.
type CacheConfig struct {
	SearchTTL               time.Duration `yaml:"search_ttl" validate:"gt=0"`
	DetailTTL               time.Duration `yaml:"detail_ttl" validate:"gt=0"`
	AggregateTTL            time.Duration `yaml:"aggregate_ttl" validate:"gt=0"`
	OperationTimeout        time.Duration `yaml:"operation_timeout"`
	BreakerFailureThreshold uint32        `yaml:"breaker_failure_threshold"`
	BreakerOpenTimeout      time.Duration `yaml:"breaker_open_timeout"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gte=0"`
	Burst             int `yaml:"burst" validate:"gte=0"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Default returns the configuration used when the YAML file leaves a field unset.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Environment:     "development",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver: DriverMongo,
			DBName: "marketplace",
		},
		Redis: RedisConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		Cache: CacheConfig{
			SearchTTL:               5 * time.Minute,
			DetailTTL:               30 * time.Minute,
			AggregateTTL:            time.Hour,
			OperationTimeout:        500 * time.Millisecond,
			BreakerFailureThreshold: 5,
			BreakerOpenTimeout:      30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 100,
			Burst:             10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path on top of Default(), applies environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Database.Driver == DriverSupabase && (cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "") {
		return fmt.Errorf("invalid config: supabase driver requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
	}
	if cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Environment, "ENV")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URI, "MONGO_URI")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SeedFile, "SEED_FILE")
	setString(&cfg.Supabase.URL, "SUPABASE_URL")
	setString(&cfg.Supabase.ServiceKey, "SUPABASE_SERVICE_ROLE_KEY")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Redis.TLSCertFile, "REDIS_TLS_CERT_FILE")
	setString(&cfg.Redis.TLSKeyFile, "REDIS_TLS_KEY_FILE")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Logging.Level, "LOG_LEVEL")

	if err := setInt(&cfg.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Redis.Port, "REDIS_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = v == "true"
	}
	if v := os.Getenv("REDIS_TLS_ENABLED"); v != "" {
		cfg.Redis.TLSEnabled = v == "true"
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = n
	return nil
}
