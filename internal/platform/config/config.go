// Package config loads runtime settings from tonetags.yaml and TONETAGS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Addr          string      `mapstructure:"addr"`
	Store         string      `mapstructure:"store"`
	DatabaseURL   string      `mapstructure:"database_url"`
	Redis         RedisConfig `mapstructure:"redis"`
	JWTSigningKey string      `mapstructure:"jwt_signing_key"`
	JWTIssuer     string      `mapstructure:"jwt_issuer"`
	CacheCapacity int         `mapstructure:"cache_capacity"`
	ChunkLimit    int         `mapstructure:"chunk_limit"`
	StandardsDir  string      `mapstructure:"standards_dir"`
	Kafka         KafkaConfig `mapstructure:"kafka"`
	Log           LogConfig   `mapstructure:"log"`
}

// RedisConfig configures the Redis preference store.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the audit sink. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	AuditTopic string   `mapstructure:"audit_topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		Store:         StoreMemory,
		JWTSigningKey: "dev-secret-key-change-in-production",
		JWTIssuer:     "tonetags",
		CacheCapacity: 100,
		ChunkLimit:    2000,
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AuditTopic: "tonetags.audit",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads tonetags.yaml from the working directory when present, then
// applies environment overrides such as TONETAGS_DATABASE_URL or TONETAGS_LOG_LEVEL.
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadFile is Load with an explicit config file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	cfg := Default()

	v.SetConfigName("tonetags")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("TONETAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if b := v.GetString("kafka.brokers"); b != "" {
		cfg.Kafka.Brokers = splitBrokers(b)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: store %q requires database_url", c.Store)
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("config: store %q requires redis.url", c.Store)
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("config: cache_capacity must be positive, got %d", c.CacheCapacity)
	}
	if c.ChunkLimit <= 1 {
		return fmt.Errorf("config: chunk_limit must be greater than 1, got %d", c.ChunkLimit)
	}
	if c.JWTSigningKey == "" {
		return fmt.Errorf("config: jwt_signing_key is required")
	}
	return nil
}

func splitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// bindEnvs registers every mapstructure key so AutomaticEnv sees nested fields.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
