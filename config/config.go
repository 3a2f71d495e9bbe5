package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// 运行环境
const (
	EnvDev     = "dev"
	EnvTesting = "testing"
	EnvProd    = "prod"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Features FeatureConfig  `mapstructure:"features"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, mysql, postgres
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Channel  string `mapstructure:"channel"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type FeatureConfig struct {
	Debug         bool `mapstructure:"debug"`
	RecordQueries bool `mapstructure:"record_queries"`
	Metrics       bool `mapstructure:"metrics"`
	Events        bool `mapstructure:"events"`
}

// profile 每个环境的默认值
type profile struct {
	dsnEnv   string
	dsn      string
	debug    bool
	mode     string
	logLevel string
}

var profiles = map[string]profile{
	EnvDev: {
		dsnEnv:   "DEV_DATABASE_URI",
		dsn:      "dev.db",
		debug:    true,
		mode:     "debug",
		logLevel: "debug",
	},
	EnvTesting: {
		dsnEnv:   "TEST_DATABASE_URI",
		dsn:      "test.db",
		mode:     "test",
		logLevel: "warn",
	},
	EnvProd: {
		dsnEnv:   "PROD_DATABASE_URI",
		dsn:      "why-is-prod-here.db",
		mode:     "release",
		logLevel: "info",
	},
}

// ResolveEnv 归一化环境名，未知值回退到 dev
func ResolveEnv(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	switch env {
	case "development":
		env = EnvDev
	case "test":
		env = EnvTesting
	case "production":
		env = EnvProd
	}
	if _, ok := profiles[env]; !ok {
		return EnvDev
	}
	return env
}

// Load 加载配置，env 为空时读取 APP_ENV
func Load(configPath, env string) (*Config, error) {
	if env == "" {
		env = os.Getenv("APP_ENV")
	}
	env = ResolveEnv(env)

	v := viper.New()
	setDefaults(v, env)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("database.dsn", "DATABASE_DSN", profiles[env].dsnEnv); err != nil {
		return nil, err
	}

	if configPath != "" {
		// 优先读取 config.local.yaml（本地覆盖，不提交到git）
		localConfigPath := filepath.Join(filepath.Dir(configPath), "config.local.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			configPath = localConfigPath
		}

		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Env = env

	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	p := profiles[env]

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", p.mode)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", p.dsn)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.channel", "blog_events")

	v.SetDefault("log.level", p.logLevel)
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-Request-ID"})

	v.SetDefault("features.debug", p.debug)
	v.SetDefault("features.record_queries", false)
	v.SetDefault("features.metrics", true)
	v.SetDefault("features.events", true)
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}
