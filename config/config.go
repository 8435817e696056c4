// Package config reads engine settings from a .env style file and MAIA_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"maia-engine/rules"
)

var ErrConfig = errors.New("invalid configuration")

const EnvPrefix = "MAIA"

// Inference backends.
const (
	EngineONNX   = "onnx"
	EngineRemote = "remote"
)

// Book sources.
const (
	BookNone  = "none"
	BookFile  = "file"
	BookRedis = "redis"
	BookMongo = "mongo"
)

type Config struct {
	Engine         string `mapstructure:"ENGINE"`
	ModelPath      string `mapstructure:"MODEL_PATH"`
	OrtLibrary     string `mapstructure:"ORT_LIBRARY"`
	OrtThreads     int    `mapstructure:"ORT_THREADS"`
	RemoteAddr     string `mapstructure:"REMOTE_ADDR"`
	Rules          string `mapstructure:"RULES"`
	VocabularyPath string `mapstructure:"VOCABULARY_PATH"`

	BookSource      string `mapstructure:"BOOK_SOURCE"`
	BookPath        string `mapstructure:"BOOK_PATH"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisKey        string `mapstructure:"REDIS_KEY"`
	MongoURI        string `mapstructure:"MONGO_URI"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
	MongoCollection string `mapstructure:"MONGO_COLLECTION"`

	EloFloor         float64       `mapstructure:"ELO_FLOOR"`
	BlendSpread      float64       `mapstructure:"BLEND_SPREAD"`
	InferenceTimeout time.Duration `mapstructure:"INFERENCE_TIMEOUT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"ENGINE":            EngineONNX,
	"MODEL_PATH":        "maia_rapid.onnx",
	"ORT_LIBRARY":       "",
	"ORT_THREADS":       0,
	"REMOTE_ADDR":       "localhost:8082",
	"RULES":             rules.NameGoose,
	"VOCABULARY_PATH":   "",
	"BOOK_SOURCE":       BookNone,
	"BOOK_PATH":         "",
	"REDIS_ADDR":        "localhost:6379",
	"REDIS_KEY":         "maia:book",
	"MONGO_URI":         "mongodb://localhost:27017",
	"MONGO_DATABASE":    "maia",
	"MONGO_COLLECTION":  "book",
	"ELO_FLOOR":         1100,
	"BLEND_SPREAD":      600,
	"INFERENCE_TIMEOUT": "0s",
	"LOG_LEVEL":         "info",
}

// Setup reads cfgPath when it is not empty, then applies MAIA_ environment
// overrides and validates the result.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if ext := filepath.Ext(cfgPath); ext == "" || ext == ".env" {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every key at its default.
func Default() *Config {
	cfg, err := Setup("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineONNX:
		if c.ModelPath == "" {
			return fmt.Errorf("%w: MODEL_PATH is required for the onnx engine", ErrConfig)
		}
	case EngineRemote:
		if c.RemoteAddr == "" {
			return fmt.Errorf("%w: REMOTE_ADDR is required for the remote engine", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown ENGINE %q", ErrConfig, c.Engine)
	}
	if _, err := rules.New(c.Rules); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	switch c.BookSource {
	case BookNone, "":
	case BookFile:
		if c.BookPath == "" {
			return fmt.Errorf("%w: BOOK_PATH is required for a file book", ErrConfig)
		}
	case BookRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for a redis book", ErrConfig)
		}
	case BookMongo:
		if c.MongoURI == "" || c.MongoCollection == "" {
			return fmt.Errorf("%w: MONGO_URI and MONGO_COLLECTION are required for a mongo book", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown BOOK_SOURCE %q", ErrConfig, c.BookSource)
	}
	if c.BlendSpread <= 0 {
		return fmt.Errorf("%w: BLEND_SPREAD must be positive", ErrConfig)
	}
	if c.InferenceTimeout < 0 {
		return fmt.Errorf("%w: INFERENCE_TIMEOUT must not be negative", ErrConfig)
	}
	if c.OrtThreads < 0 {
		return fmt.Errorf("%w: ORT_THREADS must not be negative", ErrConfig)
	}
	return nil
}
