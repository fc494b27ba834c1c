package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources.
const (
	CatalogBuiltin = "builtin" // Embedded exercise set
	CatalogFile    = "file"    // YAML or JSON file at catalog.path
	CatalogS3      = "s3"      // Object catalog.s3_key in the configured bucket
	CatalogMongo   = "mongo"   // The exercises collection
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Plans    PlansConfig    `mapstructure:"plans"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// JWTConfig holds the secret used to verify tokens issued by the auth service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// CatalogConfig selects where the exercise catalog is loaded from at startup.
type CatalogConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	S3Key  string `mapstructure:"s3_key"`
}

type PlansConfig struct {
	ExportExpiry time.Duration `mapstructure:"export_expiry"` // Presigned download URL lifetime
	ExportPrefix string        `mapstructure:"export_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel maps the configured level name onto slog. Unknown names mean info.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig reads config.yaml from path, then environment variables
// (server.address -> SERVER_ADDRESS).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gymovoo")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("catalog.source", CatalogBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.s3_key", "catalog/exercises.yaml")
	v.SetDefault("plans.export_expiry", "15m")
	v.SetDefault("plans.export_prefix", "plan-exports")
	v.SetDefault("log.level", "info")

	// A missing file is fine: defaults and env vars still apply.
	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Catalog.Source {
	case CatalogBuiltin, CatalogMongo:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return errors.New("config: catalog.path is required when catalog.source is file")
		}
	case CatalogS3:
		if c.S3.BucketName == "" || c.Catalog.S3Key == "" {
			return errors.New("config: s3.bucket_name and catalog.s3_key are required when catalog.source is s3")
		}
	default:
		return fmt.Errorf("config: unknown catalog.source %q", c.Catalog.Source)
	}
	return nil
}
