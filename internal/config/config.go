package config

import (
	"fmt"
	"time"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/spf13/viper"
)

// ConfigFileName is looked up in the directory passed to Load.
const ConfigFileName = "pictograph.cfg.json"

// MotionConfig holds motion calculator settings
type MotionConfig struct {
	StaticThreshold float64 `json:"staticThreshold" mapstructure:"staticThreshold"`
}

// MemoryConfig holds file-backed placement table settings
type MemoryConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SQLiteConfig holds sqlite placement table settings. An empty path opens an
// in-memory database.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// StorageConfig selects and configures the placement table backend
type StorageConfig struct {
	Type     string       `json:"type" mapstructure:"type"`
	Memory   MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite   SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Postgres DBConfig     `json:"-" mapstructure:"-"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("projection.width", geometry.DefaultProjection.ViewportWidth)
	viper.SetDefault("projection.height", geometry.DefaultProjection.ViewportHeight)
	viper.SetDefault("projection.radius", geometry.DefaultProjection.Radius)

	viper.SetDefault("motion.staticThreshold", 0.1)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.path", "")
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "pictograph")
	viper.SetDefault("db.sslmode", "disable")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "pictograph")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Defaults are in
// place even when the file cannot be read.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetProjectionConfig returns the viewport projection. Invalid values fall
// back to the default projection.
func GetProjectionConfig() geometry.Projection {
	p := geometry.Projection{
		ViewportWidth:  viper.GetFloat64("projection.width"),
		ViewportHeight: viper.GetFloat64("projection.height"),
		Radius:         viper.GetFloat64("projection.radius"),
	}
	if p.Validate() != nil {
		return geometry.DefaultProjection
	}
	return p
}

func GetMotionConfig() MotionConfig {
	return MotionConfig{
		StaticThreshold: viper.GetFloat64("motion.staticThreshold"),
	}
}

// GetStorageConfig returns the placement table backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			Path: viper.GetString("storage.memory.path"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
