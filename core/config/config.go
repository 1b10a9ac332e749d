package config

import (
	"reflect"
	"strings"

	"bulkdozer/core/cache"
	"bulkdozer/core/database"
	"bulkdozer/core/logger"
	"bulkdozer/core/remote"
	"bulkdozer/core/server"
	"bulkdozer/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used for exports and backups.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the workbook database.
	Database database.Config `mapstructure:"database"`
	// Remote holds configuration for the Campaign Manager API.
	Remote remote.Config `mapstructure:"remote"`
	// Cache holds configuration for the entity caches.
	Cache cache.Config `mapstructure:"cache"`
	// Sync holds configuration for load and push runs.
	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig holds configuration shared by load and push runs.
type SyncConfig struct {
	// StoreTable is the table holding the serialized identifier map.
	StoreTable string `mapstructure:"store_table" default:"Store"`
	// ProfilePath points at a YAML file with entity modes; empty uses the Entity Configs table.
	ProfilePath string `mapstructure:"profile_path" default:""`
	// ContinueOnError keeps pushing the remaining rows after a row fails.
	ContinueOnError bool `mapstructure:"continue_on_error" default:"false"`
	// ActiveOnly restricts ad loads to active ads.
	ActiveOnly bool `mapstructure:"active_only" default:"false"`
	// ExportPrefix is the object prefix for hierarchy exports and id map backups.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports"`
	// BackupKeep is how many id map backups are kept. Zero keeps all of them.
	BackupKeep int `mapstructure:"backup_keep" default:"20"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. REMOTE_PROFILE_ID -> remote.profile_id)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
