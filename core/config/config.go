package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"gyrinx-content/core/database"
	"gyrinx-content/core/datasource"
	"gyrinx-content/core/logger"
	"gyrinx-content/core/server"
	"gyrinx-content/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete gyrinx-content configuration, one section per concern.
type Config struct {
	Server server.Config `mapstructure:"server"`
	// Storage is only needed for bucket sources and report publishing.
	Storage  storage.Config    `mapstructure:"storage"`
	Content  datasource.Config `mapstructure:"content"`
	Log      logger.Config     `mapstructure:"log"`
	Database database.Config   `mapstructure:"database"`
}

// LoadConfig reads <path>/.env (when present) and the environment.
// SECTION_KEY variables override section.key, e.g. CONTENT_RULESET.
func LoadConfig(path string) (*Config, error) {
	envPath := ".env"
	if path != "." {
		envPath = filepath.Join(path, ".env")
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &config, nil
}

// bindValues registers every mapstructure key of t with its `default` tag, so that
// AutomaticEnv picks up keys without a default too.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
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
			bindValues(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
