package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings shared by the batch CLI and the HTTP service.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	UploadDir  string `mapstructure:"upload_dir"`
	ImagesDir  string `mapstructure:"images_dir"`
	OutputDir  string `mapstructure:"output_dir"`
	Engine     string `mapstructure:"engine"`
}

// Load reads an optional config.yaml from the working directory and LABOCR_*
// environment variables on top of the built-in defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("upload_dir", "temp_uploads")
	v.SetDefault("images_dir", "images")
	v.SetDefault("output_dir", "output")
	v.SetDefault("engine", "gosseract")

	v.SetEnvPrefix("LABOCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
