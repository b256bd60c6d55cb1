package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
	}
	Storage struct {
		Type string
		Path string
		URL  string
	}
	Dataset struct {
		Path     string
		Encoding string
	}
	Dashboard struct {
		TopKeywords  int
		TopCountries int
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.path", ":memory:")
	viper.SetDefault("dataset.path", "data.csv")
	viper.SetDefault("dataset.encoding", "latin1")
	viper.SetDefault("dashboard.topkeywords", 5)
	viper.SetDefault("dashboard.topcountries", 10)

	if err := viper.ReadInConfig(); err != nil {
		// The defaults cover everything, so a missing file is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}

	switch c.Dataset.Encoding {
	case "latin1", "utf8":
	default:
		return fmt.Errorf("unknown dataset.encoding %q", c.Dataset.Encoding)
	}

	if c.Dashboard.TopKeywords <= 0 {
		return fmt.Errorf("dashboard.topkeywords must be positive")
	}
	if c.Dashboard.TopCountries <= 0 {
		return fmt.Errorf("dashboard.topcountries must be positive")
	}

	return nil
}
