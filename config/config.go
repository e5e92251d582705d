package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"MetricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
		Redis struct {
			URL string `mapstructure:"url"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Channels struct {
		Weather string `mapstructure:"weather"`
		Tourism string `mapstructure:"tourism"`
		Travel  string `mapstructure:"travel"`
		Probe   string `mapstructure:"probe"`
	} `mapstructure:"channels"`
	Providers struct {
		OpenWeather struct {
			BaseURL string `mapstructure:"baseURL"`
			APIKey  string `mapstructure:"apiKey"`
		} `mapstructure:"openWeather"`
		Places struct {
			BaseURL string  `mapstructure:"baseURL"`
			APIKey  string  `mapstructure:"apiKey"`
			RadiusM float64 `mapstructure:"radiusM"`
		} `mapstructure:"places"`
		Gemini struct {
			Model  string `mapstructure:"model"`
			APIKey string `mapstructure:"apiKey"`
		} `mapstructure:"gemini"`
	} `mapstructure:"providers"`
	Pipeline struct {
		ConsumeTimeout time.Duration `mapstructure:"consumeTimeout"`
		WorkerInterval time.Duration `mapstructure:"workerInterval"`
	} `mapstructure:"pipeline"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets and deploy-specific values come from the environment.
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"repositories.postgres.host":     "POSTGRES_HOST",
		"repositories.postgres.port":     "POSTGRES_PORT",
		"repositories.postgres.username": "POSTGRES_USER",
		"repositories.postgres.password": "POSTGRES_PASSWORD",
		"repositories.postgres.db":       "POSTGRES_DB",
		"repositories.redis.url":         "REDIS_URL",
		"channels.weather":               "WEATHER_QUEUE",
		"channels.tourism":               "TOURISM_QUEUE",
		"providers.openWeather.apiKey":   "OPEN_WEATHER_APP",
		"providers.places.apiKey":        "API_KEY_PLACES",
		"providers.gemini.apiKey":        "GOOGLE_GEMINI_API_KEY",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
