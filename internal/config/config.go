package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	PayHero   PayHeroConfig
	LogLevel  string
	LogFormat string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	StaticDir      string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// PayHeroConfig holds PayHero API-specific configuration
type PayHeroConfig struct {
	BaseURL string
	// ChannelID identifies the payment channel assigned to this deployment.
	ChannelID int
	// Credentials is the pre-shared, already base64-encoded API credential
	// sent as the Basic authorization value.
	Credentials    string
	TimeoutSeconds int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Keep the environment variable names the deployment already uses
	_ = viper.BindEnv("Server.Port", "PORT")
	_ = viper.BindEnv("PayHero.ChannelID", "PAYHERO_CHANNEL_ID")
	_ = viper.BindEnv("PayHero.Credentials", "PAYHERO_CREDENTIALS")

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "3000")
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:8000"})
	viper.SetDefault("Server.StaticDir", "public")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "datahub-payments")
	viper.SetDefault("PayHero.BaseURL", "https://backend.payhero.co.ke/api/v2/payments")
	viper.SetDefault("PayHero.TimeoutSeconds", 30)
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("LogFormat", "json")
}
