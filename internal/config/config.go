package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Session  SessionConfig
	AdminJWT AdminJWTConfig
	SMS      SMSConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// SessionConfig holds participant session cookie configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     int // seconds
	Secure     bool
}

// AdminJWTConfig holds admin panel JWT configuration
type AdminJWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// SMSConfig holds SMS gateway-specific configuration
type SMSConfig struct {
	Sendoxi        SendoxiConfig
	MockSMSGateway bool
}

// SendoxiConfig holds Sendoxi SMS gateway credentials
type SendoxiConfig struct {
	BaseURL       string
	APIKey        string
	BasicUser     string
	BasicPass     string
	SenderID      string
	DLTEntityID   string
	OTPTemplateID string
	CountryCode   string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "yb-luckywheel")
	viper.SetDefault("Session.CookieName", "participant_session")
	viper.SetDefault("Session.MaxAge", 7*24*60*60) // 7 days
	viper.SetDefault("Session.Secure", false)
	viper.SetDefault("AdminJWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("SMS.Sendoxi.BaseURL", "https://api.sendoxi.com")
	viper.SetDefault("SMS.Sendoxi.CountryCode", "91")
	viper.SetDefault("SMS.MockSMSGateway", true)
	viper.SetDefault("LogLevel", "info")
}
