package config

import (
	"encoding/json"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress   string        `json:"serverAddress"`
	DatabasePath    string        `json:"databasePath"`
	DatabaseURL     string        `json:"databaseUrl"`
	FrontendBaseURL string        `json:"frontendBaseUrl"`
	SMTP            SMTPConfig    `json:"smtp"`
	Outlook         OutlookConfig `json:"outlook"`
}

// SMTPConfig holds mail delivery settings. An empty Host disables outbound
// email; registration still succeeds without the verification mail.
type SMTPConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"fromAddress"`
	FromName    string `json:"fromName"`
	UseTLS      bool   `json:"useTls"`
	SkipVerify  bool   `json:"skipVerify"`
}

// OutlookConfig holds the Microsoft OAuth client used for the calendar
// connection. An empty ClientID disables the integration.
type OutlookConfig struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURL  string `json:"redirectUrl"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress:   ":5000",
		DatabasePath:    "planora.db",
		FrontendBaseURL: "http://localhost:3000",
		SMTP: SMTPConfig{
			Port:     587,
			FromName: "Planora",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if frontend := os.Getenv("FRONTEND_BASE_URL"); frontend != "" {
		cfg.FrontendBaseURL = frontend
	}

	// SMTP configuration
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		cfg.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		cfg.SMTP.Password = pass
	}
	if from := os.Getenv("SMTP_FROM_ADDRESS"); from != "" {
		cfg.SMTP.FromAddress = from
	}
	if name := os.Getenv("SMTP_FROM_NAME"); name != "" {
		cfg.SMTP.FromName = name
	}
	if tls := os.Getenv("SMTP_USE_TLS"); tls != "" {
		cfg.SMTP.UseTLS = tls == "true" || tls == "1"
	}

	// Outlook OAuth configuration
	if id := os.Getenv("OUTLOOK_CLIENT_ID"); id != "" {
		cfg.Outlook.ClientID = id
	}
	if secret := os.Getenv("OUTLOOK_CLIENT_SECRET"); secret != "" {
		cfg.Outlook.ClientSecret = secret
	}
	if redirect := os.Getenv("OUTLOOK_REDIRECT_URL"); redirect != "" {
		cfg.Outlook.RedirectURL = redirect
	}

	return cfg, nil
}
