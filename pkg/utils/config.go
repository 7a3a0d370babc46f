package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Scanner  ScannerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr          string
	Password      string
	ChannelPrefix string
}

type PaymentConfig struct {
	BaseURL     string
	APIKey      string
	CallbackURL string
	TimeoutSecs int
}

type ScannerConfig struct {
	DebounceMillis int
	ValidateURL    string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_CHANNEL_PREFIX", "docstore")
	viper.SetDefault("PAYMENT_TIMEOUT_SECS", 15)
	viper.SetDefault("SCAN_DEBOUNCE_MS", 2000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:          viper.GetString("REDIS_ADDR"),
			Password:      viper.GetString("REDIS_PASS"),
			ChannelPrefix: viper.GetString("REDIS_CHANNEL_PREFIX"),
		},
		Payment: PaymentConfig{
			BaseURL:     viper.GetString("PAYMENT_BASE_URL"),
			APIKey:      viper.GetString("PAYMENT_API_KEY"),
			CallbackURL: viper.GetString("PAYMENT_CALLBACK_URL"),
			TimeoutSecs: viper.GetInt("PAYMENT_TIMEOUT_SECS"),
		},
		Scanner: ScannerConfig{
			DebounceMillis: viper.GetInt("SCAN_DEBOUNCE_MS"),
			ValidateURL:    viper.GetString("SCAN_VALIDATE_URL"),
		},
	}

	return config, nil
}
