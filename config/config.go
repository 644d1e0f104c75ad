package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type MySQLConfig struct {
	Enabled  bool
	User     string
	Password string
	Host     string
	Port     int
	DBName   string
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", m.User, m.Password, m.Host, m.Port, m.DBName)
}

type TelegramConfig struct {
	Token   string
	AdminID int64
	Debug   bool
}

type HTTPConfig struct {
	Port int
}

type TradingConfig struct {
	// Minimum balance a user needs before a trading bot can be activated.
	MinActivationBalance float64
	WebsiteURL           string
	SupportURL           string
}

type Config struct {
	MySQL    MySQLConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	Trading  TradingConfig
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("trading.minactivationbalance", 500)
	viper.SetDefault("trading.websiteurl", "https://novacapitalwealthpro.com")
	viper.SetDefault("trading.supporturl", "https://t.me/ncwtradingbotsupport")

	viper.AutomaticEnv()
	_ = viper.BindEnv("telegram.token", "BOT_TOKEN")
	_ = viper.BindEnv("telegram.adminid", "ADMIN_USER_ID")
	_ = viper.BindEnv("http.port", "PORT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set (BOT_TOKEN)")
	}
	if cfg.Telegram.AdminID == 0 {
		return nil, fmt.Errorf("admin user id is not set (ADMIN_USER_ID)")
	}
	return &cfg, nil
}
