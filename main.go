package main

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/config"
	"telegram-trading-bot/handlers"
	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/server"
	"telegram-trading-bot/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("trading-bot", false)
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init("trading-bot", cfg.Telegram.Debug)

	var store storage.Store
	if cfg.MySQL.Enabled {
		db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to MySQL")
		}
		store, err = storage.NewGormStore(db)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database")
		}
		logger.Info().Str("host", cfg.MySQL.Host).Msg("using MySQL storage")
	} else {
		store = storage.NewMemoryStore()
		logger.Warn().Msg("MySQL disabled, using in-memory storage; state is lost on restart")
	}

	svc := ledger.New(store, cfg.Telegram.AdminID)

	// Keeps the process reachable for platform liveness probes.
	go server.ListenAndServe(cfg.HTTP.Port)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create telegram bot")
	}
	bot.Debug = cfg.Telegram.Debug
	logger.Info().Str("username", bot.Self.UserName).Msg("authorized on telegram")

	handlers.StartBot(bot, store, svc, cfg)
}
