package handlers

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
)

func (b *Bot) showTradingBots(chatID int64, acc *models.Account) {
	if acc.Balance <= 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💳 Deposit", ActionDeposit),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
			),
		)
		b.replyKeyboard(chatID, "⚠️ You need a positive balance to activate a trading bot. Please make a deposit first.", kb)
		return
	}

	text := fmt.Sprintf("🤖 *Select Trading Bot*\n\nChoose a trading bot to activate its strategy:\n\n⚠️ *Minimum Deposit Required:* $%.2f",
		b.cfg.Trading.MinActivationBalance)
	kb := tradingBotKeyboard()
	b.replyMarkdown(chatID, text, &kb)
}

func (b *Bot) selectTradingBot(userID, chatID int64, botName string) {
	def, ok := models.FindTradingBot(botName)
	if !ok {
		b.reply(chatID, "❌ Unknown trading bot. Please pick one from the list.")
		return
	}

	acc, err := b.ledger.ActivateBot(userID, botName, b.cfg.Trading.MinActivationBalance)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			kb := tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("💳 Deposit Now", ActionDeposit),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", ActionBackToMenu),
				),
			)
			b.replyMarkdown(chatID, fmt.Sprintf("⚠️ *Insufficient Balance*\n\nYou need at least *$%.2f* to activate a trading bot.\n\n💰 *Your Balance:* $%.2f\n💳 *Required:* $%.2f\n\nPlease make a deposit to continue.",
				b.cfg.Trading.MinActivationBalance, acc.Balance, b.cfg.Trading.MinActivationBalance), &kb)
		case errors.Is(err, ledger.ErrAlreadyProcessed):
			b.replyKeyboard(chatID, fmt.Sprintf("You are already using %s. Please wait while it generates profits.", botName), mainMenuButtonKeyboard())
		default:
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to activate trading bot")
			b.reply(chatID, "⚠️ An error occurred. Please try again.")
		}
		return
	}

	text := fmt.Sprintf(`✅ *%s Activated!*

📋 *Description:* %s
📈 *Expected Profit Rate:* %s per cycle
🚀 Your trading bot is now active, leveraging advanced algorithms to maximize your returns. Monitor your progress in the main menu.`,
		def.Name, def.Description, def.ProfitRate)
	kb := mainMenuButtonKeyboard()
	b.replyMarkdown(chatID, text, &kb)

	// Admin gets a visibility notice; delivery failure is not the user's problem.
	b.notifyAdmin(fmt.Sprintf(`🤖 *Trading Bot Activated*

👤 *User:* %s (ID: %d)
🤖 *Bot:* %s
📈 *Profit Rate:* %s`, acc.Name, userID, def.Name, def.ProfitRate), nil)
}
