package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
)

func menuText(acc *models.Account) string {
	return fmt.Sprintf(`🎉 *Welcome, %s!* 🎉

💰 *Available Balance:* $%.2f
🎯 *Staking Balance:* $%.2f
🔒 *Locked Stake:* $%.2f
📈 *Deposit:* $%.2f
📊 *Profit:* $%.2f
📉 *Withdrawal:* $%.2f`,
		acc.Name, acc.AvailableBalance(), acc.StakedBalance, acc.LockedStakeBalance,
		acc.Deposit, acc.Profit, acc.Withdrawal)
}

// showMainMenu displays the hub. Entering the hub drops any in-progress
// sub-flow state.
func (b *Bot) showMainMenu(userID, chatID int64) {
	acc, err := b.store.GetAccount(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account for menu")
		b.reply(chatID, "⚠️ Failed to load main menu. Please try again.")
		return
	}
	b.sessions.Update(userID, func(sess *Session) {
		*sess = Session{State: StateMainMenu}
	})
	kb := b.mainMenuKeyboard()
	b.replyMarkdown(chatID, menuText(acc), &kb)
}

func (b *Bot) visitWebsite(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Visit Nova Capital Wealth", b.cfg.Trading.WebsiteURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", ActionBackToMenu),
		),
	)
	b.replyMarkdown(chatID, "🌐 *Visit Our Website*\n\nClick the button below to access your trading account:", &kb)
}
