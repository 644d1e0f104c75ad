package handlers

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/logger"
)

// send delivers a message, logging delivery failures without propagating
// them: a committed state change is never rolled back because the user
// blocked the bot.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Error().Err(err).Msg("failed to send message")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) replyMarkdown(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	b.send(msg)
}

func (b *Bot) answer(query *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, text)); err != nil {
		logger.Warn().Err(err).Msg("failed to answer callback query")
	}
}

func (b *Bot) forward(toChatID, fromChatID int64, messageID int) {
	if _, err := b.api.Send(tgbotapi.NewForward(toChatID, fromChatID, messageID)); err != nil {
		logger.Error().Err(err).Msg("failed to forward message")
	}
}

// notifyAdmin sends a message to the configured admin chat.
func (b *Bot) notifyAdmin(text string, kb *tgbotapi.InlineKeyboardMarkup) {
	b.replyMarkdown(b.cfg.Telegram.AdminID, text, kb)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseAmount parses a user-entered USD amount; the second return is false
// for non-numeric or non-positive input.
func parseAmount(text string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}
