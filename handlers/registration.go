package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/logger"
)

const welcomeText = `🌟 *Welcome to Nova Capital Wealth Trading Bot* 🌟

Your trusted trading bot in achieving consistent and secure trading success. Designed with cutting-edge algorithms and advanced market analysis, Nova Capital Wealth stands out as one of the best trading bots in the industry, delivering strong and steady profit potential.

With a focus on safety, transparency, and efficiency, our bot operates within a secure trading environment, ensuring that your investments are well-protected while maximizing opportunities in the market.

Nova Capital Wealth Trading Bot offers you the perfect balance of high performance and peace of mind. Ready to unlock your financial potential? Click "START NOW" to begin!`

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	acc, err := b.ledger.Account(userID, msg.From.UserName)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}

	if acc.HasIdentity() {
		if acc.Approved {
			b.showMainMenu(userID, chatID)
			return
		}
		b.reply(chatID, "⏳ Your account is awaiting admin approval. You'll be notified once your account is activated.")
		return
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 START NOW", ActionStartRegistration),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
	b.replyMarkdown(chatID, welcomeText, &kb)
}

func (b *Bot) startRegistration(userID, chatID int64) {
	b.sessions.Update(userID, func(sess *Session) {
		*sess = Session{State: StateAwaitingName}
	})
	kb := cancelKeyboard()
	b.replyKeyboard(chatID, "Please enter your full name:", kb)
}

// handleRegistrationInput stores one field per state, trimmed verbatim, and
// advances. Fields are persisted as captured, so a cancelled flow resumes
// from the first missing field.
func (b *Bot) handleRegistrationInput(msg *tgbotapi.Message, state State) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text == "" {
		b.replyKeyboard(chatID, "Please enter a value:", cancelKeyboard())
		return
	}

	acc, err := b.ledger.Account(userID, msg.From.UserName)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}

	switch state {
	case StateAwaitingName:
		acc.Name = text
		if err := b.store.SaveAccount(acc); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save name")
			b.reply(chatID, "⚠️ An error occurred. Please try again.")
			return
		}
		b.sessions.SetState(userID, StateAwaitingEmail)
		b.replyKeyboard(chatID, "Please enter your email address:", cancelKeyboard())

	case StateAwaitingEmail:
		acc.Email = text
		if err := b.store.SaveAccount(acc); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save email")
			b.reply(chatID, "⚠️ An error occurred. Please try again.")
			return
		}
		b.sessions.SetState(userID, StateAwaitingPhone)
		b.replyKeyboard(chatID, "Please enter your phone number:", cancelKeyboard())

	case StateAwaitingPhone:
		acc.Phone = text
		acc.Approved = false
		if err := b.store.SaveAccount(acc); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save phone")
			b.reply(chatID, "⚠️ An error occurred. Please try again.")
			return
		}
		b.sessions.Reset(userID)

		adminMsg := fmt.Sprintf(`👤 *New User Registration*

🆔 *User ID:* %d
👤 *Name:* %s
📧 *Email:* %s
📱 *Phone:* %s

Click 'Approve' to activate this user's account.`, userID, acc.Name, acc.Email, acc.Phone)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", EncodeCallback(ActionApproveUser, formatID(userID))),
			),
		)
		b.notifyAdmin(adminMsg, &kb)

		b.reply(chatID, fmt.Sprintf("Welcome, %s! Your registration is awaiting admin confirmation. You'll be notified once approved.", acc.Name))
		logger.Info().Int64("user_id", userID).Msg("registration completed, awaiting approval")
	}
}

// cancelOperation aborts any in-progress flow and clears its transient
// selections.
func (b *Bot) cancelOperation(userID, chatID int64) {
	b.sessions.Reset(userID)

	acc, err := b.store.GetAccount(userID)
	if err == nil && acc.HasIdentity() && acc.Approved {
		b.reply(chatID, "❌ Operation cancelled. Returning to main menu.")
		b.showMainMenu(userID, chatID)
		return
	}
	b.reply(chatID, "❌ Operation cancelled. Use /start to begin again.")
}
