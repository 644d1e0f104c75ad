package handlers

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
)

func (b *Bot) showWithdrawOptions(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Select Crypto for Withdrawal", ActionWithdrawCrypto),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", ActionCancel),
		),
	)
	b.replyKeyboard(chatID, "Please select the cryptocurrency you want to withdraw:", kb)
}

func (b *Bot) showWithdrawCurrencies(chatID int64) {
	b.replyKeyboard(chatID, "Please select the cryptocurrency you wish to withdraw:", withdrawCurrencyKeyboard())
}

func (b *Bot) selectWithdrawCurrency(userID, chatID int64, symbol string) {
	network, ok := models.WithdrawNetworks[symbol]
	if !ok {
		b.reply(chatID, "❌ Unknown cryptocurrency. Please pick one from the list.")
		return
	}
	b.sessions.Update(userID, func(sess *Session) {
		sess.WithdrawCurrency = symbol
		sess.State = StateWithdrawAmount
	})
	kb := cancelKeyboard()
	b.replyMarkdown(chatID, fmt.Sprintf("You selected *%s*. Network: %s.\nEnter the amount you want to withdraw in USD:", symbol, network), &kb)
}

// handleWithdrawAmount validates the amount against the current balance;
// invalid input re-prompts with the actual balance shown.
func (b *Bot) handleWithdrawAmount(userID, chatID int64, text string) {
	amount, ok := parseAmount(text)
	if !ok {
		b.replyKeyboard(chatID, "Please enter a valid amount (numeric value only):", cancelKeyboard())
		return
	}

	acc, err := b.store.GetAccount(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}
	if amount > acc.Balance {
		b.replyKeyboard(chatID, fmt.Sprintf("Insufficient balance. Your available balance is $%.2f", acc.Balance), cancelKeyboard())
		return
	}

	sess := b.sessions.Get(userID)
	network := models.WithdrawNetworks[sess.WithdrawCurrency]
	b.sessions.Update(userID, func(s *Session) {
		s.WithdrawAmount = amount
		s.State = StateWithdrawAddress
	})
	b.replyKeyboard(chatID, fmt.Sprintf("Please enter your %s wallet address (Network: %s):", sess.WithdrawCurrency, network), cancelKeyboard())
}

// handleWithdrawAddress records the pending withdrawal and forwards the
// request to the admin with approve/reject buttons.
func (b *Bot) handleWithdrawAddress(userID, chatID int64, text string) {
	address := strings.TrimSpace(text)
	if address == "" {
		b.replyKeyboard(chatID, "Please enter a wallet address:", cancelKeyboard())
		return
	}

	sess := b.sessions.Get(userID)
	acc, err := b.ledger.RequestWithdrawal(userID, sess.WithdrawAmount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrPendingExists):
			b.replyKeyboard(chatID, "⏳ You already have a withdrawal awaiting confirmation. Please wait for the admin to process it.", mainMenuButtonKeyboard())
		case errors.Is(err, ledger.ErrInsufficientBalance):
			b.replyKeyboard(chatID, "Insufficient balance for this withdrawal.", mainMenuButtonKeyboard())
		case errors.Is(err, ledger.ErrValidation):
			b.replyKeyboard(chatID, "⚠️ Withdrawal amount is missing. Please start the withdrawal again.", mainMenuButtonKeyboard())
		default:
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to record pending withdrawal")
			b.replyKeyboard(chatID, "⚠️ Failed to process withdrawal request. Please try again or contact support.", mainMenuButtonKeyboard())
		}
		b.sessions.SetState(userID, StateMainMenu)
		return
	}

	network := models.WithdrawNetworks[sess.WithdrawCurrency]
	adminMsg := fmt.Sprintf(`💸 *Crypto Withdrawal Request*

👤 *User:* %s (ID: %d)
💰 *Amount:* $%.2f
🪙 *Crypto:* %s (%s)
🏦 *Crypto Address:* %s
📱 *Phone:* %s
📧 *Email:* %s

Click 'Approve' to confirm this withdrawal.`,
		acc.Name, userID, sess.WithdrawAmount, sess.WithdrawCurrency, network, address, acc.Phone, acc.Email)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", EncodeApproval(ActionApproveWithdrawal, userID, sess.WithdrawAmount)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", EncodeApproval(ActionRejectWithdrawal, userID, sess.WithdrawAmount)),
		),
	)
	b.notifyAdmin(adminMsg, &kb)

	b.sessions.SetState(userID, StateMainMenu)
	b.replyKeyboard(chatID, "Your withdrawal request is pending admin confirmation.", mainMenuButtonKeyboard())
}
