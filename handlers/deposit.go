package handlers

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
)

// showDepositMethods starts the deposit sub-flow. When forStaking is set
// the eventual deposit is tagged so approval also credits the staking pool.
func (b *Bot) showDepositMethods(userID, chatID int64, forStaking bool) {
	b.sessions.Update(userID, func(sess *Session) {
		sess.DepositForStaking = forStaking
	})
	text := "How would you like to deposit?"
	if forStaking {
		text = "🎯 *Deposit to Stake*\n\nChoose your preferred deposit method:"
	}
	kb := depositMethodKeyboard()
	b.replyMarkdown(chatID, text, &kb)
}

func (b *Bot) showCryptoOptions(chatID int64) {
	entries, err := b.store.ListCryptoAddresses()
	if err != nil {
		logger.Error().Err(err).Msg("failed to list crypto addresses")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}
	b.replyKeyboard(chatID, "Select your preferred cryptocurrency:", cryptoListKeyboard(entries))
}

func (b *Bot) selectDepositCurrency(userID, chatID int64, currency string) {
	if _, err := b.store.GetCryptoAddress(currency); err != nil {
		b.reply(chatID, "❌ Unknown cryptocurrency. Please pick one from the list.")
		return
	}
	b.sessions.Update(userID, func(sess *Session) {
		sess.DepositCurrency = currency
		sess.State = StateDepositAmount
	})
	b.replyKeyboard(chatID, "Enter the amount you want to deposit in USD:", cancelKeyboard())
}

// handleDepositAmount validates the entered amount; invalid input re-prompts
// the same step.
func (b *Bot) handleDepositAmount(userID, chatID int64, text string) {
	amount, ok := parseAmount(text)
	if !ok {
		b.replyKeyboard(chatID, "Please enter a valid amount (numeric value only):", cancelKeyboard())
		return
	}

	sess := b.sessions.Get(userID)
	address, err := b.store.GetCryptoAddress(sess.DepositCurrency)
	if err != nil {
		logger.Error().Err(err).Str("currency", sess.DepositCurrency).Msg("deposit currency vanished mid-flow")
		b.reply(chatID, "⚠️ An error occurred. Please start the deposit again.")
		b.showMainMenu(userID, chatID)
		return
	}

	b.sessions.Update(userID, func(s *Session) {
		s.DepositAmount = amount
		s.State = StateDepositProof
	})

	text = fmt.Sprintf(`💳 *Deposit Details*

💰 *Amount:* $%.2f
🪙 *Cryptocurrency:* %s
🏦 *Wallet Address:* `+"`%s`"+`
⚠️ *Security Warning:* Never share your payment details publicly. Only send to the address above.

Click "Copy Address" to automatically copy the wallet address to your clipboard.`, amount, sess.DepositCurrency, address)
	kb := depositDetailsKeyboard(sess.DepositCurrency)
	b.replyMarkdown(chatID, text, &kb)
}

// copyAddress re-sends the deposit address as a tappable code block.
func (b *Bot) copyAddress(query *tgbotapi.CallbackQuery, chatID int64, currency string) {
	address, err := b.store.GetCryptoAddress(currency)
	if err != nil {
		b.reply(chatID, "❌ Unknown cryptocurrency.")
		return
	}
	b.answer(query, "📋 Address sent below — tap to copy!")
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("<code>%s</code>\n\n👆 <b>Tap the address above to copy it</b>", address))
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) paymentMade(userID, chatID int64) {
	b.sessions.SetState(userID, StateDepositProof)
	b.replyKeyboard(chatID, "Please send a screenshot of your payment as proof:", cancelKeyboard())
}

// handleDepositProof takes the proof photo, records the pending deposit and
// forwards everything to the admin with a one-click approve button.
func (b *Bot) handleDepositProof(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if len(msg.Photo) == 0 {
		b.reply(chatID, "⚠️ Please send a photo as proof of payment.")
		return
	}

	sess := b.sessions.Get(userID)
	acc, err := b.ledger.RequestDeposit(userID, sess.DepositAmount, sess.DepositForStaking)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrPendingExists):
			b.replyKeyboard(chatID, "⏳ You already have a deposit awaiting confirmation. Please wait for the admin to process it.", mainMenuButtonKeyboard())
		case errors.Is(err, ledger.ErrValidation):
			b.replyKeyboard(chatID, "⚠️ Deposit amount is missing. Please start the deposit again.", mainMenuButtonKeyboard())
		default:
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to record pending deposit")
			b.replyKeyboard(chatID, "⚠️ Failed to process deposit proof. Please try again or contact support.", mainMenuButtonKeyboard())
		}
		b.sessions.SetState(userID, StateMainMenu)
		return
	}

	header := "💳 *New Deposit Request*"
	if sess.DepositForStaking {
		header = "🎯 *Staking Deposit*"
	}
	adminMsg := fmt.Sprintf(`%s

👤 *User:* %s (ID: %d)
💰 *Amount:* $%.2f
🪙 *Crypto:* %s
📱 *Phone:* %s
📧 *Email:* %s

Click 'Approve' to confirm this deposit.`,
		header, acc.Name, userID, sess.DepositAmount, sess.DepositCurrency, acc.Phone, acc.Email)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", EncodeApproval(ActionApproveDeposit, userID, sess.DepositAmount)),
		),
	)
	b.notifyAdmin(adminMsg, &kb)
	b.forward(b.cfg.Telegram.AdminID, chatID, msg.MessageID)

	b.sessions.SetState(userID, StateMainMenu)
	b.replyKeyboard(chatID, "Your deposit is pending admin confirmation. You'll be notified once it's processed.", mainMenuButtonKeyboard())
}
