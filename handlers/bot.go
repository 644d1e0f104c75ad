package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-trading-bot/config"
	"telegram-trading-bot/ledger"
	"telegram-trading-bot/logger"
	"telegram-trading-bot/storage"
)

// Sender is the slice of the Telegram API the handlers depend on. Satisfied
// by *tgbotapi.BotAPI; tests substitute a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      Sender
	store    storage.Store
	ledger   *ledger.Service
	cfg      *config.Config
	sessions *Sessions
}

func NewBot(api Sender, store storage.Store, svc *ledger.Service, cfg *config.Config) *Bot {
	return &Bot{
		api:      api,
		store:    store,
		ledger:   svc,
		cfg:      cfg,
		sessions: NewSessions(),
	}
}

// StartBot runs the long-polling update loop until the channel closes.
func StartBot(api *tgbotapi.BotAPI, store storage.Store, svc *ledger.Service, cfg *config.Config) {
	b := NewBot(api, store, svc, cfg)

	b.sendAdminPanel()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for update := range updates {
		b.HandleUpdate(update)
	}
}

// HandleUpdate dispatches one incoming update. A panic in a handler is
// reported to the user as a generic failure and never kills the loop.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("recovered from handler panic")
			if chatID := updateChatID(update); chatID != 0 {
				b.reply(chatID, "⚠️ An error occurred. Please try again or contact support if the problem persists.")
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	return 0
}

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.cfg.Telegram.AdminID
}

// handleCallback is the single authorization gate for inline buttons:
// admin actions are rejected for everyone else, user flows are rejected
// for the admin, before any business logic runs.
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	b.answer(query, "")

	cb, err := ParseCallback(query.Data)
	if err != nil {
		logger.Warn().Err(err).Str("data", query.Data).Msg("undecodable callback")
		return
	}
	if query.Message == nil {
		return
	}
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	if cb.IsAdminAction() {
		if !b.isAdmin(userID) {
			logger.Warn().Int64("user_id", userID).Str("action", cb.Action).Msg("unauthorized admin callback")
			b.reply(chatID, "❌ Unauthorized access.")
			return
		}
		b.handleAdminCallback(query, cb)
		return
	}

	if b.isAdmin(userID) {
		b.reply(chatID, "Admins cannot access user features. Use admin commands like /adminpanel or /listusers.")
		return
	}
	b.handleUserCallback(query, cb)
}

func (b *Bot) handleUserCallback(query *tgbotapi.CallbackQuery, cb Callback) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	// Registration-stage actions need no approved account.
	switch cb.Action {
	case ActionStartRegistration:
		b.startRegistration(userID, chatID)
		return
	case ActionCancel:
		b.cancelOperation(userID, chatID)
		return
	}

	acc, err := b.ledger.Account(userID, query.From.UserName)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load account")
		b.reply(chatID, "⚠️ An error occurred. Please try again.")
		return
	}
	if !acc.Approved {
		b.reply(chatID, "⏳ Your account is awaiting admin approval. You'll be notified once your account is activated.")
		return
	}

	switch cb.Action {
	case ActionBackToMenu, ActionRefreshBalance:
		if cb.Action == ActionRefreshBalance {
			b.answer(query, "Balance refreshed! 🔄")
		}
		b.showMainMenu(userID, chatID)
	case ActionVisitWebsite:
		b.visitWebsite(chatID)
	case ActionDeposit:
		b.showDepositMethods(userID, chatID, false)
	case ActionDepositCrypto:
		b.showCryptoOptions(chatID)
	case ActionSelectCrypto:
		b.selectDepositCurrency(userID, chatID, cb.Arg)
	case ActionCopyAddress:
		b.copyAddress(query, chatID, cb.Arg)
	case ActionPaymentMade:
		b.paymentMade(userID, chatID)
	case ActionWithdraw:
		b.showWithdrawOptions(chatID)
	case ActionWithdrawCrypto:
		b.showWithdrawCurrencies(chatID)
	case ActionSelectWithdraw:
		b.selectWithdrawCurrency(userID, chatID, cb.Arg)
	case ActionTradingBot:
		b.showTradingBots(chatID, acc)
	case ActionSelectBot:
		b.selectTradingBot(userID, chatID, cb.Arg)
	case ActionStake:
		b.showStakingDashboard(chatID, acc)
	case ActionStakeDeposit:
		b.showDepositMethods(userID, chatID, true)
	case ActionStartStaking:
		b.startStaking(chatID, acc)
	case ActionStakeCoin:
		b.selectStakingCoin(userID, chatID, cb.Arg, acc)
	case ActionStakeDuration:
		b.selectStakingDuration(userID, chatID, cb.Arg)
	case ActionStakePlan:
		b.selectStakingPlan(userID, chatID, cb.Arg)
	default:
		logger.Warn().Str("action", cb.Action).Msg("unrouted user callback")
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if b.isAdmin(userID) {
			b.reply(chatID, "Admins cannot access user features. Use admin commands like /adminpanel or /listusers.")
			return
		}
		b.handleStart(msg)
	case "getid":
		b.reply(chatID, "Your User ID is: "+formatID(userID))
	case "adminpanel", "listusers", "adminhelp", "approveuser", "approve",
		"approvewithdrawal", "rejectwithdrawal", "updateprofit", "updatecrypto",
		"updatestake", "updatelocked", "releasestake":
		if !b.isAdmin(userID) {
			logger.Warn().Int64("user_id", userID).Str("command", msg.Command()).Msg("unauthorized admin command")
			b.reply(chatID, "❌ Unauthorized access.")
			return
		}
		b.handleAdminCommand(msg)
	default:
		b.reply(chatID, "Unknown command. Type /start to begin.")
	}
}

// handleMessage routes free text and photos by conversation state.
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if b.isAdmin(userID) {
		return
	}

	sess := b.sessions.Get(userID)
	switch sess.State {
	case StateAwaitingName, StateAwaitingEmail, StateAwaitingPhone:
		b.handleRegistrationInput(msg, sess.State)
	case StateDepositAmount:
		b.handleDepositAmount(userID, chatID, msg.Text)
	case StateDepositProof:
		b.handleDepositProof(msg)
	case StateWithdrawAmount:
		b.handleWithdrawAmount(userID, chatID, msg.Text)
	case StateWithdrawAddress:
		b.handleWithdrawAddress(userID, chatID, msg.Text)
	case StateStakeAmount:
		b.handleStakingAmount(userID, chatID, msg.Text)
	default:
		b.reply(chatID, "Please use the main menu. Click 'START NOW' or type /start to begin.")
	}
}
