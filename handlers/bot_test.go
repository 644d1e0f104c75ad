package handlers

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-trading-bot/config"
	"telegram-trading-bot/ledger"
	"telegram-trading-bot/storage"
)

const (
	testAdminID int64 = 999
	testUserID  int64 = 42
)

// fakeSender records every outgoing message instead of hitting Telegram.
type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// textsTo returns the text of every message sent to chatID, in order.
func (f *fakeSender) textsTo(chatID int64) []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) lastTo(t *testing.T, chatID int64) string {
	t.Helper()
	texts := f.textsTo(chatID)
	require.NotEmpty(t, texts, "expected a message to chat %d", chatID)
	return texts[len(texts)-1]
}

func (f *fakeSender) reset() { f.sent = nil }

func newTestBot(t *testing.T) (*Bot, *fakeSender, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := ledger.New(store, testAdminID)
	cfg := &config.Config{
		Telegram: config.TelegramConfig{Token: "test", AdminID: testAdminID},
		Trading: config.TradingConfig{
			MinActivationBalance: 500,
			WebsiteURL:           "https://example.com",
			SupportURL:           "https://t.me/example",
		},
	}
	api := &fakeSender{}
	return NewBot(api, store, svc, cfg), api, store
}

func userMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "tester"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func userCommand(userID int64, cmd, args string) *tgbotapi.Message {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}
	msg := userMessage(userID, text)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}}
	return msg
}

func userCallback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID, UserName: "tester"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}
}

// register walks a user through the full registration flow.
func register(t *testing.T, b *Bot, userID int64) {
	t.Helper()
	b.handleCommand(userCommand(userID, "start", ""))
	b.handleCallback(userCallback(userID, ActionStartRegistration))
	b.handleMessage(userMessage(userID, "Alice Example"))
	b.handleMessage(userMessage(userID, "alice@example.com"))
	b.handleMessage(userMessage(userID, "+15551234567"))
}

func approve(t *testing.T, b *Bot, userID int64) {
	t.Helper()
	b.handleCallback(userCallback(testAdminID, EncodeCallback(ActionApproveUser, formatID(userID))))
}

func TestRegistrationFlow(t *testing.T) {
	b, api, store := newTestBot(t)

	register(t, b, testUserID)

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", acc.Name)
	assert.Equal(t, "alice@example.com", acc.Email)
	assert.Equal(t, "+15551234567", acc.Phone)
	assert.False(t, acc.Approved)

	adminTexts := api.textsTo(testAdminID)
	require.NotEmpty(t, adminTexts)
	assert.Contains(t, adminTexts[len(adminTexts)-1], "New User Registration")
	assert.Contains(t, api.lastTo(t, testUserID), "awaiting admin confirmation")
}

func TestRegistrationApproval(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	api.reset()

	approve(t, b, testUserID)

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.True(t, acc.Approved)
	assert.Contains(t, api.lastTo(t, testUserID), "approved")
	assert.Contains(t, api.lastTo(t, testAdminID), "approved")

	// Approving twice changes nothing and tells the admin so.
	api.reset()
	approve(t, b, testUserID)
	assert.Contains(t, api.lastTo(t, testAdminID), "already approved")
}

func TestUnapprovedUserBlockedFromMenu(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	api.reset()

	b.handleCallback(userCallback(testUserID, ActionDeposit))
	assert.Contains(t, api.lastTo(t, testUserID), "awaiting admin approval")
}

func TestAdminCallbackRejectedForUser(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	api.reset()

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionApproveUser, formatID(testUserID))))

	assert.Contains(t, api.lastTo(t, testUserID), "Unauthorized")
	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.False(t, acc.Approved)
}

func TestUserCallbackRejectedForAdmin(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleCallback(userCallback(testAdminID, ActionDeposit))
	assert.Contains(t, api.lastTo(t, testAdminID), "Admins cannot access user features")
}

func TestAdminCommandRejectedForUser(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	api.reset()

	b.handleCommand(userCommand(testUserID, "listusers", ""))
	assert.Contains(t, api.lastTo(t, testUserID), "Unauthorized")
}

func TestDepositAmountReprompt(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)

	b.handleCallback(userCallback(testUserID, ActionDeposit))
	b.handleCallback(userCallback(testUserID, ActionDepositCrypto))
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectCrypto, "Bitcoin")))
	require.Equal(t, StateDepositAmount, b.sessions.Get(testUserID).State)

	api.reset()
	b.handleMessage(userMessage(testUserID, "not a number"))
	assert.Contains(t, api.lastTo(t, testUserID), "valid amount")
	assert.Equal(t, StateDepositAmount, b.sessions.Get(testUserID).State)

	b.handleMessage(userMessage(testUserID, "250"))
	sess := b.sessions.Get(testUserID)
	assert.Equal(t, StateDepositProof, sess.State)
	assert.Equal(t, 250.0, sess.DepositAmount)
	assert.Contains(t, api.lastTo(t, testUserID), "Deposit Details")
}

func TestDepositProofRequiresPhoto(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectCrypto, "Bitcoin")))
	b.handleMessage(userMessage(testUserID, "100"))

	api.reset()
	b.handleMessage(userMessage(testUserID, "here is my proof"))
	assert.Contains(t, api.lastTo(t, testUserID), "send a photo")
	assert.Equal(t, StateDepositProof, b.sessions.Get(testUserID).State)
}

func TestDepositEndToEnd(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectCrypto, "Ethereum")))
	b.handleMessage(userMessage(testUserID, "300"))

	proof := userMessage(testUserID, "")
	proof.Photo = []tgbotapi.PhotoSize{{FileID: "photo-1"}}
	api.reset()
	b.handleMessage(proof)

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, acc.PendingDeposit)
	assert.Contains(t, api.lastTo(t, testUserID), "pending admin confirmation")

	adminTexts := api.textsTo(testAdminID)
	require.NotEmpty(t, adminTexts)
	assert.Contains(t, adminTexts[0], "New Deposit Request")

	// Admin clicks the approve button.
	api.reset()
	b.handleCallback(userCallback(testAdminID, EncodeApproval(ActionApproveDeposit, testUserID, 300)))

	acc, err = store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, acc.Balance)
	assert.Zero(t, acc.PendingDeposit)
	assert.Contains(t, api.lastTo(t, testUserID), "Deposit Approved")

	// A second click is a no-op.
	api.reset()
	b.handleCallback(userCallback(testAdminID, EncodeApproval(ActionApproveDeposit, testUserID, 300)))
	assert.Contains(t, api.lastTo(t, testAdminID), "no pending deposit")
	acc, err = store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, acc.Balance)
}

func TestWithdrawAmountChecksBalance(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditBalance(t, b, 200)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectWithdraw, "BTC")))
	require.Equal(t, StateWithdrawAmount, b.sessions.Get(testUserID).State)

	api.reset()
	b.handleMessage(userMessage(testUserID, "500"))
	assert.Contains(t, api.lastTo(t, testUserID), "Insufficient balance")
	assert.Equal(t, StateWithdrawAmount, b.sessions.Get(testUserID).State)

	b.handleMessage(userMessage(testUserID, "150"))
	assert.Equal(t, StateWithdrawAddress, b.sessions.Get(testUserID).State)
}

func TestWithdrawEndToEnd(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditBalance(t, b, 200)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectWithdraw, "ETH")))
	b.handleMessage(userMessage(testUserID, "150"))
	api.reset()
	b.handleMessage(userMessage(testUserID, "0x0123456789abcdef0123456789abcdef01234567"))

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, acc.PendingWithdrawal)
	assert.Contains(t, api.lastTo(t, testAdminID), "Withdrawal Request")

	api.reset()
	b.handleCallback(userCallback(testAdminID, EncodeApproval(ActionApproveWithdrawal, testUserID, 150)))

	acc, err = store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, acc.Balance)
	assert.Equal(t, 150.0, acc.Withdrawal)
	assert.Zero(t, acc.PendingWithdrawal)
	assert.Contains(t, api.lastTo(t, testUserID), "Withdrawal Approved")
}

func TestWithdrawReject(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditBalance(t, b, 200)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectWithdraw, "BTC")))
	b.handleMessage(userMessage(testUserID, "100"))
	b.handleMessage(userMessage(testUserID, "bc1qexampleaddress"))

	api.reset()
	b.handleCallback(userCallback(testAdminID, EncodeApproval(ActionRejectWithdrawal, testUserID, 100)))

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, acc.Balance)
	assert.Zero(t, acc.PendingWithdrawal)
	assert.Contains(t, api.lastTo(t, testUserID), "Withdrawal Rejected")
}

func TestStakingAmountExceedsPool(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditStakingBalance(t, b, 100)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakeCoin, "BTC")))
	require.Equal(t, StateStakeAmount, b.sessions.Get(testUserID).State)

	api.reset()
	b.handleMessage(userMessage(testUserID, "150"))
	assert.Contains(t, api.lastTo(t, testUserID), "Insufficient Staking Balance")
	assert.Equal(t, StateMainMenu, b.sessions.Get(testUserID).State)
}

func TestStakingEndToEnd(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditStakingBalance(t, b, 200)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakeCoin, "ETH")))
	b.handleMessage(userMessage(testUserID, "80"))
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakeDuration, "60")))
	api.reset()
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakePlan, "fixed")))

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, acc.StakedBalance)
	assert.Equal(t, 80.0, acc.LockedStakeBalance)
	require.Len(t, acc.Stakes, 1)
	assert.Equal(t, "ETH", acc.Stakes[0].Coin)
	assert.Equal(t, "60 Days", acc.Stakes[0].Duration)
	assert.Contains(t, api.lastTo(t, testUserID), "successfully staked")
}

func TestStakingFlexibleSkipsPlanStep(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	creditStakingBalance(t, b, 200)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakeCoin, "SOL")))
	b.handleMessage(userMessage(testUserID, "50"))
	api.reset()
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionStakeDuration, "flex")))

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, acc.LockedStakeBalance)
	require.Len(t, acc.Stakes, 1)
	assert.Equal(t, "flexible", acc.Stakes[0].Plan)
	assert.Equal(t, "Flexible", acc.Stakes[0].Duration)
	assert.Contains(t, api.lastTo(t, testUserID), "successfully staked")
}

func TestTradingBotActivation(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)

	// Below the activation minimum.
	creditBalance(t, b, 100)
	api.reset()
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectBot, "TrendSeeker")))
	assert.Contains(t, api.lastTo(t, testUserID), "Insufficient Balance")

	creditBalance(t, b, 400)
	api.reset()
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectBot, "TrendSeeker")))
	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "TrendSeeker", acc.ActiveBot)

	// Re-selecting the active bot is reported, not re-applied.
	api.reset()
	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectBot, "TrendSeeker")))
	assert.Contains(t, api.lastTo(t, testUserID), "already using")
}

func TestAdminProfitCommand(t *testing.T) {
	b, api, store := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)
	api.reset()

	b.handleCommand(userCommand(testAdminID, "updateprofit", formatID(testUserID)+" 75.50"))

	acc, err := store.GetAccount(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 75.50, acc.Profit)
	assert.Equal(t, 75.50, acc.Balance)
	assert.Contains(t, api.lastTo(t, testUserID), "Trading Profit Credited")
}

func TestAdminCommandUsageErrors(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleCommand(userCommand(testAdminID, "approve", "notanid 100"))
	assert.Contains(t, api.lastTo(t, testAdminID), "Invalid user ID")

	api.reset()
	b.handleCommand(userCommand(testAdminID, "approve", "42"))
	assert.Contains(t, api.lastTo(t, testAdminID), "Usage:")

	api.reset()
	b.handleCommand(userCommand(testAdminID, "updatecrypto", "Bitcoin"))
	assert.Contains(t, api.lastTo(t, testAdminID), "Usage:")
}

func TestUpdateCryptoCommand(t *testing.T) {
	b, api, store := newTestBot(t)

	b.handleCommand(userCommand(testAdminID, "updatecrypto", "Bitcoin bc1qnewaddress"))
	addr, err := store.GetCryptoAddress("Bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bc1qnewaddress", addr)

	api.reset()
	b.handleCommand(userCommand(testAdminID, "updatecrypto", "Dogecoin D6address"))
	assert.Contains(t, api.lastTo(t, testAdminID), "Unknown currency")

	api.reset()
	b.handleCommand(userCommand(testAdminID, "updatecrypto", "Ethereum 0xnothex"))
	assert.Contains(t, api.lastTo(t, testAdminID), "not valid")
}

func TestListUsersCommand(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	api.reset()

	b.handleCommand(userCommand(testAdminID, "listusers", ""))
	out := api.lastTo(t, testAdminID)
	assert.Contains(t, out, "Alice Example")
	assert.Contains(t, out, formatID(testUserID))
}

func TestCancelResetsFlow(t *testing.T) {
	b, api, _ := newTestBot(t)
	register(t, b, testUserID)
	approve(t, b, testUserID)

	b.handleCallback(userCallback(testUserID, EncodeCallback(ActionSelectCrypto, "Bitcoin")))
	require.Equal(t, StateDepositAmount, b.sessions.Get(testUserID).State)

	api.reset()
	b.handleCallback(userCallback(testUserID, ActionCancel))
	sess := b.sessions.Get(testUserID)
	assert.Empty(t, sess.DepositCurrency)
	texts := strings.Join(api.textsTo(testUserID), "\n")
	assert.Contains(t, texts, "cancelled")
}

func TestMalformedCallbackIgnored(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleCallback(userCallback(testUserID, "bogus:::"))
	assert.Empty(t, api.textsTo(testUserID))
}

// creditBalance runs a deposit through the ledger as the admin would.
func creditBalance(t *testing.T, b *Bot, amount float64) {
	t.Helper()
	_, err := b.ledger.RequestDeposit(testUserID, amount, false)
	require.NoError(t, err)
	_, _, err = b.ledger.ApproveDeposit(testAdminID, testUserID, amount)
	require.NoError(t, err)
}

// creditStakingBalance is creditBalance with the staking tag set.
func creditStakingBalance(t *testing.T, b *Bot, amount float64) {
	t.Helper()
	_, err := b.ledger.RequestDeposit(testUserID, amount, true)
	require.NoError(t, err)
	_, _, err = b.ledger.ApproveDeposit(testAdminID, testUserID, amount)
	require.NoError(t, err)
}
