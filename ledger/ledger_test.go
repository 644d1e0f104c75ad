package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-trading-bot/models"
	"telegram-trading-bot/storage"
)

const (
	adminID = int64(999)
	userID  = int64(100)
)

func newService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return New(store, adminID), store
}

func registeredAccount(t *testing.T, store *storage.MemoryStore, balance float64) *models.Account {
	t.Helper()
	acc, err := store.EnsureAccount(userID, "alice")
	require.NoError(t, err)
	acc.Name = "Alice"
	acc.Email = "a@x.com"
	acc.Phone = "555"
	acc.Approved = true
	acc.Balance = balance
	require.NoError(t, store.SaveAccount(acc))
	return acc
}

func TestRegistrationApprovalFlow(t *testing.T) {
	svc, store := newService(t)

	acc, err := store.EnsureAccount(userID, "alice")
	require.NoError(t, err)
	acc.Name = "Alice"
	acc.Email = "a@x.com"
	acc.Phone = "555"
	require.NoError(t, store.SaveAccount(acc))
	assert.False(t, acc.Approved)

	approved, err := svc.ApproveRegistration(adminID, userID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	// Second approval is an informational no-op.
	_, err = svc.ApproveRegistration(adminID, userID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestApproveRegistrationUnknownUser(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ApproveRegistration(adminID, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveDepositIdempotent(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 0)

	_, err := svc.RequestDeposit(userID, 200, false)
	require.NoError(t, err)

	acc, staking, err := svc.ApproveDeposit(adminID, userID, 200)
	require.NoError(t, err)
	assert.False(t, staking)
	assert.Equal(t, 200.0, acc.Balance)
	assert.Equal(t, 200.0, acc.Deposit)
	assert.Zero(t, acc.PendingDeposit)

	// Double-click on the approve button credits only once.
	acc, _, err = svc.ApproveDeposit(adminID, userID, 200)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 200.0, acc.Balance)
}

func TestApproveStakingDeposit(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 0)

	_, err := svc.RequestDeposit(userID, 150, true)
	require.NoError(t, err)

	acc, staking, err := svc.ApproveDeposit(adminID, userID, 150)
	require.NoError(t, err)
	assert.True(t, staking)
	assert.Equal(t, 150.0, acc.Balance)
	assert.Equal(t, 150.0, acc.StakedBalance)
}

func TestSecondDepositRequestRejected(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 0)

	_, err := svc.RequestDeposit(userID, 100, false)
	require.NoError(t, err)
	_, err = svc.RequestDeposit(userID, 50, false)
	assert.ErrorIs(t, err, ErrPendingExists)

	// The first request survives untouched.
	acc, err := store.GetAccount(userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, acc.PendingDeposit)
}

func TestApproveWithdrawalNeverOverdraws(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 100)
	acc.PendingWithdrawal = 150
	require.NoError(t, store.SaveAccount(acc))

	got, err := svc.ApproveWithdrawal(adminID, userID, 150)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 100.0, got.Balance)

	// Pending amount stays set for a later retry or explicit reject.
	fresh, err := store.GetAccount(userID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, fresh.PendingWithdrawal)
}

func TestApproveWithdrawal(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 300)

	_, err := svc.RequestWithdrawal(userID, 120)
	require.NoError(t, err)

	acc, err := svc.ApproveWithdrawal(adminID, userID, 120)
	require.NoError(t, err)
	assert.Equal(t, 180.0, acc.Balance)
	assert.Equal(t, 120.0, acc.Withdrawal)
	assert.Zero(t, acc.PendingWithdrawal)
	assert.GreaterOrEqual(t, acc.Balance, 0.0)

	_, err = svc.ApproveWithdrawal(adminID, userID, 120)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestRejectWithdrawalKeepsBalance(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 100)
	acc.PendingWithdrawal = 50
	require.NoError(t, store.SaveAccount(acc))

	got, err := svc.RejectWithdrawal(adminID, userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Balance)
	assert.Zero(t, got.PendingWithdrawal)

	_, err = svc.RejectWithdrawal(adminID, userID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestRequestWithdrawalChecksBalance(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 40)

	_, err := svc.RequestWithdrawal(userID, 50)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	_, err = svc.RequestWithdrawal(userID, -5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfit(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 100)

	acc, err := svc.UpdateProfit(adminID, userID, 25)
	require.NoError(t, err)
	assert.Equal(t, 125.0, acc.Balance)
	assert.Equal(t, 25.0, acc.Profit)

	// A negative adjustment never drives the balance below zero.
	acc, err = svc.UpdateProfit(adminID, userID, -500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc.Balance)
}

func TestStakingRoundTrip(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 200)
	acc.StakedBalance = 200
	require.NoError(t, store.SaveAccount(acc))

	got, err := svc.OpenStake(userID, "ETH", 80, "fixed", "30 Days")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.StakedBalance)
	assert.Equal(t, 80.0, got.LockedStakeBalance)
	require.Len(t, got.Stakes, 1)
	assert.Equal(t, 80.0, got.Stakes[0].Amount)
	assert.Equal(t, "Active", got.Stakes[0].Status)

	got, err = svc.ReleaseStake(adminID, userID, 80)
	require.NoError(t, err)
	assert.Zero(t, got.LockedStakeBalance)
	assert.Equal(t, 280.0, got.Balance)
}

func TestOpenStakeRevalidatesPool(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 100)
	acc.StakedBalance = 50
	require.NoError(t, store.SaveAccount(acc))

	_, err := svc.OpenStake(userID, "BTC", 80, "flexible", "Flexible")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	fresh, err := store.GetAccount(userID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fresh.StakedBalance)
	assert.Zero(t, fresh.LockedStakeBalance)
}

func TestReleaseStakeChecksLockedPool(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 0)
	acc.LockedStakeBalance = 30
	require.NoError(t, store.SaveAccount(acc))

	_, err := svc.ReleaseStake(adminID, userID, 50)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestStakeAdjustmentsClampAtZero(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 0)
	acc.StakedBalance = 10
	acc.LockedStakeBalance = 10
	require.NoError(t, store.SaveAccount(acc))

	got, err := svc.UpdateStake(adminID, userID, -25)
	require.NoError(t, err)
	assert.Zero(t, got.StakedBalance)

	got, err = svc.UpdateLockedStake(adminID, userID, -25)
	require.NoError(t, err)
	assert.Zero(t, got.LockedStakeBalance)
}

func TestUpdateCryptoAddress(t *testing.T) {
	svc, store := newService(t)

	err := svc.UpdateCryptoAddress(adminID, "Bitcoin", "bc1qreplacement")
	require.NoError(t, err)
	addr, err := store.GetCryptoAddress("Bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bc1qreplacement", addr)

	// Unknown currencies are rejected and the registry is left unchanged.
	err = svc.UpdateCryptoAddress(adminID, "Dogecoin", "D12345")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	// Malformed EVM addresses are rejected.
	err = svc.UpdateCryptoAddress(adminID, "Ethereum", "0xnothex")
	assert.ErrorIs(t, err, ErrValidation)
	addr, err = store.GetCryptoAddress("Ethereum")
	require.NoError(t, err)
	assert.Equal(t, "0x251601f4c7f9708a5a2E1A1A0ead87886D28FD6A", addr)
}

func TestUnauthorizedCallerChangesNothing(t *testing.T) {
	svc, store := newService(t)
	acc := registeredAccount(t, store, 100)
	acc.PendingDeposit = 50
	acc.PendingWithdrawal = 25
	require.NoError(t, store.SaveAccount(acc))

	intruder := int64(777)

	_, err := svc.ApproveRegistration(intruder, userID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.ApproveDeposit(intruder, userID, 50)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ApproveWithdrawal(intruder, userID, 25)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.RejectWithdrawal(intruder, userID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.UpdateProfit(intruder, userID, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
	err = svc.UpdateCryptoAddress(intruder, "Bitcoin", "bc1qx")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ReleaseStake(intruder, userID, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ListAccounts(intruder)
	assert.ErrorIs(t, err, ErrUnauthorized)

	fresh, err := store.GetAccount(userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, fresh.Balance)
	assert.Equal(t, 50.0, fresh.PendingDeposit)
	assert.Equal(t, 25.0, fresh.PendingWithdrawal)
}

func TestActivateBot(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 600)

	acc, err := svc.ActivateBot(userID, "TrendSeeker", 500)
	require.NoError(t, err)
	assert.Equal(t, "TrendSeeker", acc.ActiveBot)

	// Re-selecting the active bot is a notice, not a change.
	_, err = svc.ActivateBot(userID, "TrendSeeker", 500)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// Switching bots is allowed.
	acc, err = svc.ActivateBot(userID, "StableCore", 500)
	require.NoError(t, err)
	assert.Equal(t, "StableCore", acc.ActiveBot)
}

func TestActivateBotMinimumBalance(t *testing.T) {
	svc, store := newService(t)
	registeredAccount(t, store, 100)

	_, err := svc.ActivateBot(userID, "TrendSeeker", 500)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}
