package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"telegram-trading-bot/logger"
	"telegram-trading-bot/models"
	"telegram-trading-bot/storage"
)

// Service owns every mutation of the account ledger and the crypto address
// registry. Admin-only operations check the caller against the configured
// admin id; there is exactly one definition of each operation, shared by the
// inline-button and text-command surfaces.
type Service struct {
	store   storage.Store
	adminID int64
	locks   sync.Map // telegram id -> *sync.Mutex
}

func New(store storage.Store, adminID int64) *Service {
	return &Service{store: store, adminID: adminID}
}

// lock serializes read-modify-write per account so a check-pending /
// clear-pending pair can never interleave.
func (s *Service) lock(telegramID int64) func() {
	v, _ := s.locks.LoadOrStore(telegramID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) authorize(callerID int64) error {
	if callerID != s.adminID {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) audit(adminID int64, action string, targetID int64, details string) {
	entry := models.AdminLog{
		AdminTgID: adminID,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := s.store.AppendAdminLog(entry); err != nil {
		logger.Warn().Err(err).Str("action", action).Msg("failed to append admin log")
	}
}

// Account fetches a ledger record, creating it on first contact.
func (s *Service) Account(telegramID int64, username string) (*models.Account, error) {
	return s.store.EnsureAccount(telegramID, username)
}

// ApproveRegistration grants an awaiting user access to the main menu.
func (s *Service) ApproveRegistration(callerID, userID int64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !acc.HasIdentity() {
		return nil, ErrNotFound
	}
	if acc.Approved {
		return acc, ErrAlreadyProcessed
	}
	acc.Approved = true
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "approve_registration", userID, acc.Name)
	return acc, nil
}

// RequestDeposit records a user's pending deposit. A second request while
// one is outstanding is rejected rather than overwriting the first.
func (s *Service) RequestDeposit(userID int64, amount float64, staking bool) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if acc.PendingDeposit != 0 {
		return nil, ErrPendingExists
	}
	acc.PendingDeposit = amount
	acc.PendingDepositStaking = staking
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ApproveDeposit credits the pending deposit. The second call for the same
// pending amount is a no-op returning ErrAlreadyProcessed. The returned bool
// reports whether the deposit was tagged for staking.
func (s *Service) ApproveDeposit(callerID, userID int64, amount float64) (*models.Account, bool, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, false, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, false, ErrNotFound
	}
	if acc.PendingDeposit == 0 {
		return acc, false, ErrAlreadyProcessed
	}
	staking := acc.PendingDepositStaking

	acc.Balance += amount
	acc.Deposit += amount
	if staking {
		acc.StakedBalance += amount
	}
	acc.PendingDeposit = 0
	acc.PendingDepositStaking = false
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, false, err
	}
	s.audit(callerID, "approve_deposit", userID, fmt.Sprintf("$%.2f staking=%v", amount, staking))
	return acc, staking, nil
}

// RequestWithdrawal records a user's pending withdrawal.
func (s *Service) RequestWithdrawal(userID int64, amount float64) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if acc.PendingWithdrawal != 0 {
		return nil, ErrPendingExists
	}
	if amount > acc.Balance {
		return acc, ErrInsufficientBalance
	}
	acc.PendingWithdrawal = amount
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ApproveWithdrawal debits the balance for a pending withdrawal. When the
// balance no longer covers the amount the pending state is left set so the
// admin can retry later or reject explicitly.
func (s *Service) ApproveWithdrawal(callerID, userID int64, amount float64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if acc.PendingWithdrawal == 0 {
		return acc, ErrAlreadyProcessed
	}
	if amount > acc.Balance {
		return acc, ErrInsufficientBalance
	}
	acc.Balance -= amount
	acc.Withdrawal += amount
	acc.PendingWithdrawal = 0
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "approve_withdrawal", userID, fmt.Sprintf("$%.2f", amount))
	return acc, nil
}

// RejectWithdrawal clears the pending withdrawal without touching the balance.
func (s *Service) RejectWithdrawal(callerID, userID int64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if acc.PendingWithdrawal == 0 {
		return acc, ErrAlreadyProcessed
	}
	acc.PendingWithdrawal = 0
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "reject_withdrawal", userID, "")
	return acc, nil
}

// UpdateProfit adds to both profit and balance. The balance floor is zero.
func (s *Service) UpdateProfit(callerID, userID int64, amount float64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	acc.Profit += amount
	acc.Balance += amount
	if acc.Balance < 0 {
		acc.Balance = 0
	}
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "update_profit", userID, fmt.Sprintf("$%.2f", amount))
	return acc, nil
}

// UpdateCryptoAddress overwrites the registry address of an existing currency.
func (s *Service) UpdateCryptoAddress(callerID int64, name, address string) error {
	if err := s.authorize(callerID); err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrValidation
	}
	// EVM-style addresses get a format check; other chains are opaque strings.
	if strings.HasPrefix(address, "0x") && !common.IsHexAddress(address) {
		return ErrValidation
	}
	if err := s.store.UpdateCryptoAddress(name, address); err != nil {
		if err == storage.ErrNotFound {
			return ErrUnknownCurrency
		}
		return err
	}
	s.audit(callerID, "update_crypto_address", 0, name+" "+address)
	return nil
}

// UpdateStake adds delta to the spendable staking pool, floored at zero.
func (s *Service) UpdateStake(callerID, userID int64, delta float64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	acc.StakedBalance += delta
	if acc.StakedBalance < 0 {
		acc.StakedBalance = 0
	}
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "update_stake", userID, fmt.Sprintf("%+.2f", delta))
	return acc, nil
}

// UpdateLockedStake adds delta to the locked staking pool, floored at zero.
func (s *Service) UpdateLockedStake(callerID, userID int64, delta float64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	acc.LockedStakeBalance += delta
	if acc.LockedStakeBalance < 0 {
		acc.LockedStakeBalance = 0
	}
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "update_locked_stake", userID, fmt.Sprintf("%+.2f", delta))
	return acc, nil
}

// ReleaseStake moves funds from the locked pool back into the balance.
func (s *Service) ReleaseStake(callerID, userID int64, amount float64) (*models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrValidation
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if amount > acc.LockedStakeBalance {
		return acc, ErrInsufficientBalance
	}
	acc.LockedStakeBalance -= amount
	acc.Balance += amount
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	s.audit(callerID, "release_stake", userID, fmt.Sprintf("$%.2f", amount))
	return acc, nil
}

// OpenStake moves amount from the spendable staking pool into the locked
// pool and appends a stake record. The pool is re-checked here because
// funds may have changed between the flow steps.
func (s *Service) OpenStake(userID int64, coin string, amount float64, plan, duration string) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if amount > acc.StakedBalance {
		return acc, ErrInsufficientBalance
	}
	acc.StakedBalance -= amount
	acc.LockedStakeBalance += amount
	acc.Stakes = append(acc.Stakes, models.Stake{
		AccountID: acc.ID,
		Coin:      coin,
		Amount:    amount,
		Plan:      plan,
		Duration:  duration,
		Status:    "Active",
		CreatedAt: time.Now(),
	})
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ActivateBot makes botName the account's active trading bot. Re-selecting
// the current bot is reported through ErrAlreadyProcessed.
func (s *Service) ActivateBot(userID int64, botName string, minBalance float64) (*models.Account, error) {
	defer s.lock(userID)()

	acc, err := s.store.GetAccount(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if acc.Balance < minBalance {
		return acc, ErrInsufficientBalance
	}
	if acc.ActiveBot == botName {
		return acc, ErrAlreadyProcessed
	}
	acc.ActiveBot = botName
	if err := s.store.SaveAccount(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ListAccounts returns every ledger record for the admin report.
func (s *Service) ListAccounts(callerID int64) ([]models.Account, error) {
	if err := s.authorize(callerID); err != nil {
		return nil, err
	}
	return s.store.ListAccounts()
}
