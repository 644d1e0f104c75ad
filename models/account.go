package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is the per-user ledger record. It is created with zero-valued
// counters the first time a user touches any money-aware command and is
// never deleted.
type Account struct {
	gorm.Model
	TelegramID int64  `gorm:"uniqueIndex"`
	Username   string `gorm:"size:255"`

	// Identity, captured once during registration.
	Name  string `gorm:"size:255"`
	Email string `gorm:"size:255"`
	Phone string `gorm:"size:64"`

	Approved bool `gorm:"default:false"`

	Balance    float64
	Deposit    float64
	Profit     float64
	Withdrawal float64

	// At most one outstanding request of each kind.
	PendingDeposit    float64
	PendingWithdrawal float64
	// Set when the pending deposit was requested from the staking flow.
	PendingDepositStaking bool

	ActiveBot string `gorm:"size:100"`

	StakedBalance      float64
	LockedStakeBalance float64

	Stakes []Stake `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// Stake is a commitment that moved funds from the spendable staking pool
// into the locked pool.
type Stake struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID uint   `gorm:"index"`
	Coin      string `gorm:"size:16"`
	Amount    float64
	Plan      string `gorm:"size:16"` // fixed or flexible
	Duration  string `gorm:"size:32"` // "30 Days", "Flexible", ...
	Status    string `gorm:"size:16"`
	CreatedAt time.Time
}

// HasIdentity reports whether all registration fields were captured.
func (a *Account) HasIdentity() bool {
	return a.Name != "" && a.Email != "" && a.Phone != ""
}

// AvailableBalance is the spendable part of the balance, excluding
// locked stake funds.
func (a *Account) AvailableBalance() float64 {
	available := a.Balance - a.LockedStakeBalance
	if available < 0 {
		return 0
	}
	return available
}
