package storage

import (
	"errors"

	"telegram-trading-bot/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for the account ledger, the crypto
// address registry and the admin audit log. Backed by MySQL in production
// and by an in-memory map when no database is configured.
type Store interface {
	// GetAccount returns the account for a telegram id, or ErrNotFound.
	GetAccount(telegramID int64) (*models.Account, error)
	// EnsureAccount returns the account for a telegram id, creating it
	// with zero-valued defaults when it does not exist yet.
	EnsureAccount(telegramID int64, username string) (*models.Account, error)
	SaveAccount(acc *models.Account) error
	ListAccounts() ([]models.Account, error)

	GetCryptoAddress(name string) (string, error)
	ListCryptoAddresses() ([]models.CryptoAddress, error)
	// UpdateCryptoAddress overwrites the address of an existing currency.
	// Returns ErrNotFound for a currency that was never seeded.
	UpdateCryptoAddress(name, address string) error

	AppendAdminLog(entry models.AdminLog) error
}
