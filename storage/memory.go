package storage

import (
	"sort"
	"sync"
	"time"

	"telegram-trading-bot/models"
)

// MemoryStore keeps the ledger in process memory. Used when MySQL is not
// configured; state is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   uint
	accounts map[int64]*models.Account
	crypto   map[string]string
	logs     []models.AdminLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		accounts: make(map[int64]*models.Account),
		crypto:   models.DefaultCryptoAddresses(),
	}
}

func copyAccount(acc *models.Account) *models.Account {
	dup := *acc
	dup.Stakes = make([]models.Stake, len(acc.Stakes))
	copy(dup.Stakes, acc.Stakes)
	return &dup
}

func (s *MemoryStore) GetAccount(telegramID int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[telegramID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(acc), nil
}

func (s *MemoryStore) EnsureAccount(telegramID int64, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[telegramID]; ok {
		return copyAccount(acc), nil
	}
	acc := &models.Account{TelegramID: telegramID, Username: username}
	acc.ID = s.nextID
	acc.CreatedAt = time.Now()
	s.nextID++
	s.accounts[telegramID] = acc
	return copyAccount(acc), nil
}

func (s *MemoryStore) SaveAccount(acc *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc.ID == 0 {
		acc.ID = s.nextID
		acc.CreatedAt = time.Now()
		s.nextID++
	}
	acc.UpdatedAt = time.Now()
	s.accounts[acc.TelegramID] = copyAccount(acc)
	return nil
}

func (s *MemoryStore) ListAccounts() ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, *copyAccount(acc))
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (s *MemoryStore) GetCryptoAddress(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.crypto[name]
	if !ok {
		return "", ErrNotFound
	}
	return address, nil
}

func (s *MemoryStore) ListCryptoAddresses() ([]models.CryptoAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.CryptoAddress, 0, len(s.crypto))
	for name, address := range s.crypto {
		entries = append(entries, models.CryptoAddress{Name: name, Address: address})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *MemoryStore) UpdateCryptoAddress(name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.crypto[name]; !ok {
		return ErrNotFound
	}
	s.crypto[name] = address
	return nil
}

func (s *MemoryStore) AppendAdminLog(entry models.AdminLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uint(len(s.logs) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.logs = append(s.logs, entry)
	return nil
}
