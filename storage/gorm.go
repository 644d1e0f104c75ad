package storage

import (
	"errors"

	"gorm.io/gorm"

	"telegram-trading-bot/models"
)

// GormStore persists the ledger in MySQL through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(
		&models.Account{},
		&models.Stake{},
		&models.CryptoAddress{},
		&models.AdminLog{},
	)
	if err != nil {
		return nil, err
	}
	s := &GormStore{db: db}
	if err := s.seedCryptoAddresses(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GormStore) seedCryptoAddresses() error {
	var count int64
	if err := s.db.Model(&models.CryptoAddress{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for name, address := range models.DefaultCryptoAddresses() {
		if err := s.db.Create(&models.CryptoAddress{Name: name, Address: address}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *GormStore) GetAccount(telegramID int64) (*models.Account, error) {
	var acc models.Account
	err := s.db.Preload("Stakes").Where("telegram_id = ?", telegramID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *GormStore) EnsureAccount(telegramID int64, username string) (*models.Account, error) {
	acc, err := s.GetAccount(telegramID)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	acc = &models.Account{TelegramID: telegramID, Username: username}
	if err := s.db.Create(acc).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *GormStore) SaveAccount(acc *models.Account) error {
	return s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(acc).Error
}

func (s *GormStore) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.Preload("Stakes").Order("created_at").Find(&accounts).Error
	return accounts, err
}

func (s *GormStore) GetCryptoAddress(name string) (string, error) {
	var entry models.CryptoAddress
	err := s.db.Where("name = ?", name).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Address, nil
}

func (s *GormStore) ListCryptoAddresses() ([]models.CryptoAddress, error) {
	var entries []models.CryptoAddress
	err := s.db.Order("name").Find(&entries).Error
	return entries, err
}

func (s *GormStore) UpdateCryptoAddress(name, address string) error {
	res := s.db.Model(&models.CryptoAddress{}).Where("name = ?", name).Update("address", address)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AppendAdminLog(entry models.AdminLog) error {
	return s.db.Create(&entry).Error
}
