package models

import "time"

// AdminLog records every admin action that touched the ledger.
type AdminLog struct {
	ID        uint      `gorm:"primaryKey"`
	AdminTgID int64     `gorm:"index"`
	Action    string    `gorm:"size:100;not null"` // "approve_deposit", "update_profit", ...
	TargetID  int64     `gorm:"index"`             // telegram id of the affected user, if any
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time
}
