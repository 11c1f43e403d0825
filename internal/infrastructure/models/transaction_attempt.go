package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionAttempt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          string    `gorm:"type:varchar(20);not null;index"`
	NFTID         string    `gorm:"column:nft_id;type:varchar(100);not null;index"`
	TokenID       int64     `gorm:"not null"`
	FromAddress   string    `gorm:"type:varchar(255);not null;index"`
	ToAddress     string    `gorm:"type:varchar(255);not null"`
	State         string    `gorm:"type:varchar(50);not null;index"`
	TxHash        *string   `gorm:"type:varchar(255);index"`
	FailureReason *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
