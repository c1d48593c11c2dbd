package models

import (
	"time"

	"gorm.io/gorm"
)

type OTP struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	Purpose   string    `json:"purpose" gorm:"default:'EMAIL_VERIFY'"` // EMAIL_VERIFY, PASSWORD_RESET
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `gorm:"default:false"`
	IsDeleted bool      `gorm:"default:false"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
