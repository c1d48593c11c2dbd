package models

import "gorm.io/gorm"

type LoginTracking struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Success   bool   `json:"success" gorm:"default:true"`
	IsDeleted bool   `gorm:"default:false"`
}
