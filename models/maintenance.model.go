package models

import "gorm.io/gorm"

// Maintenance holds the platform maintenance mode flag toggled by admins
type Maintenance struct {
	gorm.Model
	IsActive  bool   `json:"is_active" gorm:"default:false"`
	Message   string `json:"message" gorm:"default:'The platform is under maintenance. Please try again later.'"`
	UpdatedBy uint   `json:"updated_by"`
}
