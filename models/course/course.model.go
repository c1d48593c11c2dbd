package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Code         string `json:"code" gorm:"index"`
	Description  string `json:"description" gorm:"type:text"`
	OwnerID      uint   `json:"owner_id" gorm:"index;not null"`
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, ARCHIVED
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// CourseStaff assigns a user as teaching assistant on a course
type CourseStaff struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	UserID     uint   `json:"user_id" gorm:"index;not null"`
	AssignedBy uint   `json:"assigned_by"`
	Role       string `json:"role" gorm:"default:'TA'"`
	IsDeleted  bool   `gorm:"default:false"`
}
