package notification

import "gorm.io/gorm"

// Notification is a per-user message delivered over the WebSocket channel
// and listed in the inbox
type Notification struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Type        string `json:"type"` // GRADE, FORUM_REPLY, ANNOUNCEMENT, SURVEY, ENROLLMENT
	Title       string `json:"title"`
	Body        string `json:"body" gorm:"type:text"`
	ReferenceID uint   `json:"reference_id"`
	IsRead      bool   `json:"is_read" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// NotificationPreference holds a user's delivery preferences. One row per
// user; writes are upserts.
type NotificationPreference struct {
	gorm.Model
	UserID        uint `json:"user_id" gorm:"uniqueIndex;not null"`
	EmailEnabled  bool `json:"email_enabled" gorm:"default:true"`
	GradeAlerts   bool `json:"grade_alerts" gorm:"default:true"`
	ForumAlerts   bool `json:"forum_alerts" gorm:"default:true"`
	SurveyAlerts  bool `json:"survey_alerts" gorm:"default:true"`
	CourseUpdates bool `json:"course_updates" gorm:"default:true"`
	IsDeleted     bool `gorm:"default:false"`
}
