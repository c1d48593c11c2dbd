package analytics

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity actions recorded for TNA sequence extraction
const (
	ActionLectureView    = "LECTURE_VIEW"
	ActionLectureDone    = "LECTURE_COMPLETE"
	ActionAssignmentView = "ASSIGNMENT_VIEW"
	ActionSubmit         = "ASSIGNMENT_SUBMIT"
	ActionForumPost      = "FORUM_POST"
	ActionSurveySubmit   = "SURVEY_RESPONSE"
	ActionChatMessage    = "CHAT_MESSAGE"
	ActionEnroll         = "ENROLL"
)

// ActivityEvent is one recorded learner action, the raw material of the
// TNA pipeline
type ActivityEvent struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	Action     string    `json:"action" gorm:"index;not null"`
	EntityType string    `json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at" gorm:"index"`
	IsDeleted  bool      `gorm:"default:false"`
}

// TNASnapshot persists a computed transition network result for the
// dashboard history view
type TNASnapshot struct {
	gorm.Model
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	CreatedBy uint           `json:"created_by"`
	Mode      string         `json:"mode"` // tna, ftna, atna
	Payload   datatypes.JSON `json:"payload"`
	IsDeleted bool           `gorm:"default:false"`
}
