package survey

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Survey represents a course survey with ordered questions
type Survey struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	CreatedBy   uint       `json:"created_by" gorm:"not null"`
	Title       string     `json:"title"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"default:'OPEN'"` // OPEN, CLOSED
	ClosesAt    *time.Time `json:"closes_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// SurveyQuestion is a single question within a survey
type SurveyQuestion struct {
	gorm.Model
	SurveyID   uint           `json:"survey_id" gorm:"index;not null"`
	Prompt     string         `json:"prompt" gorm:"type:text"`
	Type       string         `json:"type" gorm:"default:'TEXT'"` // TEXT, SINGLE, MULTI, SCALE
	Options    datatypes.JSON `json:"options"`                    // For SINGLE/MULTI: array of option strings
	OrderIndex int            `json:"order_index" gorm:"default:0"`
	IsRequired bool           `json:"is_required" gorm:"default:false"`
	IsDeleted  bool           `gorm:"default:false"`
}

// SurveyResponse is a user's response to a survey. One row per survey and
// user; resubmission replaces the answers.
type SurveyResponse struct {
	gorm.Model
	SurveyID    uint      `json:"survey_id" gorm:"index;not null"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	SubmittedAt time.Time `json:"submitted_at"`
	IsDeleted   bool      `gorm:"default:false"`
}

// SurveyAnswer holds the answer to one question within a response
type SurveyAnswer struct {
	gorm.Model
	ResponseID uint           `json:"response_id" gorm:"index;not null"`
	QuestionID uint           `json:"question_id" gorm:"index;not null"`
	Value      datatypes.JSON `json:"value"` // string, option index list or scale number
	IsDeleted  bool           `gorm:"default:false"`
}
