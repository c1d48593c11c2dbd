package assignment

import (
	"time"

	"gorm.io/gorm"
)

// Assignment represents a graded task within a course
type Assignment struct {
	gorm.Model
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions" gorm:"type:text"`
	DueDate      *time.Time `json:"due_date"`
	MaxPoints    int        `json:"max_points" gorm:"default:100"`
	IsPublished  bool       `json:"is_published" gorm:"default:false"`
	IsDeleted    bool       `gorm:"default:false"`
}

// Submission holds a student's work for an assignment. One row per
// assignment and student; resubmission overwrites it.
type Submission struct {
	gorm.Model
	AssignmentID uint      `json:"assignment_id" gorm:"index;not null"`
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	TextBody     string    `json:"text_body" gorm:"type:text"`
	FileURL      string    `json:"file_url"`
	AttemptCount int       `json:"attempt_count" gorm:"default:1"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsDeleted    bool      `gorm:"default:false"`
}

// Grade holds the evaluation of a submission. One row per submission;
// re-grading updates it in place.
type Grade struct {
	gorm.Model
	SubmissionID uint      `json:"submission_id" gorm:"uniqueIndex;not null"`
	AssignmentID uint      `json:"assignment_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	GraderID     uint      `json:"grader_id" gorm:"not null"`
	Points       int       `json:"points"`
	Feedback     string    `json:"feedback" gorm:"type:text"`
	GradedAt     time.Time `json:"graded_at"`
	IsDeleted    bool      `gorm:"default:false"`
}
