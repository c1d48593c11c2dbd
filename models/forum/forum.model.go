package forum

import "gorm.io/gorm"

// ForumThread is a discussion thread scoped to a course
type ForumThread struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	AuthorID  uint   `json:"author_id" gorm:"index;not null"`
	Title     string `json:"title"`
	IsPinned  bool   `json:"is_pinned" gorm:"default:false"`
	IsLocked  bool   `json:"is_locked" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}

// ForumPost is a message within a thread; ParentID set for replies
type ForumPost struct {
	gorm.Model
	ThreadID  uint   `json:"thread_id" gorm:"index;not null"`
	AuthorID  uint   `json:"author_id" gorm:"index;not null"`
	ParentID  *uint  `json:"parent_id" gorm:"index"`
	Body      string `json:"body" gorm:"type:text"`
	IsDeleted bool   `gorm:"default:false"`
}
