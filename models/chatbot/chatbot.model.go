package chatbot

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chatbot is an AI tutor configured for a course
type Chatbot struct {
	gorm.Model
	CourseID       uint           `json:"course_id" gorm:"index;not null"`
	CreatedBy      uint           `json:"created_by" gorm:"not null"`
	Name           string         `json:"name"`
	SystemPrompt   string         `json:"system_prompt" gorm:"type:text"`
	ModelName      string         `json:"model_name"`
	Temperature    float64        `json:"temperature" gorm:"default:0.7"`
	ProviderConfig datatypes.JSON `json:"provider_config"` // Extra provider options passed through as-is
	IsPublished    bool           `json:"is_published" gorm:"default:false"`
	IsDeleted      bool           `gorm:"default:false"`
}

// Conversation is a user's chat session with a bot
type Conversation struct {
	gorm.Model
	ChatbotID uint   `json:"chatbot_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Title     string `json:"title"`
	IsDeleted bool   `gorm:"default:false"`
}

// ChatMessage is a single message within a conversation
type ChatMessage struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index;not null"`
	Role           string `json:"role" gorm:"default:'USER'"` // USER, ASSISTANT
	Body           string `json:"body" gorm:"type:text"`
	TokenCount     int    `json:"token_count" gorm:"default:0"`
	IsDeleted      bool   `gorm:"default:false"`
}
