package domain

import "time"

// MessageType distinguishes user queries from assistant answers.
type MessageType string

const (
	MessageTypeUser      MessageType = "USER"
	MessageTypeAssistant MessageType = "ASSISTANT"
)

// QueryType records which backend answered an assistant message.
type QueryType string

const (
	QueryTypeDatabase  QueryType = "DATABASE"
	QueryTypePDF       QueryType = "PDF"
	QueryTypeMixed     QueryType = "MIXED"
	QueryTypeLLMAnswer QueryType = "LLM_ANSWER"
	QueryTypeUnknown   QueryType = "UNKNOWN"
)

// Feedback is the user's verdict on a single message.
type Feedback string

const (
	FeedbackLike       Feedback = "LIKE"
	FeedbackDislike    Feedback = "DISLIKE"
	FeedbackRegenerate Feedback = "REGENERATE"
)

// Valid reports whether f is a recognized feedback value.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackLike, FeedbackDislike, FeedbackRegenerate:
		return true
	}
	return false
}

// ChatMessage is one row of conversation history. Content is immutable once
// written; only the feedback fields and the regeneration flag change later.
// Regeneration forks a new row linked through ParentMessageID, never
// rewrites an existing one.
type ChatMessage struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	UserID         string      `json:"user_id" gorm:"index;not null"`
	DeviceID       string      `json:"device_id,omitempty" gorm:"index"`
	OrganizationID string      `json:"organization_id" gorm:"index;not null"`
	MessageType    MessageType `json:"message_type" gorm:"not null"`
	Content        string      `json:"content" gorm:"type:text;not null"`
	Timestamp      time.Time   `json:"timestamp" gorm:"index;not null"`

	// Query context (assistant messages only)
	QueryType       QueryType `json:"query_type,omitempty"`
	PDFName         string    `json:"pdf_name,omitempty"`
	ChunksUsed      string    `json:"chunks_used,omitempty" gorm:"type:text"` // JSON array
	ProcessingTime  string    `json:"processing_time,omitempty"`
	SQLQuery        string    `json:"sql_query,omitempty" gorm:"type:text"`
	DatabaseResults string    `json:"database_results,omitempty" gorm:"type:text"` // JSON array
	RowCount        *int      `json:"row_count,omitempty"`

	// Feedback
	UserFeedback      Feedback   `json:"user_feedback,omitempty"`
	FeedbackTimestamp *time.Time `json:"feedback_timestamp,omitempty"`

	// Regeneration lineage
	SessionID       string `json:"session_id" gorm:"index"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
	IsRegenerated   bool   `json:"is_regenerated" gorm:"default:false"`

	// Soft delete
	Deleted   bool       `json:"-" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatMessage) TableName() string {
	return "chat_history"
}

func (m *ChatMessage) IsAssistantMessage() bool {
	return m.MessageType == MessageTypeAssistant
}

// FeedbackStats is a derived aggregation, never persisted. Regenerates are
// counted on the message that was regenerated, not on the spawned child.
type FeedbackStats struct {
	TotalMessages int64 `json:"total_messages"`
	Likes         int64 `json:"likes"`
	Dislikes      int64 `json:"dislikes"`
	Regenerates   int64 `json:"regenerates"`
}
