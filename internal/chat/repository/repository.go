package repository

import (
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"
)

// ChatRepository defines the interface for chat history data access.
// Soft-deleted rows are excluded from every read.
type ChatRepository interface {
	// Create inserts a new message
	Create(m *domain.ChatMessage) error

	// FindByID returns one message, nil when absent or soft-deleted
	FindByID(id string) (*domain.ChatMessage, error)

	// Paginated reads, newest first
	FindByUser(userID string, page, size int) ([]domain.ChatMessage, int64, error)
	FindByDevice(deviceID string, page, size int) ([]domain.ChatMessage, int64, error)
	FindWithFeedback(page, size int) ([]domain.ChatMessage, int64, error)
	FindByFeedback(feedback domain.Feedback, page, size int) ([]domain.ChatMessage, int64, error)

	// Limit-bounded tails, newest first
	RecentByUser(userID string, limit int) ([]domain.ChatMessage, error)
	RecentByDevice(deviceID string, limit int) ([]domain.ChatMessage, error)

	// FindBySession returns the session's messages in chronological order
	FindBySession(sessionID string) ([]domain.ChatMessage, error)

	// SetFeedback stores feedback and its timestamp; false when the id is
	// absent
	SetFeedback(id string, feedback domain.Feedback, at time.Time) (bool, error)

	// Regenerate flags the parent as regenerated and inserts the child in
	// one transaction; neither change survives without the other.
	Regenerate(parentID string, child *domain.ChatMessage) error

	// Aggregation counters for feedback stats
	CountByUser(userID string) (int64, error)
	CountByUserAndFeedback(userID string, feedback domain.Feedback) (int64, error)
	CountRegeneratedByUser(userID string) (int64, error)
	CountByDevice(deviceID string) (int64, error)
	CountByDeviceAndFeedback(deviceID string, feedback domain.Feedback) (int64, error)
	CountRegeneratedByDevice(deviceID string) (int64, error)
}
