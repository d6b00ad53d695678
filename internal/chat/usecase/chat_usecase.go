package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/repository"
	"github.com/vivekshiftai/shiftAIOT-sub009/pkg/rag"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("message not found")
	ErrInvalidArgument = errors.New("invalid feedback request")
	ErrRAGUnavailable  = errors.New("query service not configured")
)

// AssistantMeta carries the query context stored alongside an assistant
// message.
type AssistantMeta struct {
	QueryType       domain.QueryType
	PDFName         string
	ChunksUsed      string
	ProcessingTime  string
	SQLQuery        string
	DatabaseResults string
	RowCount        *int
}

// ChatUsecase owns chat history and the feedback/regeneration lifecycle.
type ChatUsecase interface {
	SaveUserMessage(userID, deviceID, orgID, content, sessionID string) (*domain.ChatMessage, error)
	SaveAssistantMessage(userID, deviceID, orgID, content, sessionID string, meta AssistantMeta) (*domain.ChatMessage, error)

	// AddFeedback sets LIKE or DISLIKE on a message. REGENERATE is rejected
	// here; only Regenerate may record that transition.
	AddFeedback(messageID string, feedback domain.Feedback) error

	// Regenerate forks a new assistant message off the parent and flags the
	// parent as regenerated. The parent's own feedback is untouched.
	Regenerate(messageID, newContent, newChunksUsed, newProcessingTime string) (*domain.ChatMessage, error)

	// Query forwards a question to the external PDF/LLM service and
	// persists the resulting user+assistant pair.
	Query(ctx context.Context, userID, deviceID, orgID, query, sessionID string) (*domain.ChatMessage, error)

	UserHistory(userID string, page, size int) ([]domain.ChatMessage, int64, error)
	DeviceHistory(deviceID string, page, size int) ([]domain.ChatMessage, int64, error)
	RecentUserHistory(userID string, limit int) ([]domain.ChatMessage, error)
	RecentDeviceHistory(deviceID string, limit int) ([]domain.ChatMessage, error)
	SessionHistory(sessionID string) ([]domain.ChatMessage, error)
	MessagesWithFeedback(page, size int) ([]domain.ChatMessage, int64, error)
	MessagesByFeedback(feedback domain.Feedback, page, size int) ([]domain.ChatMessage, int64, error)
	UserFeedbackStats(userID string) (*domain.FeedbackStats, error)
	DeviceFeedbackStats(deviceID string) (*domain.FeedbackStats, error)

	SetRAGClient(client RAGClient)
}

// RAGClient is the narrow interface to the external PDF/LLM query service.
type RAGClient interface {
	Query(ctx context.Context, req rag.QueryRequest) (*rag.QueryResult, error)
}

type chatUsecase struct {
	chatRepo  repository.ChatRepository
	ragClient RAGClient
}

func NewChatUsecase(chatRepo repository.ChatRepository) ChatUsecase {
	return &chatUsecase{chatRepo: chatRepo}
}

func (u *chatUsecase) SetRAGClient(client RAGClient) {
	u.ragClient = client
}

func (u *chatUsecase) SaveUserMessage(userID, deviceID, orgID, content, sessionID string) (*domain.ChatMessage, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	m := &domain.ChatMessage{
		UserID:         userID,
		DeviceID:       deviceID,
		OrganizationID: orgID,
		MessageType:    domain.MessageTypeUser,
		Content:        content,
		SessionID:      sessionID,
		Timestamp:      time.Now(),
	}
	if err := u.chatRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *chatUsecase) SaveAssistantMessage(userID, deviceID, orgID, content, sessionID string, meta AssistantMeta) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		UserID:          userID,
		DeviceID:        deviceID,
		OrganizationID:  orgID,
		MessageType:     domain.MessageTypeAssistant,
		Content:         content,
		SessionID:       sessionID,
		Timestamp:       time.Now(),
		QueryType:       meta.QueryType,
		PDFName:         meta.PDFName,
		ChunksUsed:      meta.ChunksUsed,
		ProcessingTime:  meta.ProcessingTime,
		SQLQuery:        meta.SQLQuery,
		DatabaseResults: meta.DatabaseResults,
		RowCount:        meta.RowCount,
	}
	if err := u.chatRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *chatUsecase) AddFeedback(messageID string, feedback domain.Feedback) error {
	if !feedback.Valid() || feedback == domain.FeedbackRegenerate {
		// REGENERATE is a fork, not a flag; it must go through Regenerate.
		return ErrInvalidArgument
	}

	ok, err := u.chatRepo.SetFeedback(messageID, feedback, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (u *chatUsecase) Regenerate(messageID, newContent, newChunksUsed, newProcessingTime string) (*domain.ChatMessage, error) {
	if newContent == "" {
		return nil, ErrInvalidArgument
	}

	parent, err := u.chatRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}
	if !parent.IsAssistantMessage() {
		return nil, ErrInvalidArgument
	}

	child := &domain.ChatMessage{
		UserID:          parent.UserID,
		DeviceID:        parent.DeviceID,
		OrganizationID:  parent.OrganizationID,
		MessageType:     domain.MessageTypeAssistant,
		Content:         newContent,
		SessionID:       parent.SessionID,
		Timestamp:       time.Now(),
		QueryType:       parent.QueryType,
		PDFName:         parent.PDFName,
		ChunksUsed:      newChunksUsed,
		ProcessingTime:  newProcessingTime,
		SQLQuery:        parent.SQLQuery,
		DatabaseResults: parent.DatabaseResults,
		RowCount:        parent.RowCount,
		ParentMessageID: parent.ID,
	}

	if err := u.chatRepo.Regenerate(parent.ID, child); err != nil {
		return nil, err
	}

	log.Printf("[Chat] Message regenerated: parentId=%s newId=%s", parent.ID, child.ID)
	return child, nil
}

func (u *chatUsecase) Query(ctx context.Context, userID, deviceID, orgID, query, sessionID string) (*domain.ChatMessage, error) {
	if u.ragClient == nil {
		return nil, ErrRAGUnavailable
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if _, err := u.SaveUserMessage(userID, deviceID, orgID, query, sessionID); err != nil {
		return nil, err
	}

	result, err := u.ragClient.Query(ctx, rag.QueryRequest{
		Query:    query,
		DeviceID: deviceID,
	})
	if err != nil {
		return nil, err
	}

	queryType := domain.QueryType(result.QueryType)
	if queryType == "" {
		queryType = domain.QueryTypeUnknown
	}
	chunksUsed := ""
	if len(result.ChunksUsed) > 0 {
		if b, err := json.Marshal(result.ChunksUsed); err == nil {
			chunksUsed = string(b)
		}
	}

	return u.SaveAssistantMessage(userID, deviceID, orgID, result.Response, sessionID, AssistantMeta{
		QueryType:       queryType,
		PDFName:         result.PDFName,
		ChunksUsed:      chunksUsed,
		ProcessingTime:  result.ProcessingTime,
		SQLQuery:        result.SQLQuery,
		DatabaseResults: result.DatabaseResults,
		RowCount:        result.RowCount,
	})
}

func (u *chatUsecase) UserHistory(userID string, page, size int) ([]domain.ChatMessage, int64, error) {
	return u.chatRepo.FindByUser(userID, page, size)
}

func (u *chatUsecase) DeviceHistory(deviceID string, page, size int) ([]domain.ChatMessage, int64, error) {
	return u.chatRepo.FindByDevice(deviceID, page, size)
}

func (u *chatUsecase) RecentUserHistory(userID string, limit int) ([]domain.ChatMessage, error) {
	return u.chatRepo.RecentByUser(userID, limit)
}

func (u *chatUsecase) RecentDeviceHistory(deviceID string, limit int) ([]domain.ChatMessage, error) {
	return u.chatRepo.RecentByDevice(deviceID, limit)
}

func (u *chatUsecase) SessionHistory(sessionID string) ([]domain.ChatMessage, error) {
	return u.chatRepo.FindBySession(sessionID)
}

func (u *chatUsecase) MessagesWithFeedback(page, size int) ([]domain.ChatMessage, int64, error) {
	return u.chatRepo.FindWithFeedback(page, size)
}

func (u *chatUsecase) MessagesByFeedback(feedback domain.Feedback, page, size int) ([]domain.ChatMessage, int64, error) {
	if !feedback.Valid() {
		return nil, 0, ErrInvalidArgument
	}
	return u.chatRepo.FindByFeedback(feedback, page, size)
}

func (u *chatUsecase) UserFeedbackStats(userID string) (*domain.FeedbackStats, error) {
	total, err := u.chatRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	likes, err := u.chatRepo.CountByUserAndFeedback(userID, domain.FeedbackLike)
	if err != nil {
		return nil, err
	}
	dislikes, err := u.chatRepo.CountByUserAndFeedback(userID, domain.FeedbackDislike)
	if err != nil {
		return nil, err
	}
	regenerates, err := u.chatRepo.CountRegeneratedByUser(userID)
	if err != nil {
		return nil, err
	}
	return &domain.FeedbackStats{
		TotalMessages: total,
		Likes:         likes,
		Dislikes:      dislikes,
		Regenerates:   regenerates,
	}, nil
}

func (u *chatUsecase) DeviceFeedbackStats(deviceID string) (*domain.FeedbackStats, error) {
	total, err := u.chatRepo.CountByDevice(deviceID)
	if err != nil {
		return nil, err
	}
	likes, err := u.chatRepo.CountByDeviceAndFeedback(deviceID, domain.FeedbackLike)
	if err != nil {
		return nil, err
	}
	dislikes, err := u.chatRepo.CountByDeviceAndFeedback(deviceID, domain.FeedbackDislike)
	if err != nil {
		return nil, err
	}
	regenerates, err := u.chatRepo.CountRegeneratedByDevice(deviceID)
	if err != nil {
		return nil, err
	}
	return &domain.FeedbackStats{
		TotalMessages: total,
		Likes:         likes,
		Dislikes:      dislikes,
		Regenerates:   regenerates,
	}, nil
}
