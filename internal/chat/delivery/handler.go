package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/usecase"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat history and feedback HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

// pageResponse mirrors the paged shape the frontend already consumes.
type pageResponse struct {
	Content       []domain.ChatMessage `json:"content"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int64                `json:"totalPages"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
}

func newPageResponse(messages []domain.ChatMessage, total int64, page, size int) pageResponse {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	totalPages := int64(0)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	return pageResponse{
		Content:       messages,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          page,
		Size:          size,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// SaveMessageRequest represents the request body for saving a chat message
type SaveMessageRequest struct {
	MessageType     domain.MessageType `json:"message_type" binding:"required"`
	Content         string             `json:"content" binding:"required"`
	DeviceID        string             `json:"device_id"`
	SessionID       string             `json:"session_id"`
	QueryType       domain.QueryType   `json:"query_type"`
	PDFName         string             `json:"pdf_name"`
	ChunksUsed      string             `json:"chunks_used"`
	ProcessingTime  string             `json:"processing_time"`
	SQLQuery        string             `json:"sql_query"`
	DatabaseResults string             `json:"database_results"`
	RowCount        *int               `json:"row_count"`
}

// SaveMessage stores one message on behalf of the caller.
// POST /api/chat-history/messages
func (h *ChatHandler) SaveMessage(c *gin.Context) {
	userID := c.GetString("userID")
	orgID := c.GetString("orgID")

	var req SaveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var saved *domain.ChatMessage
	var err error
	switch req.MessageType {
	case domain.MessageTypeUser:
		saved, err = h.chatUsecase.SaveUserMessage(userID, req.DeviceID, orgID, req.Content, req.SessionID)
	case domain.MessageTypeAssistant:
		saved, err = h.chatUsecase.SaveAssistantMessage(userID, req.DeviceID, orgID, req.Content, req.SessionID, usecase.AssistantMeta{
			QueryType:       req.QueryType,
			PDFName:         req.PDFName,
			ChunksUsed:      req.ChunksUsed,
			ProcessingTime:  req.ProcessingTime,
			SQLQuery:        req.SQLQuery,
			DatabaseResults: req.DatabaseResults,
			RowCount:        req.RowCount,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// FeedbackRequest represents the request body for message feedback
type FeedbackRequest struct {
	MessageID         string          `json:"message_id" binding:"required"`
	Feedback          domain.Feedback `json:"feedback" binding:"required"`
	NewContent        string          `json:"new_content"`
	NewChunksUsed     string          `json:"new_chunks_used"`
	NewProcessingTime string          `json:"new_processing_time"`
}

// SubmitFeedback records feedback on a message. A REGENERATE feedback must
// carry the replacement content and spawns a new message; LIKE and DISLIKE
// just flag the existing one.
// POST /api/chat-history/feedback
func (h *ChatHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Feedback == domain.FeedbackRegenerate {
		if req.NewContent == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Regeneration requires new_content"})
			return
		}
		child, err := h.chatUsecase.Regenerate(req.MessageID, req.NewContent, req.NewChunksUsed, req.NewProcessingTime)
		if err != nil {
			h.feedbackError(c, err)
			return
		}
		c.JSON(http.StatusCreated, child)
		return
	}

	if err := h.chatUsecase.AddFeedback(req.MessageID, req.Feedback); err != nil {
		h.feedbackError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback recorded"})
}

func (h *ChatHandler) feedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	case errors.Is(err, usecase.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
	}
}

// GetUserHistory returns one user's chat history, paginated newest first.
// GET /api/chat-history/user/:userId
func (h *ChatHandler) GetUserHistory(c *gin.Context) {
	userID := c.Param("userId")
	page, size := pageParams(c)

	messages, total, err := h.chatUsecase.UserHistory(userID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat history"})
		return
	}

	c.JSON(http.StatusOK, newPageResponse(messages, total, page, size))
}

// GetDeviceHistory returns one device's chat history, paginated newest first.
// GET /api/chat-history/device/:deviceId
func (h *ChatHandler) GetDeviceHistory(c *gin.Context) {
	deviceID := c.Param("deviceId")
	page, size := pageParams(c)

	messages, total, err := h.chatUsecase.DeviceHistory(deviceID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat history"})
		return
	}

	c.JSON(http.StatusOK, newPageResponse(messages, total, page, size))
}

// GetRecentUserHistory returns a user's most recent messages.
// GET /api/chat-history/user/:userId/recent
func (h *ChatHandler) GetRecentUserHistory(c *gin.Context) {
	userID := c.Param("userId")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.chatUsecase.RecentUserHistory(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat history"})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// GetRecentDeviceHistory returns a device's most recent messages.
// GET /api/chat-history/device/:deviceId/recent
func (h *ChatHandler) GetRecentDeviceHistory(c *gin.Context) {
	deviceID := c.Param("deviceId")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.chatUsecase.RecentDeviceHistory(deviceID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat history"})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// GetSessionHistory returns one session's messages in chronological order.
// GET /api/chat-history/session/:sessionId
func (h *ChatHandler) GetSessionHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")

	messages, err := h.chatUsecase.SessionHistory(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get session history"})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// GetMessagesWithFeedback lists messages that carry any feedback, paginated.
// A feedback query parameter narrows to one value.
// GET /api/chat-history/feedback
func (h *ChatHandler) GetMessagesWithFeedback(c *gin.Context) {
	page, size := pageParams(c)

	if raw := c.Query("feedback"); raw != "" {
		messages, total, err := h.chatUsecase.MessagesByFeedback(domain.Feedback(raw), page, size)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidArgument) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback value"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback messages"})
			return
		}
		c.JSON(http.StatusOK, newPageResponse(messages, total, page, size))
		return
	}

	messages, total, err := h.chatUsecase.MessagesWithFeedback(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback messages"})
		return
	}

	c.JSON(http.StatusOK, newPageResponse(messages, total, page, size))
}

// GetMessagesByFeedbackType lists messages carrying one feedback value,
// paginated.
// GET /api/chat-history/feedback/:feedbackType
func (h *ChatHandler) GetMessagesByFeedbackType(c *gin.Context) {
	page, size := pageParams(c)

	messages, total, err := h.chatUsecase.MessagesByFeedback(domain.Feedback(c.Param("feedbackType")), page, size)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback messages"})
		return
	}

	c.JSON(http.StatusOK, newPageResponse(messages, total, page, size))
}

// GetUserFeedbackStats returns a user's feedback aggregation.
// GET /api/chat-history/user/:userId/feedback-stats
func (h *ChatHandler) GetUserFeedbackStats(c *gin.Context) {
	userID := c.Param("userId")

	stats, err := h.chatUsecase.UserFeedbackStats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDeviceFeedbackStats returns a device's feedback aggregation.
// GET /api/chat-history/device/:deviceId/feedback-stats
func (h *ChatHandler) GetDeviceFeedbackStats(c *gin.Context) {
	deviceID := c.Param("deviceId")

	stats, err := h.chatUsecase.DeviceFeedbackStats(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// QueryRequest represents a question for the PDF/LLM query service
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	DeviceID  string `json:"device_id"`
	SessionID string `json:"session_id"`
}

// Query forwards a question to the external query service and returns the
// persisted assistant answer.
// POST /api/chat/query
func (h *ChatHandler) Query(c *gin.Context) {
	userID := c.GetString("userID")
	orgID := c.GetString("orgID")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.chatUsecase.Query(c.Request.Context(), userID, req.DeviceID, orgID, req.Query, req.SessionID)
	if err != nil {
		if errors.Is(err, usecase.ErrRAGUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Query service not available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process query"})
		return
	}

	c.JSON(http.StatusOK, answer)
}
