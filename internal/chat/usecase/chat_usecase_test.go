package usecase

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeChatRepo is an in-memory ChatRepository with the same soft-delete
// filtering and newest-first ordering as the database queries.
type fakeChatRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rows: make(map[string]*domain.ChatMessage)}
}

func (r *fakeChatRepo) Create(m *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	copied := *m
	r.rows[m.ID] = &copied
	return nil
}

func (r *fakeChatRepo) FindByID(id string) (*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.Deleted {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeChatRepo) visible(match func(*domain.ChatMessage) bool) []domain.ChatMessage {
	var out []domain.ChatMessage
	for _, m := range r.rows {
		if !m.Deleted && match(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func pageSlice(all []domain.ChatMessage, page, size int) ([]domain.ChatMessage, int64) {
	total := int64(len(all))
	start := page * size
	if start >= len(all) {
		return []domain.ChatMessage{}, total
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func (r *fakeChatRepo) FindByUser(userID string, page, size int) ([]domain.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(func(m *domain.ChatMessage) bool { return m.UserID == userID })
	msgs, total := pageSlice(all, page, size)
	return msgs, total, nil
}

func (r *fakeChatRepo) FindByDevice(deviceID string, page, size int) ([]domain.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(func(m *domain.ChatMessage) bool { return m.DeviceID == deviceID })
	msgs, total := pageSlice(all, page, size)
	return msgs, total, nil
}

func (r *fakeChatRepo) FindWithFeedback(page, size int) ([]domain.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(func(m *domain.ChatMessage) bool { return m.UserFeedback != "" })
	msgs, total := pageSlice(all, page, size)
	return msgs, total, nil
}

func (r *fakeChatRepo) FindByFeedback(feedback domain.Feedback, page, size int) ([]domain.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(func(m *domain.ChatMessage) bool { return m.UserFeedback == feedback })
	msgs, total := pageSlice(all, page, size)
	return msgs, total, nil
}

func (r *fakeChatRepo) RecentByUser(userID string, limit int) ([]domain.ChatMessage, error) {
	msgs, _, err := r.FindByUser(userID, 0, limit)
	return msgs, err
}

func (r *fakeChatRepo) RecentByDevice(deviceID string, limit int) ([]domain.ChatMessage, error) {
	msgs, _, err := r.FindByDevice(deviceID, 0, limit)
	return msgs, err
}

func (r *fakeChatRepo) FindBySession(sessionID string) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(func(m *domain.ChatMessage) bool { return m.SessionID == sessionID })
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })
	return all, nil
}

func (r *fakeChatRepo) SetFeedback(id string, feedback domain.Feedback, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.Deleted {
		return false, nil
	}
	m.UserFeedback = feedback
	m.FeedbackTimestamp = &at
	return true, nil
}

func (r *fakeChatRepo) Regenerate(parentID string, child *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.rows[parentID]
	if !ok || parent.Deleted {
		return gorm.ErrRecordNotFound
	}
	parent.IsRegenerated = true
	if child.ID == "" {
		child.ID = uuid.New().String()
	}
	if child.Timestamp.IsZero() {
		child.Timestamp = time.Now()
	}
	copied := *child
	r.rows[child.ID] = &copied
	return nil
}

func (r *fakeChatRepo) count(match func(*domain.ChatMessage) bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.visible(match))), nil
}

func (r *fakeChatRepo) CountByUser(userID string) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.UserID == userID })
}

func (r *fakeChatRepo) CountByUserAndFeedback(userID string, feedback domain.Feedback) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.UserID == userID && m.UserFeedback == feedback })
}

func (r *fakeChatRepo) CountRegeneratedByUser(userID string) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.UserID == userID && m.IsRegenerated })
}

func (r *fakeChatRepo) CountByDevice(deviceID string) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.DeviceID == deviceID })
}

func (r *fakeChatRepo) CountByDeviceAndFeedback(deviceID string, feedback domain.Feedback) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.DeviceID == deviceID && m.UserFeedback == feedback })
}

func (r *fakeChatRepo) CountRegeneratedByDevice(deviceID string) (int64, error) {
	return r.count(func(m *domain.ChatMessage) bool { return m.DeviceID == deviceID && m.IsRegenerated })
}

func seedAssistantMessage(t *testing.T, uc ChatUsecase) *domain.ChatMessage {
	t.Helper()
	m, err := uc.SaveAssistantMessage("user-1", "device-1", "org-1", "Original answer", "session-1", AssistantMeta{
		QueryType: domain.QueryTypePDF,
		PDFName:   "pump-manual.pdf",
	})
	require.NoError(t, err)
	return m
}

func TestAddFeedback_LikeAndDislike(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)
	m := seedAssistantMessage(t, uc)

	require.NoError(t, uc.AddFeedback(m.ID, domain.FeedbackLike))
	got, err := repo.FindByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackLike, got.UserFeedback)
	require.NotNil(t, got.FeedbackTimestamp)

	// Feedback can change its mind.
	require.NoError(t, uc.AddFeedback(m.ID, domain.FeedbackDislike))
	got, err = repo.FindByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackDislike, got.UserFeedback)
}

func TestAddFeedback_RejectsRegenerate(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)
	m := seedAssistantMessage(t, uc)

	err := uc.AddFeedback(m.ID, domain.FeedbackRegenerate)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	got, err := repo.FindByID(m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UserFeedback)
}

func TestAddFeedback_RejectsUnknownValue(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo())

	err := uc.AddFeedback("any", domain.Feedback("MEH"))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestAddFeedback_AbsentMessage(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo())

	err := uc.AddFeedback("missing", domain.FeedbackLike)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegenerate_ForksChildAndFlagsParent(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)
	parent := seedAssistantMessage(t, uc)

	child, err := uc.Regenerate(parent.ID, "Better answer", `["chunk-7"]`, "1.2s")
	require.NoError(t, err)
	require.NotNil(t, child)

	assert.NotEqual(t, parent.ID, child.ID)
	assert.Equal(t, parent.ID, child.ParentMessageID)
	assert.Equal(t, parent.SessionID, child.SessionID)
	assert.Equal(t, parent.UserID, child.UserID)
	assert.Equal(t, parent.QueryType, child.QueryType)
	assert.Equal(t, "Better answer", child.Content)
	assert.False(t, child.IsRegenerated)

	stored, err := repo.FindByID(parent.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRegenerated)
	assert.Equal(t, "Original answer", stored.Content)
}

func TestRegenerate_RequiresContentAndAssistantParent(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)

	userMsg, err := uc.SaveUserMessage("user-1", "device-1", "org-1", "How do I reset?", "session-1")
	require.NoError(t, err)

	_, err = uc.Regenerate(userMsg.ID, "answer", "", "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	assistant := seedAssistantMessage(t, uc)
	_, err = uc.Regenerate(assistant.ID, "", "", "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = uc.Regenerate("missing", "answer", "", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFeedbackStats_RegeneratesCountTheParent(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)

	first := seedAssistantMessage(t, uc)
	second := seedAssistantMessage(t, uc)
	require.NoError(t, uc.AddFeedback(first.ID, domain.FeedbackLike))
	require.NoError(t, uc.AddFeedback(second.ID, domain.FeedbackDislike))

	// Regenerating second twice spawns two children but marks one parent.
	_, err := uc.Regenerate(second.ID, "Take two", "", "")
	require.NoError(t, err)
	_, err = uc.Regenerate(second.ID, "Take three", "", "")
	require.NoError(t, err)

	stats, err := uc.UserFeedbackStats("user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.Likes)
	assert.Equal(t, int64(1), stats.Dislikes)
	assert.Equal(t, int64(1), stats.Regenerates)
}

func TestUserHistory_Pagination(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 45; i++ {
		require.NoError(t, repo.Create(&domain.ChatMessage{
			UserID:      "user-1",
			MessageType: domain.MessageTypeUser,
			Content:     "m",
			SessionID:   "s",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	page0, total, err := uc.UserHistory("user-1", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, page0, 20)

	page2, total, err := uc.UserHistory("user-1", 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, page2, 5)

	page3, _, err := uc.UserHistory("user-1", 3, 20)
	require.NoError(t, err)
	assert.Empty(t, page3)

	// Newest first inside a page.
	assert.True(t, page0[0].Timestamp.After(page0[len(page0)-1].Timestamp))
}

func TestSessionHistory_Chronological(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&domain.ChatMessage{
			UserID:      "user-1",
			MessageType: domain.MessageTypeUser,
			Content:     "m",
			SessionID:   "session-1",
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := uc.SessionHistory("session-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.True(t, msgs[0].Timestamp.Before(msgs[2].Timestamp))
}

func TestSaveUserMessage_GeneratesSessionID(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo())

	m, err := uc.SaveUserMessage("user-1", "", "org-1", "hello", "")
	require.NoError(t, err)
	assert.NotEmpty(t, m.SessionID)
}
