package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationRepo is an in-memory NotificationRepository with the same
// org+user scoping as the database queries.
type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*domain.Notification)}
}

func (r *fakeNotificationRepo) Create(n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	copied := *n
	r.rows[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) FindByID(id, orgID, userID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.OrganizationID != orgID || n.UserID != userID {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) FindByUser(orgID, userID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.rows {
		if n.OrganizationID == orgID && n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id, orgID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.OrganizationID != orgID || n.UserID != userID {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllRead(orgID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, n := range r.rows {
		if n.OrganizationID == orgID && n.UserID == userID && !n.Read {
			n.Read = true
			affected++
		}
	}
	return affected, nil
}

func (r *fakeNotificationRepo) CountUnread(orgID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.OrganizationID == orgID && n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(id, orgID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.OrganizationID != orgID || n.UserID != userID {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *fakeNotificationRepo) DeleteAll(orgID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for id, n := range r.rows {
		if n.OrganizationID == orgID && n.UserID == userID {
			delete(r.rows, id)
			affected++
		}
	}
	return affected, nil
}

// fakeTokenRepo is an in-memory DeviceTokenRepository keyed by token.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.DeviceToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]domain.DeviceToken)}
}

func (r *fakeTokenRepo) Save(userID, token, deviceInfo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = domain.DeviceToken{UserID: userID, Token: token, DeviceInfo: deviceInfo}
	return nil
}

func (r *fakeTokenRepo) TokensByUserID(userID string) ([]domain.DeviceToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DeviceToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

// fixedGate answers every preference question the same way.
type fixedGate struct{ allow bool }

func (g fixedGate) Allow(userID string, category domain.Category) bool { return g.allow }

func newTestUsecase(allow bool) (NotificationUsecase, *fakeNotificationRepo) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUsecase(repo, newFakeTokenRepo(), fixedGate{allow: allow})
	return uc, repo
}

func TestCreate_ForcesCallerIdentity(t *testing.T) {
	uc, _ := newTestUsecase(true)

	created, err := uc.Create("org-1", "user-1", &domain.Notification{
		OrganizationID: "org-evil",
		UserID:         "user-evil",
		Title:          "Device offline",
		Message:        "Sensor A stopped reporting",
		Category:       domain.CategoryDeviceAlert,
	})
	require.NoError(t, err)

	assert.Equal(t, "org-1", created.OrganizationID)
	assert.Equal(t, "user-1", created.UserID)
	assert.NotEmpty(t, created.ID)
}

func TestCreate_RejectsEmptyTitleOrMessage(t *testing.T) {
	uc, _ := newTestUsecase(true)

	_, err := uc.Create("org-1", "user-1", &domain.Notification{Message: "no title"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = uc.Create("org-1", "user-1", &domain.Notification{Title: "no message"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestCreateWithPreferenceCheck_BlockedIsNotAnError(t *testing.T) {
	uc, repo := newTestUsecase(false)

	created, err := uc.CreateWithPreferenceCheck("user-1", &domain.Notification{
		OrganizationID: "org-1",
		Title:          "Maintenance due",
		Message:        "Pump filter",
		Category:       domain.CategoryMaintenanceAlert,
	})
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, repo.rows)
}

func TestCreateWithPreferenceCheck_AllowedPersists(t *testing.T) {
	uc, repo := newTestUsecase(true)

	created, err := uc.CreateWithPreferenceCheck("user-1", &domain.Notification{
		OrganizationID: "org-1",
		Title:          "Maintenance due",
		Message:        "Pump filter",
		Category:       domain.CategoryMaintenanceAlert,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Len(t, repo.rows, 1)
}

func TestGet_ForeignTenantLooksAbsent(t *testing.T) {
	uc, _ := newTestUsecase(true)

	created, err := uc.Create("org-1", "user-1", &domain.Notification{
		Title: "t", Message: "m", Category: domain.CategoryDeviceAlert,
	})
	require.NoError(t, err)

	_, err = uc.Get(created.ID, "org-2", "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = uc.Get(created.ID, "org-1", "user-2")
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := uc.Get(created.ID, "org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestMarkRead_AbsentIDReturnsNotFound(t *testing.T) {
	uc, _ := newTestUsecase(true)

	err := uc.MarkRead("missing", "org-1", "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMarkAllRead_IsIdempotent(t *testing.T) {
	uc, _ := newTestUsecase(true)

	for i := 0; i < 3; i++ {
		_, err := uc.Create("org-1", "user-1", &domain.Notification{
			Title: "t", Message: "m", Category: domain.CategoryDeviceAlert,
		})
		require.NoError(t, err)
	}

	require.NoError(t, uc.MarkAllRead("org-1", "user-1"))
	count, err := uc.UnreadCount("org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Second call on an already-read set succeeds and changes nothing.
	require.NoError(t, uc.MarkAllRead("org-1", "user-1"))
	count, err = uc.UnreadCount("org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDelete_ForeignTenantReturnsNotFound(t *testing.T) {
	uc, repo := newTestUsecase(true)

	created, err := uc.Create("org-1", "user-1", &domain.Notification{
		Title: "t", Message: "m", Category: domain.CategoryDeviceAlert,
	})
	require.NoError(t, err)

	err = uc.Delete(created.ID, "org-2", "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Len(t, repo.rows, 1)

	require.NoError(t, uc.Delete(created.ID, "org-1", "user-1"))
	assert.Empty(t, repo.rows)
}

func TestUnregisterAllDeviceTokens_RemovesOnlyCallersTokens(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	uc := NewNotificationUsecase(newFakeNotificationRepo(), tokenRepo, fixedGate{allow: true})

	require.NoError(t, uc.RegisterDeviceToken("user-1", "tok-a", "phone"))
	require.NoError(t, uc.RegisterDeviceToken("user-1", "tok-b", "tablet"))
	require.NoError(t, uc.RegisterDeviceToken("user-2", "tok-c", "phone"))

	require.NoError(t, uc.UnregisterAllDeviceTokens("user-1"))

	mine, err := tokenRepo.TokensByUserID("user-1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := tokenRepo.TokensByUserID("user-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestDeleteAll_OnlyTouchesCallerScope(t *testing.T) {
	uc, repo := newTestUsecase(true)

	for _, owner := range []struct{ org, user string }{
		{"org-1", "user-1"}, {"org-1", "user-1"}, {"org-1", "user-2"}, {"org-2", "user-1"},
	} {
		_, err := uc.Create(owner.org, owner.user, &domain.Notification{
			Title: "t", Message: "m", Category: domain.CategoryDeviceAlert,
		})
		require.NoError(t, err)
	}

	deleted, err := uc.DeleteAll("org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Len(t, repo.rows, 2)
}
