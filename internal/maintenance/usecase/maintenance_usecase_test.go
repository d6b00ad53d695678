package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"
	notifdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMaintenanceRepo is an in-memory MaintenanceRepository whose
// ClaimNotification keeps the compare-and-set semantics of the SQL version.
type fakeMaintenanceRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.MaintenanceTask
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{rows: make(map[string]*domain.MaintenanceTask)}
}

func (r *fakeMaintenanceRepo) Create(t *domain.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.StatusActive
	}
	copied := *t
	r.rows[t.ID] = &copied
	return nil
}

func (r *fakeMaintenanceRepo) FindByID(id string) (*domain.MaintenanceTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeMaintenanceRepo) FindActive() ([]domain.MaintenanceTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MaintenanceTask
	for _, t := range r.rows {
		if t.Status == domain.StatusActive {
			out = append(out, *t)
		}
	}
	sortByDue(out)
	return out, nil
}

func (r *fakeMaintenanceRepo) FindDueOnOrBefore(day time.Time) ([]domain.MaintenanceTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := domain.DateOnly(day).AddDate(0, 0, 1)
	var out []domain.MaintenanceTask
	for _, t := range r.rows {
		if t.Status == domain.StatusActive && t.NextMaintenance.Before(cutoff) {
			out = append(out, *t)
		}
	}
	sortByDue(out)
	return out, nil
}

func sortByDue(tasks []domain.MaintenanceTask) {
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && tasks[j].NextMaintenance.Before(tasks[j-1].NextMaintenance); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}

func (r *fakeMaintenanceRepo) Save(t *domain.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.rows[t.ID] = &copied
	return nil
}

func (r *fakeMaintenanceRepo) ClaimNotification(id string, observed *time.Time, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	switch {
	case observed == nil && t.LastNotifiedAt != nil:
		return false, nil
	case observed != nil && (t.LastNotifiedAt == nil || !t.LastNotifiedAt.Equal(*observed)):
		return false, nil
	}
	claimed := now
	t.LastNotifiedAt = &claimed
	return true, nil
}

func (r *fakeMaintenanceRepo) CountByStatus(status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.rows {
		if t.Status == status {
			count++
		}
	}
	return count, nil
}

// recordingCreator captures preference-gated notification attempts.
type recordingCreator struct {
	mu      sync.Mutex
	allow   bool
	created []*notifdomain.Notification
}

func (c *recordingCreator) CreateWithPreferenceCheck(userID string, n *notifdomain.Notification) (*notifdomain.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allow {
		return nil, nil
	}
	n.UserID = userID
	c.created = append(c.created, n)
	return n, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testToday = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestMaintenanceUsecase(creator NotificationCreator) (*maintenanceUsecase, *fakeMaintenanceRepo) {
	repo := newFakeMaintenanceRepo()
	uc := &maintenanceUsecase{maintRepo: repo, creator: creator, now: fixedClock(testToday)}
	return uc, repo
}

func seedTask(t *testing.T, repo *fakeMaintenanceRepo, name string, due time.Time, assignee string) *domain.MaintenanceTask {
	t.Helper()
	task := &domain.MaintenanceTask{
		TaskName:        name,
		DeviceID:        "device-1",
		DeviceName:      "Pump A",
		ComponentName:   "Filter",
		Frequency:       "monthly",
		NextMaintenance: due,
		Priority:        domain.PriorityMedium,
		AssignedTo:      assignee,
		OrganizationID:  "org-1",
	}
	require.NoError(t, repo.Create(task))
	return task
}

func TestTasksNeedingAttention_StatesAndOrdering(t *testing.T) {
	uc, repo := newTestMaintenanceUsecase(nil)

	seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -5), "user-1")
	seedTask(t, repo, "due-today", testToday, "user-1")
	seedTask(t, repo, "future", testToday.AddDate(0, 0, 10), "user-1")

	tasks, err := uc.TasksNeedingAttention()
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "overdue", tasks[0].TaskName)
	assert.Equal(t, domain.AttentionOverdue, tasks[0].State)
	assert.Equal(t, "due-today", tasks[1].TaskName)
	assert.Equal(t, domain.AttentionDueToday, tasks[1].State)
}

func TestManualUpdate_ReschedulesAndIsIdempotent(t *testing.T) {
	uc, repo := newTestMaintenanceUsecase(nil)

	overdue := seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -40), "user-1")
	dueToday := seedTask(t, repo, "due-today", testToday, "user-1")
	future := seedTask(t, repo, "future", testToday.AddDate(0, 0, 10), "user-1")

	updated, err := uc.ManualUpdate()
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	got, err := repo.FindByID(overdue.ID)
	require.NoError(t, err)
	assert.True(t, domain.DateOnly(got.NextMaintenance).After(domain.DateOnly(testToday)))

	got, err = repo.FindByID(dueToday.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NextFromFrequency("monthly", testToday), got.NextMaintenance)
	require.NotNil(t, got.LastMaintenance)
	assert.Equal(t, domain.DateOnly(testToday), *got.LastMaintenance)

	got, err = repo.FindByID(future.ID)
	require.NoError(t, err)
	assert.Equal(t, future.NextMaintenance, got.NextMaintenance)

	// Same day, second call: nothing left to touch.
	updated, err = uc.ManualUpdate()
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestTriggerNotifications_CountsOnlyCreated(t *testing.T) {
	creator := &recordingCreator{allow: true}
	uc, repo := newTestMaintenanceUsecase(creator)

	seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -2), "user-1")
	seedTask(t, repo, "due-today", testToday, "user-2")
	seedTask(t, repo, "unassigned", testToday, "")
	seedTask(t, repo, "future", testToday.AddDate(0, 0, 3), "user-1")

	created, err := uc.TriggerNotifications()
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	require.Len(t, creator.created, 2)
	for _, n := range creator.created {
		assert.Equal(t, notifdomain.CategoryMaintenanceAlert, n.Category)
		assert.Equal(t, "org-1", n.OrganizationID)
	}
}

func TestTriggerNotifications_PreferenceBlockedDoesNotCount(t *testing.T) {
	creator := &recordingCreator{allow: false}
	uc, repo := newTestMaintenanceUsecase(creator)

	task := seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -2), "user-1")

	created, err := uc.TriggerNotifications()
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// The claim still advanced, so the blocked task is not retried today.
	got, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastNotifiedAt)
}

func TestTriggerNotifications_OncePerDayPerTask(t *testing.T) {
	creator := &recordingCreator{allow: true}
	uc, repo := newTestMaintenanceUsecase(creator)

	seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -2), "user-1")

	created, err := uc.TriggerNotifications()
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = uc.TriggerNotifications()
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestTriggerNotifications_ConcurrentTriggersDoNotDuplicate(t *testing.T) {
	creator := &recordingCreator{allow: true}
	uc, repo := newTestMaintenanceUsecase(creator)

	for i := 0; i < 5; i++ {
		seedTask(t, repo, "task", testToday.AddDate(0, 0, -1), "user-1")
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			created, err := uc.TriggerNotifications()
			assert.NoError(t, err)
			results[slot] = created
		}(i)
	}
	wg.Wait()

	total := 0
	for _, c := range results {
		total += c
	}
	assert.Equal(t, 5, total)
	assert.Len(t, creator.created, 5)
}

func TestListActiveTasks_ExcludesInactiveAndOrdersByDue(t *testing.T) {
	uc, repo := newTestMaintenanceUsecase(nil)

	seedTask(t, repo, "later", testToday.AddDate(0, 0, 20), "user-1")
	seedTask(t, repo, "soonest", testToday.AddDate(0, 0, -1), "user-1")
	done := seedTask(t, repo, "done", testToday, "user-1")
	done.Status = domain.StatusCompleted
	require.NoError(t, repo.Save(done))

	tasks, err := uc.ListActiveTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "soonest", tasks[0].TaskName)
	assert.Equal(t, "later", tasks[1].TaskName)
}

func TestStatus_Breakdown(t *testing.T) {
	uc, repo := newTestMaintenanceUsecase(nil)

	seedTask(t, repo, "overdue", testToday.AddDate(0, 0, -1), "user-1")
	seedTask(t, repo, "due-today", testToday, "user-1")
	seedTask(t, repo, "future", testToday.AddDate(0, 0, 5), "user-1")
	done := seedTask(t, repo, "done", testToday, "user-1")
	done.Status = domain.StatusCompleted
	require.NoError(t, repo.Save(done))

	status, err := uc.Status()
	require.NoError(t, err)

	assert.Equal(t, int64(3), status.ActiveTasks)
	assert.Equal(t, int64(1), status.CompletedTasks)
	assert.Equal(t, 1, status.OverdueCount)
	assert.Equal(t, 1, status.DueTodayCount)
}
