package usecase

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/repository"
	notifdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/notification/domain"
)

var ErrNotFound = errors.New("maintenance task not found")

// NotificationCreator delivers maintenance alerts through the preference
// gate. A nil result with nil error means the recipient blocked the category.
type NotificationCreator interface {
	CreateWithPreferenceCheck(userID string, n *notifdomain.Notification) (*notifdomain.Notification, error)
}

// TaskWithState pairs a task with its attention state for today.
type TaskWithState struct {
	domain.MaintenanceTask
	State domain.AttentionState `json:"attention_state"`
}

// SchedulerStatus summarizes the scheduler's view of the task table.
type SchedulerStatus struct {
	ActiveTasks    int64 `json:"active_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	OverdueCount   int   `json:"overdue_count"`
	DueTodayCount  int   `json:"due_today_count"`
}

// MaintenanceUsecase coordinates the maintenance schedule: rolling due dates
// forward and firing due-task notifications exactly once per day per task.
type MaintenanceUsecase interface {
	CreateTask(t *domain.MaintenanceTask) (*domain.MaintenanceTask, error)
	GetTask(id string) (*domain.MaintenanceTask, error)

	// ListActiveTasks returns every ACTIVE task, soonest due first.
	ListActiveTasks() ([]domain.MaintenanceTask, error)

	// TasksNeedingAttention returns OVERDUE and DUE_TODAY tasks, soonest
	// due first, each labeled with its state.
	TasksNeedingAttention() ([]TaskWithState, error)

	// ManualUpdate rolls every overdue or due-today task's schedule
	// forward. Running it twice on the same day changes nothing the
	// second time. Returns the number of tasks updated.
	ManualUpdate() (int, error)

	// TriggerNotifications notifies assignees of every task needing
	// attention that has not been notified today. Concurrent triggers
	// contend per task; each task notifies at most once per day. Returns
	// the number of notifications actually created.
	TriggerNotifications() (int, error)

	Status() (*SchedulerStatus, error)

	SetNotificationCreator(creator NotificationCreator)
}

type maintenanceUsecase struct {
	maintRepo repository.MaintenanceRepository
	creator   NotificationCreator
	now       func() time.Time
}

func NewMaintenanceUsecase(maintRepo repository.MaintenanceRepository) MaintenanceUsecase {
	return &maintenanceUsecase{maintRepo: maintRepo, now: time.Now}
}

func (u *maintenanceUsecase) SetNotificationCreator(creator NotificationCreator) {
	u.creator = creator
}

func (u *maintenanceUsecase) CreateTask(t *domain.MaintenanceTask) (*domain.MaintenanceTask, error) {
	if t.NextMaintenance.IsZero() {
		t.NextMaintenance = domain.NextFromFrequency(t.Frequency, u.now())
	}
	if err := u.maintRepo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *maintenanceUsecase) GetTask(id string) (*domain.MaintenanceTask, error) {
	t, err := u.maintRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (u *maintenanceUsecase) ListActiveTasks() ([]domain.MaintenanceTask, error) {
	return u.maintRepo.FindActive()
}

func (u *maintenanceUsecase) TasksNeedingAttention() ([]TaskWithState, error) {
	today := u.now()
	tasks, err := u.maintRepo.FindDueOnOrBefore(today)
	if err != nil {
		return nil, err
	}

	result := make([]TaskWithState, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, TaskWithState{MaintenanceTask: t, State: t.AttentionState(today)})
	}
	return result, nil
}

func (u *maintenanceUsecase) ManualUpdate() (int, error) {
	today := u.now()
	tasks, err := u.maintRepo.FindDueOnOrBefore(today)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range tasks {
		t := &tasks[i]
		switch t.AttentionState(today) {
		case domain.AttentionOverdue:
			// Roll forward from the missed date until the schedule is
			// back in the future.
			next := t.NextMaintenance
			for !domain.DateOnly(next).After(domain.DateOnly(today)) {
				next = domain.NextFromFrequency(t.Frequency, next)
			}
			t.NextMaintenance = next
		case domain.AttentionDueToday:
			done := domain.DateOnly(today)
			t.LastMaintenance = &done
			t.NextMaintenance = domain.NextFromFrequency(t.Frequency, today)
		default:
			continue
		}

		if err := u.maintRepo.Save(t); err != nil {
			log.Printf("[MaintenanceScheduler] Failed to update task %s: %v", t.ID, err)
			continue
		}
		updated++
	}

	log.Printf("[MaintenanceScheduler] Manual update completed: %d task(s) rescheduled", updated)
	return updated, nil
}

func (u *maintenanceUsecase) TriggerNotifications() (int, error) {
	today := u.now()
	tasks, err := u.maintRepo.FindDueOnOrBefore(today)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range tasks {
		t := &tasks[i]
		if t.AssignedTo == "" {
			continue
		}
		if t.LastNotifiedAt != nil && domain.DateOnly(*t.LastNotifiedAt).Equal(domain.DateOnly(today)) {
			continue
		}

		// Claim before notifying so a concurrent trigger loses the race
		// instead of duplicating the alert.
		won, err := u.maintRepo.ClaimNotification(t.ID, t.LastNotifiedAt, today)
		if err != nil {
			log.Printf("[MaintenanceScheduler] Failed to claim task %s: %v", t.ID, err)
			continue
		}
		if !won {
			continue
		}

		if u.notifyAssignee(t, today) {
			created++
		}
	}

	log.Printf("[MaintenanceScheduler] Notification trigger completed: %d notification(s) created", created)
	return created, nil
}

func (u *maintenanceUsecase) notifyAssignee(t *domain.MaintenanceTask, today time.Time) bool {
	if u.creator == nil {
		return false
	}

	state := t.AttentionState(today)
	title := fmt.Sprintf("Maintenance due: %s", t.TaskName)
	if state == domain.AttentionOverdue {
		title = fmt.Sprintf("Maintenance overdue: %s", t.TaskName)
	}

	n := &notifdomain.Notification{
		OrganizationID: t.OrganizationID,
		Title:          title,
		Message: fmt.Sprintf("%s on %s (%s) is due %s",
			t.TaskName, t.DeviceName, t.ComponentName, t.NextMaintenance.Format("2006-01-02")),
		Category: notifdomain.CategoryMaintenanceAlert,
		DeviceID: t.DeviceID,
		Metadata: notifdomain.Metadata{
			"maintenance_task_id": t.ID,
			"attention_state":     string(state),
		},
	}

	result, err := u.creator.CreateWithPreferenceCheck(t.AssignedTo, n)
	if err != nil {
		log.Printf("[MaintenanceScheduler] Failed to notify %s for task %s: %v", t.AssignedTo, t.ID, err)
		return false
	}
	return result != nil
}

func (u *maintenanceUsecase) Status() (*SchedulerStatus, error) {
	active, err := u.maintRepo.CountByStatus(domain.StatusActive)
	if err != nil {
		return nil, err
	}
	completed, err := u.maintRepo.CountByStatus(domain.StatusCompleted)
	if err != nil {
		return nil, err
	}

	today := u.now()
	due, err := u.maintRepo.FindDueOnOrBefore(today)
	if err != nil {
		return nil, err
	}

	status := &SchedulerStatus{ActiveTasks: active, CompletedTasks: completed}
	for _, t := range due {
		switch t.AttentionState(today) {
		case domain.AttentionOverdue:
			status.OverdueCount++
		case domain.AttentionDueToday:
			status.DueTodayCount++
		}
	}
	return status, nil
}
