package delivery

import (
	"errors"
	"net/http"
	"time"

	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/maintenance/usecase"

	"github.com/gin-gonic/gin"
)

// MaintenanceHandler handles maintenance scheduler HTTP requests
type MaintenanceHandler struct {
	maintUsecase usecase.MaintenanceUsecase
}

func NewMaintenanceHandler(maintUsecase usecase.MaintenanceUsecase) *MaintenanceHandler {
	return &MaintenanceHandler{maintUsecase: maintUsecase}
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	TaskName        string                 `json:"task_name" binding:"required"`
	DeviceID        string                 `json:"device_id"`
	DeviceName      string                 `json:"device_name"`
	ComponentName   string                 `json:"component_name"`
	MaintenanceType domain.MaintenanceType `json:"maintenance_type"`
	Description     string                 `json:"description"`
	Frequency       string                 `json:"frequency" binding:"required"`
	NextMaintenance *time.Time             `json:"next_maintenance"`
	Priority        domain.Priority        `json:"priority"`
	AssignedTo      string                 `json:"assigned_to"`
}

// CreateTask registers a new maintenance task in the caller's organization.
// POST /api/maintenance-scheduler/tasks
func (h *MaintenanceHandler) CreateTask(c *gin.Context) {
	orgID := c.GetString("orgID")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := &domain.MaintenanceTask{
		TaskName:        req.TaskName,
		DeviceID:        req.DeviceID,
		DeviceName:      req.DeviceName,
		ComponentName:   req.ComponentName,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		Frequency:       req.Frequency,
		Priority:        req.Priority,
		AssignedTo:      req.AssignedTo,
		OrganizationID:  orgID,
	}
	if req.NextMaintenance != nil {
		t.NextMaintenance = *req.NextMaintenance
	}

	created, err := h.maintUsecase.CreateTask(t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create maintenance task"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetTasks lists every active maintenance task, soonest due first.
// GET /api/maintenance-scheduler/tasks
func (h *MaintenanceHandler) GetTasks(c *gin.Context) {
	tasks, err := h.maintUsecase.ListActiveTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list maintenance tasks"})
		return
	}
	if tasks == nil {
		tasks = []domain.MaintenanceTask{}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// GetTask returns one maintenance task.
// GET /api/maintenance-scheduler/tasks/:id
func (h *MaintenanceHandler) GetTask(c *gin.Context) {
	t, err := h.maintUsecase.GetTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get maintenance task"})
		return
	}

	c.JSON(http.StatusOK, t)
}

// GetAttentionNeeded lists overdue and due-today tasks, soonest due first.
// GET /api/maintenance-scheduler/attention-needed
func (h *MaintenanceHandler) GetAttentionNeeded(c *gin.Context) {
	tasks, err := h.maintUsecase.TasksNeedingAttention()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tasks needing attention"})
		return
	}
	if tasks == nil {
		tasks = []usecase.TaskWithState{}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// ManualUpdate rolls due and overdue schedules forward immediately.
// POST /api/maintenance-scheduler/update
func (h *MaintenanceHandler) ManualUpdate(c *gin.Context) {
	updated, err := h.maintUsecase.ManualUpdate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance schedules updated",
		"updated": updated,
	})
}

// GetStatus reports scheduler counters.
// GET /api/maintenance-scheduler/status
func (h *MaintenanceHandler) GetStatus(c *gin.Context) {
	status, err := h.maintUsecase.Status()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get scheduler status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// TriggerNotifications fires maintenance alerts for due tasks immediately.
// POST /api/maintenance-notifications/trigger
func (h *MaintenanceHandler) TriggerNotifications(c *gin.Context) {
	created, err := h.maintUsecase.TriggerNotifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger maintenance notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Maintenance notifications triggered",
		"notifications": created,
	})
}

// GetNotificationStatus reports what a trigger would act on right now.
// GET /api/maintenance-notifications/status
func (h *MaintenanceHandler) GetNotificationStatus(c *gin.Context) {
	status, err := h.maintUsecase.Status()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notification status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending":   status.OverdueCount + status.DueTodayCount,
		"overdue":   status.OverdueCount,
		"due_today": status.DueTodayCount,
	})
}

// Debug dumps the tasks needing attention with their computed states.
// GET /api/maintenance-notifications/debug
func (h *MaintenanceHandler) Debug(c *gin.Context) {
	tasks, err := h.maintUsecase.TasksNeedingAttention()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get debug info"})
		return
	}
	if tasks == nil {
		tasks = []usecase.TaskWithState{}
	}

	c.JSON(http.StatusOK, gin.H{
		"now":   time.Now(),
		"tasks": tasks,
		"count": len(tasks),
	})
}
