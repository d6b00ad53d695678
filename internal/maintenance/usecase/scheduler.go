package usecase

import (
	"log"
	"time"
)

// Scheduler runs the daily maintenance pass: roll schedules forward, then
// notify assignees of everything still needing attention.
type Scheduler struct {
	maintUsecase MaintenanceUsecase
	hour         int
	stopChan     chan struct{}
}

// NewScheduler creates a scheduler that fires once a day at the given local
// hour.
func NewScheduler(maintUsecase MaintenanceUsecase, hour int) *Scheduler {
	return &Scheduler{
		maintUsecase: maintUsecase,
		hour:         hour,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the scheduler loop in a background goroutine.
func (s *Scheduler) Start() {
	log.Printf("[MaintenanceScheduler] Started, daily run at %02d:00", s.hour)
	go s.run()
}

// Stop terminates the scheduler loop.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("[MaintenanceScheduler] Stopped")
}

func (s *Scheduler) run() {
	for {
		timer := time.NewTimer(s.untilNextRun(time.Now()))
		select {
		case <-timer.C:
			s.runOnce()
		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func (s *Scheduler) runOnce() {
	log.Println("[MaintenanceScheduler] Daily run starting")

	// Notify before rescheduling so assignees see the task's missed date,
	// not the already rolled-forward one.
	if _, err := s.maintUsecase.TriggerNotifications(); err != nil {
		log.Printf("[MaintenanceScheduler] Notification pass failed: %v", err)
	}
	if _, err := s.maintUsecase.ManualUpdate(); err != nil {
		log.Printf("[MaintenanceScheduler] Update pass failed: %v", err)
	}
}
