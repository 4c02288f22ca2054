package sched

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the daily rotation at a configured calendar boundary.
// It only produces the trigger; the rotation itself lives in the game
// package.
type Scheduler struct {
	engine *cron.Cron
}

// New schedules job under the given cron expression, evaluated in UTC.
func New(spec string, job func()) (*Scheduler, error) {
	engine := cron.New(cron.WithLocation(time.UTC))
	if _, err := engine.AddFunc(spec, job); err != nil {
		return nil, err
	}
	return &Scheduler{engine: engine}, nil
}

// Start begins evaluating the schedule in its own goroutine.
func (s *Scheduler) Start() {
	slog.Info("Rotation scheduler started")
	s.engine.Start()
}

// Stop halts the schedule. A job already running is not interrupted.
func (s *Scheduler) Stop() {
	s.engine.Stop()
	slog.Info("Rotation scheduler stopped")
}
