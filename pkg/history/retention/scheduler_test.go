package retention

import (
	"context"
	"testing"

	"helmsman-hq/chartward/pkg/history/storage"
)

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "not a cron expression"})
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded with an invalid schedule")
	}
}

func TestSchedulerEmptyScheduleNoop(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: ""})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if p.scheduler.IsRunning() {
		t.Error("scheduler running with an empty schedule")
	}
	if p.NextPruning() != nil {
		t.Error("NextPruning() non-nil with an empty schedule")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if p.NextPruning() == nil {
		t.Error("NextPruning() = nil after Start")
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
