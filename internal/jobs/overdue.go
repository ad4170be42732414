package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// OverdueCounter is the repository slice the sweep needs.
type OverdueCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the nightly overdue sweep: a visibility job that logs how
// many unfinished tasks have slipped past their due date.
type Scheduler struct {
	tasks OverdueCounter
	cron  *cron.Cron
}

func NewScheduler(tasks OverdueCounter) *Scheduler {
	return &Scheduler{
		tasks: tasks,
		cron:  cron.New(),
	}
}

// Start registers the sweep (daily at midnight) and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * *", s.sweep); err != nil {
		return err
	}

	log.Println("[jobs] overdue sweep scheduled (daily at midnight)")
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.tasks.CountOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("[jobs] overdue sweep failed: %v", err)
		return
	}
	log.Printf("[jobs] overdue sweep: %d overdue tasks", n)
}
