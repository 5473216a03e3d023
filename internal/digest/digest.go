// Package digest periodically logs the upcoming agenda. It only reads the
// store; nothing it does changes what the page shows.
package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	appLog "planner/internal/log"
	"planner/internal/model"
)

// Source is the read side of the event store the digest needs.
type Source interface {
	Upcoming(limit int) []model.Event
}

// Scheduler runs the agenda digest on a cron schedule.
type Scheduler struct {
	cron  *cron.Cron
	src   Source
	limit int
}

// New validates schedule (standard 5-field cron syntax or @every) and registers the job.
func New(schedule string, src Source, limit int) (*Scheduler, error) {
	s := &Scheduler{
		cron:  cron.New(),
		src:   src,
		limit: limit,
	}
	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, fmt.Errorf("digest: invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	appLog.Info("agenda digest scheduled", "entries", len(s.cron.Entries()))
	go func() {
		<-ctx.Done()
		stopped := s.cron.Stop()
		<-stopped.Done()
		appLog.Debug("agenda digest stopped")
	}()
}

// Run logs one digest line immediately.
func (s *Scheduler) Run() {
	events := s.src.Upcoming(s.limit)
	appLog.Info("agenda digest", "count", len(events), "agenda", Summarize(events))
}

// Summarize renders events as "2025-01-16 18:00-19:30 Workout; ...".
func Summarize(events []model.Event) string {
	if len(events) == 0 {
		return "no upcoming events"
	}
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, fmt.Sprintf("%s %s-%s %s", ev.Date, ev.StartTime, ev.EndTime, ev.Title))
	}
	return strings.Join(parts, "; ")
}
