package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"projectdb/database"
	"projectdb/workload"

	"github.com/robfig/cron/v3"
)

// Source supplies the plan/actual snapshot for a date range.
type Source interface {
	FetchRange(ctx context.Context, f database.Filter) ([]workload.Plan, []workload.Actual, error)
}

// MissingReportScanner periodically looks at the previous day and reports
// every workload that was planned but never reported.
type MissingReportScanner struct {
	cronScheduler *cron.Cron
	source        Source
	codec         *workload.DateCodec
	schedule      string
	timeout       time.Duration
	jobID         cron.EntryID
	notify        func(workload.Unified)
}

func NewMissingReportScanner(source Source, codec *workload.DateCodec, schedule string) *MissingReportScanner {
	return &MissingReportScanner{
		cronScheduler: cron.New(cron.WithSeconds(), cron.WithLocation(codec.Location())),
		source:        source,
		codec:         codec,
		schedule:      schedule,
		timeout:       time.Minute,
		notify:        logMissing,
	}
}

// OnMissing replaces the default logging notifier.
func (s *MissingReportScanner) OnMissing(fn func(workload.Unified)) {
	s.notify = fn
}

func (s *MissingReportScanner) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, s.runScheduled)
	if err != nil {
		return fmt.Errorf("error scheduling missing report scan: %w", err)
	}

	s.cronScheduler.Start()
	log.Printf("Missing report scanner started with schedule %q", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running scan to finish.
func (s *MissingReportScanner) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		log.Println("Missing report scanner stopped")
	}
}

func (s *MissingReportScanner) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.codec.Yesterday()
	log.Printf("Running scheduled missing report scan for %s", key)
	if _, err := s.RunOnce(ctx, key); err != nil {
		log.Printf("Error in missing report scan: %v", err)
	}
}

// RunOnce scans a single date and returns its missing workloads.
func (s *MissingReportScanner) RunOnce(ctx context.Context, dateKey string) ([]workload.Unified, error) {
	if _, err := s.codec.Parse(dateKey); err != nil {
		return nil, err
	}

	plans, actuals, err := s.source.FetchRange(ctx, database.Filter{From: dateKey, To: dateKey})
	if err != nil {
		return nil, fmt.Errorf("fetching workloads for %s: %w", dateKey, err)
	}

	missing := workload.Filter(workload.Reconcile(plans, actuals), workload.StatusMissing)
	for _, u := range missing {
		s.notify(u)
	}

	if len(missing) == 0 {
		log.Printf("No missing reports for %s", dateKey)
	} else {
		log.Printf("%d missing report(s) for %s", len(missing), dateKey)
	}
	return missing, nil
}

func logMissing(u workload.Unified) {
	log.Printf("Missing report: user %d, project %d, date %s", u.UserID, u.ProjectID, u.Date)
}
