package background

import (
	"context"
	"log"
	"sync"
	"time"

	"bookslot/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler drives the plan lifecycle on a fixed cadence: a daily expiry
// sweep and a monthly counter reset. It is the only background-execution
// component; the sweeps themselves are plain functions over persisted state,
// so a missed or repeated tick is harmless.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	lifecycleSvc services.LifecycleService
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers the lifecycle jobs.
func NewJobScheduler(lifecycleSvc services.LifecycleService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		lifecycleSvc: lifecycleSvc,
		jobs:         make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Expired trials and lapsed pro subscriptions - daily at 01:00
	expiryJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(1, 0, 0))),
		gocron.NewTask(js.runExpirySweep),
		gocron.WithName("lifecycle-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create expiry sweep job: %v", err)
	} else {
		js.jobs["expiry-sweep"] = expiryJob
	}

	// Monthly usage counter reset - 1st of the month at 00:05
	resetJob, err := js.scheduler.NewJob(
		gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(1), gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(js.runResetSweep),
		gocron.WithName("monthly-counter-reset"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create counter reset job: %v", err)
	} else {
		js.jobs["counter-reset"] = resetJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) runExpirySweep() {
	log.Printf("Starting lifecycle expiry sweep")
	if err := js.lifecycleSvc.Sweep(context.Background(), time.Now()); err != nil {
		log.Printf("ERROR: lifecycle expiry sweep failed: %v", err)
		return
	}
	log.Printf("Completed lifecycle expiry sweep")
}

func (js *JobScheduler) runResetSweep() {
	log.Printf("Starting monthly counter reset sweep")
	if err := js.lifecycleSvc.ResetSweep(context.Background(), time.Now()); err != nil {
		log.Printf("ERROR: monthly counter reset sweep failed: %v", err)
		return
	}
	log.Printf("Completed monthly counter reset sweep")
}

// JobStatus returns the registered job names for the health endpoint.
func (js *JobScheduler) JobStatus() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
