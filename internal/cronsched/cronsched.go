// Package cronsched implements the in-process cron tick loop: a single
// mutex-guarded scheduler holding an ordered set of scheduled jobs, ticked
// on a fixed cadence by the task manager.
package cronsched

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"fleetcron.dev/fleetcron/internal/ids"
)

// parser matches the original's six-field, seconds-inclusive cron syntax.
var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule parses a six-field cron expression (seconds included).
func ParseSchedule(expr string) (cron.Schedule, error) {
	return parser.Parse(expr)
}

type scheduledJob struct {
	id       ids.TaskID // not set by Add; jobs are identified by jobID
	jobID    JobID
	schedule cron.Schedule
	fn       func()
	lastRun  time.Time
}

// JobID identifies one registration with the Scheduler.
type JobID = ids.TaskID

// Scheduler is a single-threaded cooperative cron scheduler. All operations
// are serialised by one mutex; the job functions themselves are invoked via
// a fire-and-forget goroutine and do not hold that mutex while running.
type Scheduler struct {
	mu   sync.Mutex
	jobs []*scheduledJob
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Add registers fn to run at every instant schedule fires, returning a JobID
// usable with Remove. lastRun is initialised to wall-clock now, so Tick will
// only ever fire instants strictly after registration time.
func (s *Scheduler) Add(schedule cron.Schedule, fn func()) JobID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ids.NewTaskID()
	s.jobs = append(s.jobs, &scheduledJob{
		jobID:    id,
		schedule: schedule,
		fn:       fn,
		lastRun:  time.Now(),
	})
	return id
}

// Remove deletes the job with the given id, if present. No error if absent.
func (s *Scheduler) Remove(id JobID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, j := range s.jobs {
		if j.jobID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return
		}
	}
}

// Tick walks every registered job and fires all scheduled instants strictly
// after that job's lastRun up to and including now. Each firing instant
// spawns fn on its own goroutine (fire-and-forget, not awaited); lastRun
// advances to that instant; the walk stops at the first instant beyond now.
//
// If ticks are delayed (system sleep, GC pause), every missed instant in
// (lastRun, now] fires on this single Tick call — potentially many fires.
// This catch-up is unbounded by design: robfig/cron's Next() enumerates
// lazily, so no artificial cap is introduced here.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		for {
			next := j.schedule.Next(j.lastRun)
			if next.After(now) {
				break
			}
			fn := j.fn
			go fn()
			j.lastRun = next
		}
	}
}

// Len returns the current number of registered jobs. Intended for tests.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
