package cron

import (
	"context"
	"sort"
	"sync"

	"github.com/kendraSO/site/core/module"
)

// JobFunc runs one job. Args come from the command line when the job is run
// by name, and are empty on scheduled runs.
type JobFunc func(ctx context.Context, host module.Host, args ...string) error

// Job holds schedule and run function.
type Job struct {
	Name     string
	Schedule string
	Run      JobFunc
}

var (
	mu     sync.Mutex
	jobs   = make(map[string]Job)
	locked bool
)

// Register adds a cron job. Call from init() in custom packages. Panics if
// the registry is locked or the name is taken.
func Register(name string, schedule string, run JobFunc) {
	mu.Lock()
	defer mu.Unlock()
	if locked {
		panic("cron/registry: locked (register only during init before the cron module starts)")
	}
	if _, ok := jobs[name]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[name] = Job{Name: name, Schedule: schedule, Run: run}
}

// Unregister removes a job and unlocks the registry (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	locked = false
	delete(jobs, name)
}

// Jobs returns all registered jobs sorted by name. It locks the registry:
// registration is closed once a cron module has read it.
func Jobs() []Job {
	mu.Lock()
	defer mu.Unlock()
	locked = true
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}
