// Package cron provides the cron capability: jobs registered at init time are
// validated and scheduled with robfig/cron.
package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	rcron "github.com/robfig/cron/v3"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// ErrUnknownJob is returned by Run for a name no job is registered under.
var ErrUnknownJob = errors.New("cron: unknown job")

var parser = rcron.NewParser(
	rcron.Minute | rcron.Hour | rcron.Dom | rcron.Month | rcron.Dow | rcron.Descriptor,
)

// Module provides the cron capability.
type Module struct {
	host      module.Host
	cron      *rcron.Cron
	jobs      map[string]Job
	scheduled []string
}

// NewModule returns the cron module.
func NewModule(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapCron} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init reads the job registry, validates every schedule and adds the jobs not
// listed in CRON_DISABLED. The scheduler is not started.
func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config().Cron
	logger := m.host.Logger()

	m.cron = rcron.New(
		rcron.WithParser(parser),
		rcron.WithLocation(m.host.Location()),
		rcron.WithLogger(cronLogger{logger.WithPrefix("cron")}),
		rcron.WithChain(rcron.Recover(cronLogger{logger.WithPrefix("cron")})),
	)
	m.jobs = make(map[string]Job)
	m.scheduled = nil

	for _, job := range Jobs() {
		if _, err := parser.Parse(job.Schedule); err != nil {
			return fmt.Errorf("cron: job %s: invalid schedule %q: %w", job.Name, job.Schedule, err)
		}
		m.jobs[job.Name] = job
		if !cfg.JobEnabled(job.Name) {
			logger.Info("cron job disabled", "job", job.Name)
			continue
		}
		if _, err := m.cron.AddFunc(job.Schedule, func() { m.runScheduled(job) }); err != nil {
			return fmt.Errorf("cron: job %s: %w", job.Name, err)
		}
		m.scheduled = append(m.scheduled, job.Name)
	}
	logger.Debug("cron jobs loaded", "registered", len(m.jobs), "scheduled", len(m.scheduled))
	return nil
}

func (m *Module) runScheduled(job Job) {
	if err := job.Run(context.Background(), m.host); err != nil {
		m.host.Logger().Error("cron job failed", "job", job.Name, "err", err)
	}
}

// Scheduled returns the names of the jobs added to the scheduler.
func (m *Module) Scheduled() []string {
	return append([]string(nil), m.scheduled...)
}

// Start runs the scheduler in its own goroutine.
func (m *Module) Start() {
	m.cron.Start()
	m.host.Logger().Info("cron scheduler started", "jobs", len(m.scheduled))
}

// Stop stops the scheduler. The returned context is done when running jobs
// have finished.
func (m *Module) Stop() context.Context {
	return m.cron.Stop()
}

// Run executes a registered job once, whether or not it is disabled.
func (m *Module) Run(ctx context.Context, name string, args ...string) error {
	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	m.host.Logger().Info("running cron job", "job", name)
	return job.Run(ctx, m.host, args...)
}

// cronLogger adapts the charm logger to robfig's Logger interface.
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "err", err)...)
}
