package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eslym/phantoman/pkg/config"
	"github.com/eslym/phantoman/pkg/log"
	"github.com/eslym/phantoman/pkg/supervisor"
)

const (
	OutputLogName = "phantomjs.output.txt"
	ErrorLogName  = "phantomjs.errors.txt"
)

// CommandBuilder renders the launch command for a finalized config.
type CommandBuilder interface {
	Build(cfg *config.Config) (string, error)
}

// ProcessSupervisor starts, probes and stops one server process.
type ProcessSupervisor interface {
	IsRunning() bool
	Start(command string, r supervisor.Redirections) error
	WaitUntilReachable(port int) error
	Stop() error
}

// StatsProvider is implemented by supervisors that can report resource usage.
type StatsProvider interface {
	Stats() (*supervisor.ResourceStats, error)
}

// Suite identifies the test suite being initialized.
type Suite struct {
	Name     string
	BaseName string
}

// Runner starts the server for selected suites and stops it on Close.
type Runner struct {
	cfg     *config.Config
	builder CommandBuilder
	sup     ProcessSupervisor
}

// New expects cfg to be finalized by config.Configurator.
func New(cfg *config.Config, builder CommandBuilder, sup ProcessSupervisor) *Runner {
	return &Runner{cfg: cfg, builder: builder, sup: sup}
}

// Redirections returns the output and error log paths under the configured log dir.
func Redirections(cfg *config.Config) supervisor.Redirections {
	dir := cfg.LogDir()
	return supervisor.Redirections{
		Output: filepath.Join(dir, OutputLogName),
		Errors: filepath.Join(dir, ErrorLogName),
	}
}

// Selected reports whether the server should run for suite. Without a
// suites list every suite is selected.
func Selected(cfg *config.Config, suite Suite) bool {
	suites := cfg.Suites()
	if suites == nil {
		return true
	}
	return slices.Contains(suites, suite.BaseName) || slices.Contains(suites, suite.Name)
}

// SuiteInit starts the server unless the suite is filtered out or the
// server is already running, then waits until it accepts connections.
func (r *Runner) SuiteInit(suite Suite) error {
	if !Selected(r.cfg, suite) {
		log.Debugf("phantoman", "suite %q not in %v, not starting server", suite.Name, r.cfg.Suites())
		return nil
	}
	return r.Start()
}

// Start launches the server without consulting the suites allow-list. It is
// a no-op while the server is running.
func (r *Runner) Start() error {
	if r.sup.IsRunning() {
		return nil
	}
	log.Printf("phantoman", "Starting PhantomJS Server.")

	command, err := r.builder.Build(r.cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", supervisor.ErrLaunchFailure, err)
	}
	if r.cfg.Debug() {
		log.Printf("phantoman", "Generated PhantomJS Command: %s", command)
	}

	redirections := Redirections(r.cfg)
	if err := os.MkdirAll(r.cfg.LogDir(), 0o755); err != nil {
		return fmt.Errorf("%w: log dir: %w", supervisor.ErrLaunchFailure, err)
	}

	if err := r.sup.Start(command, redirections); err != nil {
		return err
	}

	log.Printf("phantoman", "Waiting for the PhantomJS server to be reachable.")
	if err := r.sup.WaitUntilReachable(r.cfg.Port()); err != nil {
		log.Progress("\n")
		return err
	}
	log.Progress("\n")
	log.Printf("phantoman", "PhantomJS server now accessible.")

	if sp, ok := r.sup.(StatsProvider); ok && r.cfg.Debug() {
		if stats, err := sp.Stats(); err == nil {
			log.Debugf("phantoman", "pid %d, cpu %.1f%%, rss %d bytes", stats.PID, stats.CPUPercent, stats.MemoryRSS)
		}
	}
	return nil
}

// Close stops the server if it is running. ErrShutdownFailure is logged
// and returned; callers may continue after it.
func (r *Runner) Close() error {
	if !r.sup.IsRunning() {
		return nil
	}
	log.Printf("phantoman", "Stopping PhantomJS Server.")
	err := r.sup.Stop()
	log.Progress("\n")
	if errors.Is(err, supervisor.ErrShutdownFailure) {
		log.Warnf("phantoman", "Unable to properly shutdown PhantomJS server: %s", err)
		return err
	}
	if err != nil {
		return err
	}
	log.Printf("phantoman", "PhantomJS server stopped.")
	return nil
}
