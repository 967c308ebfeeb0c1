package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/eslym/phantoman/pkg/cli"
	"github.com/eslym/phantoman/pkg/command"
	"github.com/eslym/phantoman/pkg/config"
	"github.com/eslym/phantoman/pkg/log"
	"github.com/eslym/phantoman/pkg/runner"
	"github.com/eslym/phantoman/pkg/supervisor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// testCommandWaitDelay bounds how long an interrupted test command may take to exit.
const testCommandWaitDelay = 10 * time.Second

// exitError carries the exit code of the wrapped test command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("test command exited with code %d", e.code)
}

func main() {
	cmd := cli.NewCommand(run)
	if err := cmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		log.Errorf("phantoman", "%s", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file. A missing file is only an error when
// the path was given explicitly.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if errors.Is(err, config.ErrConfigNotFound) && configPath == "" {
		return config.New(), nil
	}
	return cfg, err
}

func run(cmd *cobra.Command, opts *cli.Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	opts.Apply(cfg)
	log.SetSilent(cfg.Silent())

	cfg, err = config.NewConfigurator().Configure(cfg)
	if err != nil {
		return err
	}
	log.SetDebug(cfg.Debug())

	if cfg.Debug() {
		if cfgYaml, err := yaml.Marshal(cfg); err == nil {
			log.Printf("phantoman", "Configuration:\n%s", cfgYaml)
		} else {
			log.Warnf("phantoman", "Error marshaling config to YAML: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, command.NewBuilder(nil), supervisor.New())
	if err := startServer(r, opts.RunnerSuites()); err != nil {
		_ = r.Close()
		return err
	}

	code := 0
	if len(opts.Command) == 0 {
		log.Printf("phantoman", "Press Ctrl+C to stop the server.")
		<-ctx.Done()
		log.Progress("\n")
	} else {
		code, err = runTestCommand(ctx, opts.Command)
	}

	// shutdown failure is already reported as a warning
	if closeErr := r.Close(); closeErr != nil && !errors.Is(closeErr, supervisor.ErrShutdownFailure) {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func startServer(r *runner.Runner, suites []runner.Suite) error {
	if len(suites) == 0 {
		return r.Start()
	}
	for _, suite := range suites {
		if err := r.SuiteInit(suite); err != nil {
			return err
		}
	}
	return nil
}

// runTestCommand runs args with the parent's stdio and returns its exit code.
func runTestCommand(ctx context.Context, args []string) (int, error) {
	log.Debugf("phantoman", "Running test command: %v", args)
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Cancel = func() error {
		return c.Process.Signal(os.Interrupt)
	}
	c.WaitDelay = testCommandWaitDelay

	err := c.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("error running test command: %w", err)
	}
	return 0, nil
}
