package cli

import (
	"io"
	"path/filepath"

	"github.com/eslym/phantoman/pkg/config"
	"github.com/eslym/phantoman/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options represents the command-line options
type Options struct {
	ConfigPath string
	Suites     []string
	Path       string
	Port       int
	LogDir     string
	Debug      bool
	Silent     bool
	// Command is the test command given after "--", if any.
	Command []string

	flags *pflag.FlagSet
}

// NewCommand returns the root command. run receives the parsed options.
func NewCommand(run func(cmd *cobra.Command, opts *Options) error) *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "phantoman [flags] [-- test-command args...]",
		Short: "Run a PhantomJS WebDriver server around a test command",
		Long: `Phantoman starts a PhantomJS server in WebDriver mode, waits until it accepts
connections, runs the given test command and stops the server afterwards.
Without a test command the server runs until SIGINT or SIGTERM.`,
		Example: `  # Start the server and run the acceptance suite
  phantoman -s acceptance -- vendor/bin/codecept run acceptance

  # Use another config file and port
  phantoman -c ci/phantoman.yml --port 8910 -- make e2e`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flags = cmd.Flags()
			opts.Command = args
			return run(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (JSON or YAML)")
	fs.StringArrayVarP(&opts.Suites, "suite", "s", nil, "Suite being run, checked against the suites allow-list (repeatable)")
	fs.StringVar(&opts.Path, "path", "", "Path to the PhantomJS executable")
	fs.IntVar(&opts.Port, "port", config.DefaultPort, "WebDriver port")
	fs.StringVar(&opts.LogDir, "log-dir", "", "Directory for phantomjs.output.txt and phantomjs.errors.txt")
	fs.BoolVar(&opts.Debug, "debug", false, "Print the generated command and resource usage")
	fs.BoolVar(&opts.Silent, "silent", false, "Suppress all output except errors")
	fs.SetInterspersed(false)
	return cmd
}

// ParseArgs parses args without running anything.
func ParseArgs(args []string) (*Options, error) {
	var parsed *Options
	cmd := NewCommand(func(_ *cobra.Command, opts *Options) error {
		parsed = opts
		return nil
	})
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (o *Options) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// Apply writes every flag given on the command line into cfg. Flags left at
// their default do not override the config file.
func (o *Options) Apply(cfg *config.Config) {
	if o.changed("path") {
		cfg.Set(config.KeyPath, o.Path)
	}
	if o.changed("port") {
		cfg.Set(config.KeyPort, o.Port)
	}
	if o.changed("log-dir") {
		cfg.Set(config.KeyLogDir, o.LogDir)
	}
	if o.changed("debug") {
		cfg.Set(config.KeyDebug, o.Debug)
	}
	if o.changed("silent") {
		cfg.Set(config.KeySilent, o.Silent)
	}
}

// RunnerSuites returns the named suites with their base names.
func (o *Options) RunnerSuites() []runner.Suite {
	suites := make([]runner.Suite, 0, len(o.Suites))
	for _, s := range o.Suites {
		suites = append(suites, runner.Suite{Name: s, BaseName: filepath.Base(filepath.Clean(s))})
	}
	return suites
}
