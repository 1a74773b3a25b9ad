// Package cli implements the taskmcp command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taskmcp/internal/backend/googletasks"
	"taskmcp/internal/config"
	"taskmcp/internal/logging"
	"taskmcp/internal/store"
	"taskmcp/internal/tools"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

// ExporterFactory creates the exporter behind the export-google-tasks tool.
// Used to inject the backend in tests.
type ExporterFactory func(ctx context.Context, cfg *config.Config) (tools.Exporter, error)

// App holds the streams and global flags shared by all commands.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	exporterFactory ExporterFactory

	configDir string
	debug     bool
	jsonLogs  bool
	quiet     bool

	cfg *config.Config
	log *logrus.Logger
}

// Option configures an App.
type Option func(*App)

// WithExporterFactory replaces the Google Tasks exporter factory.
func WithExporterFactory(f ExporterFactory) Option {
	return func(a *App) {
		a.exporterFactory = f
	}
}

// New creates an App reading from in and writing to out and errOut.
func New(in io.Reader, out, errOut io.Writer, opts ...Option) *App {
	a := &App{
		in:     in,
		out:    out,
		errOut: errOut,
		exporterFactory: func(ctx context.Context, cfg *config.Config) (tools.Exporter, error) {
			return googletasks.New(ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the command line in args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(a.errOut, "error: %s\n", err)
	}
	return codeFor(err)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Task list tools for language-model agents over MCP",
		Long:          `taskmcp keeps an in-memory task list and exposes it as tools over the Model Context Protocol, a REST API and an OpenAI function-calling shim.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config", "", "Config directory (default $XDG_CONFIG_HOME/taskmcp)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "Output logs in JSON format")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress non-error output")

	root.AddCommand(
		a.serveCommand(),
		a.toolsCommand(),
		a.shellCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *App) setup() error {
	cfg, err := config.New(a.configDir)
	if err != nil {
		return configError(err)
	}
	cfg.Debug = a.debug
	cfg.Quiet = a.quiet
	a.cfg = cfg

	a.log = logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		JSON:   a.jsonLogs || cfg.Log.Format == "json",
		Debug:  cfg.Debug,
		Quiet:  cfg.Quiet,
		Output: a.errOut,
	})
	a.log.WithField("dir", cfg.Dir).Debug("config loaded")
	return nil
}

// newDispatcher builds the registry and a fresh store for one run.
// The export tool is registered only when Google export is enabled.
func (a *App) newDispatcher(ctx context.Context) (*tools.Dispatcher, *store.Store, error) {
	var extra []tools.Tool
	if a.cfg.Google.Export {
		exporter, err := a.exporterFactory(ctx, a.cfg)
		if err != nil {
			return nil, nil, authError(err)
		}
		extra = append(extra, tools.NewExportGoogleTasks(exporter, a.cfg.Google.List))
	}

	registry, err := tools.NewDefaultRegistry(extra...)
	if err != nil {
		return nil, nil, err
	}

	st := store.New()
	return tools.NewDispatcher(registry, st, tools.WithLogger(a.log)), st, nil
}

func (a *App) println(args ...any) {
	if !a.cfg.Quiet {
		fmt.Fprintln(a.out, args...)
	}
}
