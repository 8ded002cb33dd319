package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/ceed/internal/backend"
	"github.com/born-ml/ceed/internal/ceed"
	"github.com/born-ml/ceed/internal/config"
)

// Version is the CLI version.
const Version = "v0.1.0-dev"

// App runs one command against a populated registry.
type App struct {
	out      io.Writer
	cfg      *config.Config
	logger   *slog.Logger
	registry *ceed.Registry
}

// NewApp builds the logger and registry described by cfg. Logs go to logW.
func NewApp(out, logW io.Writer, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	r := ceed.NewRegistry(ceed.WithLogger(logger))
	if err := backend.RegisterAll(r); err != nil {
		return nil, err
	}
	return &App{out: out, cfg: cfg, logger: logger, registry: r}, nil
}

// Run parses args, loads the configuration and executes the command.
func Run(args []string, out, logW io.Writer) error {
	opts, shouldExit, err := Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}

	app, err := NewApp(out, logW, cfg)
	if err != nil {
		return err
	}
	app.logger.Debug("Configuration loaded.", "path", opts.ConfigPath, "resource", cfg.Resource, "aliases", len(cfg.Aliases))
	return app.Execute(opts.Command, opts.Args)
}

// Execute runs command with its arguments.
func (a *App) Execute(command string, args []string) error {
	switch command {
	case "version":
		fmt.Fprintf(a.out, "ceed %s (scalar %s)\n", Version, ceed.GetScalarType())
		return nil
	case "backends":
		return a.backends()
	case "resolve":
		return a.resolve(a.resource(args))
	case "info":
		return a.info(a.resource(args))
	case "run":
		n := 4
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v < 1 {
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid element count %q", args[1])}
			}
			n = v
		}
		return a.run(a.resource(args), n)
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}
}

// resource returns the first argument, or the configured resource, with
// aliases expanded.
func (a *App) resource(args []string) string {
	if len(args) > 0 {
		return a.cfg.Expand(args[0])
	}
	return a.cfg.Expand(a.cfg.Resource)
}

func (a *App) backends() error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tROOT\tPRIORITY")
	for _, e := range a.registry.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Prefix, a.registry.Root(e.Prefix), e.Priority)
	}
	return w.Flush()
}

func (a *App) resolve(resource string) error {
	e, err := a.registry.Resolve(resource)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, e.Prefix)
	return nil
}

func (a *App) info(resource string) (err error) {
	c, err := a.registry.Init(resource)
	if err != nil {
		return err
	}
	defer func() {
		if derr := c.Destroy(); err == nil {
			err = derr
		}
	}()

	chain := []string{}
	for d := c; d != nil; d = d.Delegate() {
		chain = append(chain, d.Backend())
	}
	fmt.Fprintf(a.out, "id:            %s\n", c.ID())
	fmt.Fprintf(a.out, "resource:      %s\n", c.Resource())
	fmt.Fprintf(a.out, "backend:       %s\n", c.Backend())
	fmt.Fprintf(a.out, "deterministic: %t\n", c.IsDeterministic())
	fmt.Fprintf(a.out, "delegates:     %s\n", strings.Join(chain, " -> "))
	return nil
}
