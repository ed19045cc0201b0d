// Command stormplan plans the decumulation of a scarce appreciating asset
// split between a navigation fund and a forever fund.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stormplan/stormplan/internal/calculation"
	"github.com/stormplan/stormplan/internal/config"
	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/output"
	"github.com/stormplan/stormplan/internal/trend"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli carries the persistent flags and the writers shared by every subcommand.
type cli struct {
	configPath string
	format     string
	logLevel   string
	logJSON    bool
	saveDir    string

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "stormplan",
		Short: "Plan retirement on a scarce appreciating asset",
		Long: `stormplan splits a holding into a navigation fund, drawn down or borrowed
against through the early volatile years, and a forever fund left to
appreciate until it can pay the annual burn on its own.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(c.stderr, c.logLevel, c.logJSON)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "stormplan.yaml", "plan configuration file (YAML, JSON or TOML)")
	flags.StringVarP(&c.format, "format", "f", "console", "output format: console, csv, json")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&c.logJSON, "log-json", false, "emit logs as JSON")
	flags.StringVar(&c.saveDir, "save-dir", "", "also write the report to a timestamped file in this directory")

	root.AddCommand(
		c.simulateCmd(),
		c.optimizeCmd(),
		c.monteCarloCmd(),
		c.lifetimeCmd(),
		c.accumulateCmd(),
		c.exampleConfigCmd(),
	)
	return root
}

func newLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "", "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// plan is a loaded configuration ready to run.
type plan struct {
	cfg    *domain.Configuration
	params domain.SimulationParameters
	engine *calculation.Engine
}

func (c *cli) load() (*plan, error) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(c.configPath)
	if err != nil {
		return nil, err
	}
	registry := trend.DefaultRegistry()
	params, err := config.BuildParameters(cfg, registry)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine(registry)
	engine.SetLogger(calculation.NewSlogLogger(c.logger))
	engine.SetSearchConfig(config.SearchConfig(cfg))

	c.logger.Info("plan loaded",
		slog.String("config", c.configPath),
		slog.String("model", params.Model),
		slog.String("scenario", string(params.Scenario)),
		slog.Float64("stake", params.TotalStake),
	)
	return &plan{cfg: cfg, params: params, engine: engine}, nil
}

func (c *cli) emit(r *output.Report) error {
	if err := output.Render(c.stdout, c.format, r); err != nil {
		return err
	}
	if c.saveDir == "" {
		return nil
	}
	path, err := output.WriteFormatted(output.GetFormatterByName(c.format), r, c.saveDir)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	c.logger.Info("report saved", slog.String("path", path), slog.String("run_id", r.RunID))
	return nil
}
