package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stormplan/stormplan/internal/config"
	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/output"
)

func (c *cli) simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Project the storm period, navigation fund and forever fund",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.load()
			if err != nil {
				return err
			}
			proj, err := p.engine.Project(p.params)
			if err != nil {
				return err
			}
			r := output.NewReport(output.KindSimulation, p.cfg.Name, &p.params)
			r.Projection = proj
			return c.emit(r)
		},
	}
}

func (c *cli) optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Find the split that survives with the shortest storm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.load()
			if err != nil {
				return err
			}
			res, err := p.engine.OptimizePlan(p.params)
			if err != nil {
				return err
			}
			params := p.params.WithSplit(res.Split)
			r := output.NewReport(output.KindOptimization, p.cfg.Name, &params)
			r.Optimization = res
			return c.emit(r)
		},
	}
}

func (c *cli) monteCarloCmd() *cobra.Command {
	var paths int
	var seed int64
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Estimate navigation fund survival over randomized price paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.load()
			if err != nil {
				return err
			}
			mc := config.MonteCarloConfig(p.cfg)
			if paths > 0 {
				mc.Paths = paths
			}
			if cmd.Flags().Changed("seed") {
				mc.Seed = seed
			}
			res, err := p.engine.MonteCarloSurvival(cmd.Context(), p.params, mc, nil)
			if err != nil {
				return err
			}
			r := output.NewReport(output.KindMonteCarlo, p.cfg.Name, &p.params)
			r.MonteCarlo = res
			return c.emit(r)
		},
	}
	cmd.Flags().IntVar(&paths, "paths", 0, "number of paths (overrides the config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (overrides the config; 0 picks a fresh seed)")
	return cmd
}

func (c *cli) lifetimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lifetime",
		Short: "Show the asset needed for each year of retirement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.load()
			if err != nil {
				return err
			}
			lp, ok := config.LifetimeParams(p.cfg, p.params)
			if !ok {
				return fmt.Errorf("%s has no lifetime section", c.configPath)
			}
			res, err := p.engine.CalculateLifetimeNeed(lp)
			if errors.Is(err, domain.ErrInfeasible) {
				c.logger.Warn("lifetime need is infeasible; nothing to render", "error", err)
				return nil
			}
			if err != nil {
				return err
			}
			r := output.NewReport(output.KindLifetime, p.cfg.Name, &p.params)
			r.Lifetime = res
			return c.emit(r)
		},
	}
}

func (c *cli) accumulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accumulate",
		Short: "Accumulate through monthly purchases, then project retirement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.load()
			if err != nil {
				return err
			}
			accPlan, ok := config.AccumulationPlan(p.cfg)
			if !ok {
				return fmt.Errorf("%s has no accumulation section", c.configPath)
			}
			res, err := p.engine.RunWithAccumulation(accPlan, p.params)
			if err != nil {
				return err
			}
			params := res.Projection.Parameters
			r := output.NewReport(output.KindAccumulation, p.cfg.Name, &params)
			r.Accumulation = res
			return c.emit(r)
		},
	}
}

func (c *cli) exampleConfigCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "example-config",
		Short: "Print an example plan configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewInputParser().CreateExampleConfiguration()
			data, err := config.Encode(cfg, format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = c.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write example config: %w", err)
			}
			c.logger.Info("example configuration written", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "as", "yaml", "encoding: yaml or toml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
