package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"circle-planner/config"
	"circle-planner/geometry"
	"circle-planner/layout"
	"circle-planner/planner"
)

// app holds state shared by the subcommands once the root has loaded the
// configuration.
type app struct {
	verbose    bool
	configPath string
	cfg        config.Config
}

// Execute runs the circle-planner CLI.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "circle-planner",
		Short:         "Plan the shortest tangent path through a column of circles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.Debug("config loaded", "path", a.configPath)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "circle-planner.toml", "TOML config file")

	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newSolveCmd())
	root.AddCommand(a.newGenerateCmd())
	return root
}

func (a *app) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           newServer(a.cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("server stopping")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *app) newSolveCmd() *cobra.Command {
	var (
		layoutPath    string
		geojsonPath   string
		seed          int64
		sortInput     bool
		sequential    bool
		maxExpansions int
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a layout file, or a random layout when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			search := a.cfg.Search
			if cmd.Flags().Changed("sequential") {
				search.Sequential = sequential
			}
			if cmd.Flags().Changed("max-expansions") {
				search.MaxExpansions = maxExpansions
			}
			if cmd.Flags().Changed("timeout") {
				search.Timeout.Duration = timeout
			}
			if cmd.Flags().Changed("seed") {
				a.cfg.Generator.Seed = seed
			}

			circles, err := a.readCircles(layoutPath)
			if err != nil {
				return err
			}
			if sortInput {
				layout.SortByY(circles)
			}
			l, err := geometry.NewLayout(circles)
			if err != nil {
				return err
			}

			opts := []planner.Option{
				planner.WithLogger(logger),
				planner.WithMaxExpansions(search.MaxExpansions),
				planner.WithTimeout(search.Timeout.Duration),
			}
			if search.Sequential {
				opts = append(opts, planner.WithSequential())
			}

			prog := newProgress(logger)
			sol, err := planner.Plan(ctx, l, opts...)
			if err != nil {
				return err
			}
			prog.done("solved " + sol.ID)

			printSolution(out, sol)

			if geojsonPath != "" {
				if err := writeGeoJSON(geojsonPath, l, sol); err != nil {
					return err
				}
				printFile(out, geojsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "layout file (JSON or GeoJSON); random when empty")
	cmd.Flags().StringVar(&geojsonPath, "geojson", "", "write layout and path as GeoJSON to this file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random layout seed (overrides generator.seed)")
	cmd.Flags().BoolVar(&sortInput, "sort", false, "sort circles by y before solving")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "run the two root searches one after the other")
	cmd.Flags().IntVar(&maxExpansions, "max-expansions", 0, "cap on pops per root search (0 = no cap)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "bound on the whole plan")
	return cmd
}

func (a *app) readCircles(path string) ([]geometry.Circle, error) {
	if path != "" {
		return layout.Load(path)
	}
	return layout.Generate(a.cfg.Generator.Options, newRand(a.cfg.Generator.Seed))
}

func writeGeoJSON(path string, l *geometry.Layout, sol *planner.Solution) error {
	data, err := json.MarshalIndent(geometry.FeatureCollection(l, sol.Path), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		outPath string
		count   int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random layout file",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Generator.Options
			if cmd.Flags().Changed("count") {
				opts.Count = count
			}
			if cmd.Flags().Changed("seed") {
				a.cfg.Generator.Seed = seed
			}

			circles, err := layout.Generate(opts, newRand(a.cfg.Generator.Seed))
			if err != nil {
				return err
			}
			if err := layout.Save(outPath, circles); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "generated %d circles", len(circles))
			printFile(cmd.OutOrStdout(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "layout.json", "output file")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of circles (overrides generator.count)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (overrides generator.seed)")
	return cmd
}
