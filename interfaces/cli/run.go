package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/planner"
	"github.com/felixgeelhaar/goap-go/infrastructure/config"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

// runOptions holds options for the run command.
type runOptions struct {
	scenarioPath string
	maxTicks     int
	interval     time.Duration
	verbose      bool
	trace        bool
	watch        bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario until its goals are satisfied",
		Long: `Run the scenario's director tick loop: plan for the most relevant
unsatisfied goal, execute the plan one step per tick, and repeat until
every goal is satisfied or the tick budget is exhausted.

Examples:
  # Run a scenario
  goap run -c scenario.yaml

  # Run with verbose logging and a tick budget
  goap run -c scenario.yaml -v --ticks 100

  # Reload the scenario whenever the file changes
  goap run -c scenario.yaml --watch --interval 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenario(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenarioPath, "config", "c", "", "Path to scenario file (required)")
	cmd.Flags().IntVar(&opts.maxTicks, "ticks", 1000, "Maximum number of ticks")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Delay between ticks")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print planning spans to stdout")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the scenario when the file changes")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// runScenario executes the scenario with the given options.
func (a *App) runScenario(ctx context.Context, opts *runOptions) error {
	if opts.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(a.stdout))
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		otel.SetTracerProvider(provider)
		defer func() { _ = provider.Shutdown(context.Background()) }()
	}

	logConfig := logging.DefaultConfig()
	logConfig.Output = a.stderr
	if opts.verbose {
		logConfig.Level = "debug"
	}
	logger := logging.New(logConfig)

	recorder, err := telemetry.NewRecorder(telemetry.DefaultRecorderConfig())
	if err != nil {
		return fmt.Errorf("failed to create telemetry recorder: %w", err)
	}

	director, err := a.buildDirector(opts.scenarioPath, logger, recorder)
	if err != nil {
		return err
	}

	reloads := make(chan *config.Scenario, 1)
	if opts.watch {
		watcher, err := config.NewWatcher(opts.scenarioPath, config.NewLoader())
		if err != nil {
			return err
		}
		defer watcher.Close()
		go watcher.Watch(ctx,
			func(s *config.Scenario) {
				select {
				case reloads <- s:
				default:
				}
			},
			func(err error) {
				logging.Apply(logger.Warn(), logging.Err(err)).Msg("scenario reload failed")
			},
		)
	}

	start := time.Now()
	ticks := 0
	for ticks < opts.maxTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case scenario := <-reloads:
			director, err = a.rebuildDirector(scenario, logger, recorder)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Scenario reloaded: %s\n", scenario.Name)
		default:
		}

		_, err := director.Update(ctx)
		ticks++
		if errors.Is(err, application.ErrNoPlanFound) {
			break
		}
		if err != nil {
			return err
		}

		if opts.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.interval):
			}
		}
	}

	fmt.Fprintf(a.stdout, "Run finished\n")
	fmt.Fprintf(a.stdout, "  Ticks: %d\n", ticks)
	fmt.Fprintf(a.stdout, "  Duration: %s\n", time.Since(start).Round(time.Millisecond))
	a.printWorld(director)
	return nil
}

// buildDirector loads the scenario file and assembles a director over it.
func (a *App) buildDirector(path string, logger *bolt.Logger, recorder *telemetry.Recorder) (*application.Director, error) {
	loader := config.NewLoader()
	scenario, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	return a.rebuildDirector(scenario, logger, recorder)
}

// rebuildDirector assembles a director from an already-parsed scenario.
func (a *App) rebuildDirector(scenario *config.Scenario, logger *bolt.Logger, recorder *telemetry.Recorder) (*application.Director, error) {
	ws, actions, goals, err := scenario.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	return application.NewDirector(application.DirectorConfig{
		World:     ws,
		Planner:   planner.New(ws, actions),
		Goals:     goals,
		Logger:    logger,
		Telemetry: recorder,
	})
}

// printWorld prints the final world state in key order.
func (a *App) printWorld(director *application.Director) {
	ws := director.World()
	keys := make([]string, 0, len(ws))
	for key := range ws {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintf(a.stdout, "  World:\n")
	for _, key := range keys {
		fmt.Fprintf(a.stdout, "    %s = %v\n", key, ws.Get(key))
	}
}
