// Package app implements the application layer for shaderforge.
package app

import (
	"context"
	"os"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/adapters/blob"
	"go.trai.ch/shaderforge/internal/adapters/config"
	"go.trai.ch/shaderforge/internal/adapters/dxc"
	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
	"go.trai.ch/shaderforge/internal/engine/deps"
	"go.trai.ch/shaderforge/internal/engine/planner"
	"go.trai.ch/shaderforge/internal/engine/scheduler"
	"go.trai.ch/shaderforge/internal/ui/progress"
)

// App represents the main application logic.
type App struct {
	loader    *config.Loader
	scheduler *scheduler.Scheduler
	logger    ports.Logger

	// newReporter is swappable for tests; the default writes to stdout.
	newReporter func(opts *domain.Options) ports.Reporter
}

// New creates a new App instance.
func New(loader *config.Loader, sched *scheduler.Scheduler, logger ports.Logger) *App {
	return &App{
		loader:    loader,
		scheduler: sched,
		logger:    logger,
		newReporter: func(opts *domain.Options) ports.Reporter {
			return progress.New(os.Stdout, opts.Platform.String(), opts.Colorize)
		},
	}
}

// SetReporterFactory overrides the progress reporter. Used for testing.
func (a *App) SetReporterFactory(f func(opts *domain.Options) ports.Reporter) {
	a.newReporter = f
}

// Run executes one build: load and expand the configuration, plan the tasks,
// compile, then assemble containers. It returns domain.ErrBuildFailed when
// any task failed permanently or the run was interrupted.
func (a *App) Run(ctx context.Context, opts *domain.Options) error {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return err
	}

	directives, err := a.loadDirectives(opts)
	if err != nil {
		return err
	}

	oracle := deps.NewOracle(opts.IncludeDirs, opts.RelaxedIncludes)
	plan, err := planner.New(oracle, a.logger).Plan(opts, directives)
	if err != nil {
		return err
	}

	reporter := a.newReporter(opts)

	if len(plan.Tasks) == 0 {
		reporter.Infof("All %s shaders are up to date.", opts.Platform)
		return nil
	}

	compiler := dxc.New(opts, a.logger)
	store := blob.NewArtifactStore(opts, a.logger)

	stats := a.scheduler.Run(ctx, plan.Tasks, compiler, store, reporter, opts)
	elapsed := time.Since(start).Seconds()

	if stats.Failed == 0 && !stats.Terminated {
		if err := blob.NewAssembler(opts, a.logger).Assemble(plan.Blobs); err != nil {
			return err
		}
		reporter.Infof("%d task(s) completed successfully in %.2f seconds.", stats.Completed, elapsed)
		return nil
	}

	if stats.Failed > 0 {
		reporter.Infof("WARNING: %d task(s) failed after %.2f seconds!", stats.Failed, elapsed)
	} else {
		reporter.Infof("Build interrupted after %.2f seconds.", elapsed)
	}
	return domain.ErrBuildFailed
}

// loadDirectives reads the config file and expands every surviving line into
// its permutations.
func (a *App) loadDirectives(opts *domain.Options) ([]domain.Directive, error) {
	lines, err := a.loader.Load(opts.ConfigFile, opts.Defines)
	if err != nil {
		return nil, err
	}

	var directives []domain.Directive
	for _, line := range lines {
		expanded, err := config.Expand(line)
		if err != nil {
			return nil, err
		}
		for _, text := range expanded {
			directive, err := config.ParseDirective(text, line.Number)
			if err != nil {
				return nil, zerr.With(err, "config", opts.ConfigFile)
			}
			directives = append(directives, directive)
		}
	}

	return directives, nil
}
