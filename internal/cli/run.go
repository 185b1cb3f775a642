package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/facet/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Script   string   // Lua file to run
	Eval     string   // Inline Lua source, run after Script
	Classes  []string // Manifest files
	Context  string   // Raw JSON object; each key becomes a global
	LogLevel string
	Debug    bool
	Metrics  bool // Dump metrics in text exposition format after each run
	Quiet    bool
	Watch    bool // Rerun whenever the script or a manifest changes
}

// Execute handles the 'run' command logic.
func Execute(opts RunOptions, stdout io.Writer) error {
	if opts.Script == "" && opts.Eval == "" {
		return fmt.Errorf("nothing to run: pass a script or --eval")
	}

	logger, err := createLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	classes := resolveManifests(opts.Classes, opts.Script, logger)

	var globals map[string]any
	if opts.Context != "" {
		if err := json.Unmarshal([]byte(opts.Context), &globals); err != nil {
			return fmt.Errorf("error parsing --context JSON: %w", err)
		}
	}

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	status := newStatus(opts.Quiet)
	p := pass{opts: opts, classes: classes, globals: globals, logger: logger, stdout: stdout}
	if opts.Watch {
		return p.watch(ctx, status)
	}
	return handleExecutionError(status, ctx.Signal(), p.run(ctx))
}

// pass is one resolved invocation of the run command.
type pass struct {
	opts    RunOptions
	classes []string
	globals map[string]any
	logger  *slog.Logger
	stdout  io.Writer
}

// run executes the script and eval source in a fresh runtime.
func (p pass) run(ctx context.Context) error {
	var promReg *prometheus.Registry
	if p.opts.Metrics {
		promReg = prometheus.NewRegistry()
	}

	rt, err := createRuntime(p.classes, p.logger, registerer(promReg))
	if err != nil {
		return err
	}
	defer rt.Close()

	for name, v := range p.globals {
		if err := rt.SetGlobal(name, v); err != nil {
			return err
		}
	}

	if p.opts.Script != "" {
		if err := rt.RunFileContext(ctx, p.opts.Script); err != nil {
			return err
		}
	}
	if p.opts.Eval != "" {
		if err := rt.RunContext(ctx, p.opts.Eval); err != nil {
			return err
		}
	}

	if promReg != nil {
		return writeMetrics(p.stdout, promReg)
	}
	return nil
}

// watch reruns the pass after every change to the script or a manifest
// until ctx is cancelled. Failed runs are reported and do not stop it.
func (p pass) watch(ctx *SignalContext, status *tui.Status) error {
	files := append([]string{}, p.classes...)
	if p.opts.Script != "" {
		files = append(files, p.opts.Script)
	}
	if len(files) == 0 {
		return fmt.Errorf("--watch needs a script or a manifest to watch")
	}

	fw, err := newFileWatcher(files, p.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	for {
		err := p.run(ctx)
		if ctx.Err() != nil {
			return handleExecutionError(status, ctx.Signal(), ctx.Err())
		}
		if err != nil {
			status.Error("%v", err)
			p.logger.Error("run failed", "error", err)
		} else {
			status.Success("Finished.")
		}

		status.Info("Watching %d file(s) for changes...", len(files))
		name, err := fw.Wait(ctx)
		if err != nil {
			return handleExecutionError(status, ctx.Signal(), err)
		}
		p.logger.Info("change detected, rerunning", "file", name)
	}
}

// registerer avoids handing a typed nil to the runtime.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

// writeMetrics dumps every gathered family in text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
