package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/aretw0/facet"
	"github.com/aretw0/facet/internal/presentation/repl"
	"github.com/aretw0/facet/internal/presentation/tui"
)

// ReplOptions configures the 'repl' command.
type ReplOptions struct {
	Classes  []string // Manifest files
	Script   string   // Lua file run before the prompt opens
	LogLevel string
}

// Repl opens the interactive prompt on a fresh runtime.
func Repl(opts ReplOptions) error {
	if !tui.IsTerminal(os.Stdin) || !tui.IsTerminal(os.Stdout) {
		return errors.New("repl needs an interactive terminal; use 'facet run' instead")
	}

	eval, err := newReplEvaluator(opts)
	if err != nil {
		return err
	}
	defer eval.rt.Close()

	return repl.Run(eval, strings.TrimSpace(facet.Version))
}

// replEvaluator runs prompt input on a runtime whose print output is
// captured, so it shows up as part of the result instead of tearing
// through the screen.
type replEvaluator struct {
	rt  *facet.Runtime
	out *bytes.Buffer
}

func newReplEvaluator(opts ReplOptions) (*replEvaluator, error) {
	logger, err := createLogger(opts.LogLevel, false)
	if err != nil {
		return nil, err
	}

	out := new(bytes.Buffer)
	rt, err := createRuntime(resolveManifests(opts.Classes, opts.Script, logger), logger, nil, facet.WithOutput(out))
	if err != nil {
		return nil, err
	}
	if opts.Script != "" {
		if err := rt.RunFile(opts.Script); err != nil {
			rt.Close()
			return nil, err
		}
		out.Reset()
	}
	return &replEvaluator{rt: rt, out: out}, nil
}

func (e *replEvaluator) Eval(ctx context.Context, src string) ([]string, error) {
	defer e.out.Reset()
	results, err := e.rt.Eval(ctx, src)
	if printed := strings.TrimSuffix(e.out.String(), "\n"); printed != "" {
		results = append([]string{printed}, results...)
	}
	return results, err
}

func (e *replEvaluator) GlobalNames() []string {
	return e.rt.Host().GlobalNames()
}
