package starlark

import (
	"context"
	"fmt"
	"log/slog"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-polybridge/host"
	"github.com/robbyt/go-polybridge/internal/helpers"
)

// Evaluator runs Starlark scripts against a bridge host: every registered
// class and constant is predeclared as a global, and foreign objects flow in
// and out of the script through the bridge's conversion protocol.
type Evaluator struct {
	hostReg *host.Host

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator over the given host.
func New(handler slog.Handler, h *host.Host) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "starlark", "Evaluator")

	return &Evaluator{
		hostReg:    h,
		logHandler: handler,
		logger:     logger,
	}
}

func (e *Evaluator) String() string {
	return "starlark.Evaluator"
}

// Globals builds the predeclared environment: one callable class value per
// registered class plus the host's registered constants.
func (e *Evaluator) Globals(reg *host.Host) (starlarkLib.StringDict, error) {
	globals := make(starlarkLib.StringDict)
	for _, name := range reg.ClassNames() {
		c, err := reg.ClassNamed(name)
		if err != nil {
			return nil, err
		}
		globals[name] = &classValue{class: c, reg: reg}
	}
	for name, t := range reg.Constants() {
		v, err := termToStarlark(t, reg)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w", name, err)
		}
		globals[name] = v
	}
	return globals, nil
}

// Eval executes a script and returns its exported globals. Each call runs
// against a per-evaluation copy of the host, so instances cached while the
// script runs never leak into the next evaluation. Cancelling the context
// cancels the Starlark thread.
func (e *Evaluator) Eval(ctx context.Context, name, src string) (starlarkLib.StringDict, error) {
	reg := e.hostReg.Copy()

	globals, err := e.Globals(reg)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to build globals", "error", err)
		return nil, err
	}

	thread := &starlarkLib.Thread{Name: name}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(context.Cause(ctx).Error())
		case <-done:
		}
	}()

	e.logger.DebugContext(ctx, "executing script", "script", name, "globals", len(globals))
	out, err := starlarkLib.ExecFile(thread, name, src, globals)
	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}
	return out, nil
}
