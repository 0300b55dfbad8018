// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/palladius/gcloud/pkg/ux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Builtin is a task implemented in-process.
type Builtin func(ctx context.Context) error

// Downloader fetches the body piped into a step's stdin.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// StepError reports the step that stopped an alias.
type StepError struct {
	Alias    string
	Index    int
	Step     Step
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("task %s failed at step %d (%s): %v", e.Alias, e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExitCode returns the exit code carried by err, 1 for other errors and 0
// for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.ExitCode > 0 {
		return stepErr.ExitCode
	}
	return 1
}

type Runner struct {
	Aliases    Aliases
	Builtins   map[string]Builtin
	Downloader Downloader
	// Dir is where Run steps execute; the process directory when empty.
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

// NewRunner returns a runner over aliases with the help and test builtins
// registered.
func NewRunner(aliases Aliases, downloader Downloader, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		Aliases:    aliases,
		Builtins:   map[string]Builtin{},
		Downloader: downloader,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Log:        log,
	}
	r.Register(BuiltinHelp, func(context.Context) error {
		return r.Usage(r.Stdout)
	})
	r.Register(BuiltinTest, func(ctx context.Context) error {
		return r.shell(ctx, "go test ./...", nil)
	})
	return r
}

// Register adds or replaces a builtin.
func (r *Runner) Register(name string, fn Builtin) {
	r.Builtins[name] = fn
}

// Usage writes every alias with its description.
func (r *Runner) Usage(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Usage: gcloud task run <task>\n\nTasks:"); err != nil {
		return err
	}
	var rows [][]string
	for _, name := range r.Aliases.Names() {
		rows = append(rows, []string{name, r.Aliases[name].Description})
	}
	return ux.RenderTable(w, []string{"task", "description"}, rows, true)
}

// Run executes the named alias. The first failing step stops the chain.
func (r *Runner) Run(ctx context.Context, name string) error {
	if _, ok := r.Aliases[name]; !ok {
		return errors.Wrapf(ErrUnknownTask, "%s (known: %v)", name, r.Aliases.Names())
	}
	if err := r.Aliases.Validate(); err != nil {
		return err
	}
	return r.run(ctx, name)
}

func (r *Runner) run(ctx context.Context, name string) error {
	alias := r.Aliases[name]
	r.Log.Debug("running task", zap.String("task", name), zap.Int("steps", len(alias.Steps)))
	for i, step := range alias.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, step); err != nil {
			var nested *StepError
			if step.Alias != "" && errors.As(err, &nested) {
				return err
			}
			stepErr := &StepError{Alias: name, Index: i, Step: step, Err: err}
			var status interp.ExitStatus
			if errors.As(err, &status) {
				stepErr.ExitCode = int(status)
			}
			r.Log.Debug("task failed", zap.String("task", name), zap.Int("step", i+1), zap.Error(err))
			return stepErr
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context, step Step) error {
	switch {
	case step.Echo != "":
		_, err := fmt.Fprintln(r.Stdout, step.Echo)
		return err
	case step.Alias != "":
		return r.run(ctx, step.Alias)
	case step.Task != "":
		fn, ok := r.Builtins[step.Task]
		if !ok {
			return errors.Wrap(ErrUnknownBuiltin, step.Task)
		}
		return fn(ctx)
	default:
		var stdin io.Reader
		if step.Stdin != "" {
			if r.Downloader == nil {
				return errors.Errorf("no downloader configured for %s", step.Stdin)
			}
			body, err := r.Downloader.Download(ctx, step.Stdin)
			if err != nil {
				return err
			}
			stdin = bytes.NewReader(body)
		}
		return r.shell(ctx, step.Run, stdin)
	}
}

func (r *Runner) shell(ctx context.Context, command string, stdin io.Reader) error {
	fmt.Fprintln(r.Stdout, command)
	script, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return errors.Wrap(err, "invalid command")
	}
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
		interp.StdIO(stdin, r.Stdout, r.Stderr),
		interp.Params("-e"),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return errors.Wrap(err, "failed to initialize shell")
	}
	return runner.Run(ctx, script)
}
