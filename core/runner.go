package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/clydemeng/semtest/core/vm"
	"github.com/clydemeng/semtest/fixture"
	"github.com/clydemeng/semtest/internal/formatting"
	"github.com/clydemeng/semtest/semerr"
	"github.com/ethereum/go-ethereum/log"
)

// errNotRun is returned by the printers before results are available.
var errNotRun = errors.New("fixture has not been run")

// Runner executes the calls of one fixture against an executor and
// reports the outcome. A Runner owns its results and must not be shared
// between goroutines.
type Runner struct {
	fixture  *fixture.Fixture
	exec     vm.Executor
	compiler vm.Compiler
	log      log.Logger

	results    [][]byte
	mismatches []error
}

// Option configures a Runner.
type Option func(*Runner)

// WithCompiler sets the front end that turns the fixture source into
// creation code.
func WithCompiler(c vm.Compiler) Option {
	return func(r *Runner) { r.compiler = c }
}

// WithLogger replaces the per-fixture logger.
func WithLogger(l log.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner creates a runner for f. The source is compiled as hex
// creation code unless another compiler is configured.
func NewRunner(f *fixture.Fixture, exec vm.Executor, opts ...Option) *Runner {
	r := &Runner{
		fixture:  f,
		exec:     exec,
		compiler: vm.BytecodeCompiler{},
		log:      log.New("fixture", f.Path),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run deploys the fixture source and executes every call in order. It
// reports whether all results matched. Mismatches never stop the run,
// executor failures do.
func (r *Runner) Run(ctx context.Context) (bool, error) {
	r.results = make([][]byte, 0, len(r.fixture.Calls))
	r.mismatches = nil

	code, err := r.compiler.Compile(r.fixture.Source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", r.fixture.Path, err)
	}
	addr, err := r.exec.Deploy(ctx, code)
	if err != nil {
		return false, semerr.Wrap(semerr.ExecutionFailed, -1, "cannot deploy "+r.fixture.Path, err)
	}
	r.log.Debug("Deployed fixture contract", "engine", r.exec.Engine(), "address", addr, "size", len(code))

	success := true
	for i := range r.fixture.Calls {
		call := &r.fixture.Calls[i]
		res, err := r.exec.Call(ctx, vm.CallMetadata{
			Signature: call.Signature,
			Value:     call.Value,
			Arguments: call.ArgumentBytes,
		})
		if err != nil {
			return false, fmt.Errorf("call %d (%s): %w", i, call.Signature, err)
		}
		r.results = append(r.results, res.Output)
		r.log.Debug("Executed call", "line", call.Line, "signature", call.Signature, "outcome", res.Outcome, "gas", res.GasUsed)

		if !bytes.Equal(res.Output, call.ExpectedBytes) {
			success = false
			r.mismatches = append(r.mismatches, &semerr.Error{
				Class:   semerr.ResultMismatch,
				Line:    call.Line,
				Offset:  -1,
				Message: fmt.Sprintf("%s: expected %s, obtained 0x%x", call.Signature, call.ExpectationLine(), res.Output),
			})
			logCtx := []any{"line", call.Line, "signature", call.Signature, "outcome", res.Outcome}
			if res.Outcome.Failed() {
				logCtx = append(logCtx, "reason", res.Reason)
			}
			r.log.Warn("Result mismatch", logCtx...)
		}
	}
	if len(r.fixture.Calls) == 0 {
		r.log.Warn("Fixture has no calls")
	}
	r.log.Info("Fixture executed", "calls", len(r.fixture.Calls), "mismatches", len(r.mismatches))
	return success, nil
}

// Results returns the raw return data of the last run, one entry per call.
func (r *Runner) Results() [][]byte { return r.results }

// Mismatches returns a ResultMismatch error for every call of the last run
// whose result differed from the expectation.
func (r *Runner) Mismatches() []error { return r.mismatches }

// Report writes the expected and the obtained calls one after the other.
// When formatted is set, headers are highlighted and result lines that
// differ from the expectation get a red background.
func (r *Runner) Report(w io.Writer, prefix string, formatted bool) error {
	var b strings.Builder
	next := prefix + "  "
	b.WriteString(formatting.Header.Wrap(formatted, prefix+"Expected result:") + "\n")
	if err := r.printCalls(&b, false, next, formatted); err != nil {
		return err
	}
	b.WriteString(formatting.Header.Wrap(formatted, prefix+"Obtained result:") + "\n")
	if err := r.printCalls(&b, true, next, formatted); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintCalls writes every call followed by either its expected result as
// written or its obtained result rendered in the expected notation.
func (r *Runner) PrintCalls(w io.Writer, actual bool, prefix string, formatted bool) error {
	var b strings.Builder
	if err := r.printCalls(&b, actual, prefix, formatted); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Runner) printCalls(b *strings.Builder, actual bool, prefix string, formatted bool) error {
	if len(r.results) != len(r.fixture.Calls) {
		return errNotRun
	}
	for i := range r.fixture.Calls {
		call := &r.fixture.Calls[i]
		b.WriteString(prefix + call.Header() + "\n")

		result := call.ExpectedResult
		if actual {
			rendered, err := call.RenderResult(r.results[i])
			if err != nil {
				return fmt.Errorf("call %d (%s): %w", i, call.Signature, err)
			}
			result = rendered
		}
		line := fixture.ResultLine(result)
		if !bytes.Equal(r.results[i], call.ExpectedBytes) {
			line = formatting.Mismatch.Wrap(formatted, line)
		}
		b.WriteString(prefix + line + "\n")
	}
	return nil
}

// PrintContract writes the fixture source, every line prefixed.
func (r *Runner) PrintContract(w io.Writer, prefix string) error {
	var b strings.Builder
	for _, line := range strings.SplitAfter(r.fixture.Source, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintUpdatedExpectations writes the calls with their obtained results,
// ready to replace the call section of the fixture.
func (r *Runner) PrintUpdatedExpectations(w io.Writer, prefix string) error {
	return r.PrintCalls(w, true, prefix, false)
}

// WriteUpdated writes the whole fixture with its expectations replaced by
// the obtained results.
func (r *Runner) WriteUpdated(w io.Writer) error {
	if len(r.results) != len(r.fixture.Calls) {
		return errNotRun
	}
	return r.fixture.WriteUpdated(w, r.results)
}
