package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clydemeng/semtest/core"
	"github.com/clydemeng/semtest/core/vm"
	"github.com/clydemeng/semtest/fixture"
	"github.com/clydemeng/semtest/internal/formatting"
	"github.com/clydemeng/semtest/semerr"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// fixtureExt is the extension of fixture files found in directories.
const fixtureExt = ".semtest"

type fixtureResult struct {
	path    string
	calls   int
	passed  bool
	updated bool
	report  string
	err     error
}

func (r *fixtureResult) verdict() string {
	switch {
	case r.err != nil:
		return "ERROR"
	case r.passed:
		return "PASS"
	case r.updated:
		return "UPDATED"
	default:
		return "FAIL"
	}
}

// exitCode maps the result to the process exit status.
func (r *fixtureResult) exitCode() int {
	switch {
	case r.err != nil:
		if class, ok := semerr.ClassOf(r.err); ok {
			return class.ExitCode()
		}
		return semerr.ExecutionFailed.ExitCode()
	case r.passed || r.updated:
		return 0
	default:
		return semerr.ResultMismatch.ExitCode()
	}
}

// runFixtures is the default action: it runs every fixture named on the
// command line, prints the reports in argument order and a summary table.
func runFixtures(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.Exit("no fixtures given, see --help", 2)
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return cli.Exit(err, 2)
	}
	paths, err := discover(ctx.Args().Slice())
	if err != nil {
		return cli.Exit(err, semerr.FixtureUnreadable.ExitCode())
	}
	var (
		out       = ctx.App.Writer
		formatted = colorEnabled(cfg.Color, out)
		update    = ctx.Bool(updateFlag.Name)
		results   = make([]fixtureResult, len(paths))
	)
	log.Info("Running fixtures", "count", len(paths), "jobs", cfg.Jobs, "engine", cfg.Executor.Engine, "fork", cfg.Executor.Fork)

	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = runFixture(ctx.Context, path, cfg.Executor, update, formatted)
			return nil
		})
	}
	g.Wait()

	if code := printResults(out, results, formatted); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// runFixture loads, runs and optionally updates a single fixture. Every
// fixture gets its own executor and therefore its own EVM state.
func runFixture(ctx context.Context, path string, cfg vm.Config, update, formatted bool) fixtureResult {
	res := fixtureResult{path: path}
	f, err := fixture.Load(path)
	if err != nil {
		res.err = err
		return res
	}
	res.calls = len(f.Calls)

	exec, err := vm.NewExecutor(cfg)
	if err != nil {
		res.err = semerr.Wrap(semerr.ExecutionFailed, -1, "cannot create executor", err)
		return res
	}
	runner := core.NewRunner(f, exec)
	ok, err := runner.Run(ctx)
	if err != nil {
		res.err = err
		return res
	}
	if res.passed = ok; ok {
		return res
	}

	var report strings.Builder
	report.WriteString(formatting.Header.Wrap(formatted, "  Contract:") + "\n")
	if err := runner.PrintContract(&report, "    "); err != nil {
		res.err = err
		return res
	}
	if err := runner.Report(&report, "  ", formatted); err != nil {
		res.err = err
		return res
	}
	res.report = report.String()

	if update {
		if err := writeUpdated(runner, path); err != nil {
			res.err = err
			return res
		}
		res.updated = true
		log.Info("Updated fixture expectations", "fixture", path)
	}
	return res
}

// writeUpdated replaces the fixture file with the updated expectations.
func writeUpdated(runner *core.Runner, path string) error {
	var buf bytes.Buffer
	if err := runner.WriteUpdated(&buf); err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".semtest-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// discover expands directories into the fixture files they contain and
// drops duplicates.
func discover(args []string) ([]string, error) {
	var (
		seen  = mapset.NewThreadUnsafeSet[string]()
		paths []string
	)
	add := func(path string) {
		if seen.Add(filepath.Clean(path)) {
			paths = append(paths, path)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, semerr.Wrap(semerr.FixtureUnreadable, -1, "cannot open "+arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == fixtureExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, semerr.Wrap(semerr.FixtureUnreadable, -1, "cannot walk "+arg, err)
		}
	}
	return paths, nil
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// printResults writes the report of every failed fixture followed by the
// summary and returns the highest exit code of all fixtures.
func printResults(w io.Writer, results []fixtureResult, formatted bool) int {
	var (
		code     int
		failures int
		table    = tablewriter.NewWriter(w)
	)
	table.SetHeader([]string{"Fixture", "Calls", "Result"})
	for i := range results {
		r := &results[i]
		switch {
		case r.err != nil:
			fmt.Fprintf(w, "%s %s\n  %v\n", formatting.Fail.Wrap(formatted, "ERROR"), r.path, r.err)
			if class, ok := semerr.ClassOf(r.err); ok && class.Internal() {
				fmt.Fprintf(w, "  this is a defect in semtest, not in the fixture\n")
			}
		case !r.passed:
			fmt.Fprintf(w, "%s %s\n%s", formatting.Fail.Wrap(formatted, "FAIL"), r.path, r.report)
			if r.updated {
				fmt.Fprintf(w, "  expectations updated\n")
			}
		}
		if !r.passed {
			failures++
		}
		code = max(code, r.exitCode())
		table.Append([]string{r.path, strconv.Itoa(r.calls), r.verdict()})
	}
	table.Render()

	summary := fmt.Sprintf("%d fixtures, %d passed, %d failed", len(results), len(results)-failures, failures)
	if failures == 0 {
		summary = formatting.Pass.Wrap(formatted, summary)
	} else {
		summary = formatting.Fail.Wrap(formatted, summary)
	}
	fmt.Fprintln(w, summary)
	return code
}
