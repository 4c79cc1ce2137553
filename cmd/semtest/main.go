// semtest runs semantic test fixtures against an in-memory EVM.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clydemeng/semtest/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: "SEMTEST",
	}
	updateFlag = &cli.BoolFlag{
		Name:     "update",
		Usage:    "Rewrite failing fixtures with the obtained results",
		Category: "SEMTEST",
	}
	jobsFlag = &cli.IntFlag{
		Name:     "jobs",
		Aliases:  []string{"j"},
		Usage:    "Number of fixtures run concurrently (default: number of CPUs)",
		Category: "SEMTEST",
	}
	colorFlag = &cli.StringFlag{
		Name:     "color",
		Usage:    "Colorize reports: auto, always or never",
		Value:    "auto",
		Category: "SEMTEST",
	}
	engineFlag = &cli.StringFlag{
		Name:     "engine",
		Usage:    "Executor backend",
		Value:    vm.DefaultConfig.Engine,
		Category: "EVM",
	}
	forkFlag = &cli.StringFlag{
		Name:     "fork",
		Usage:    "EVM rule set, one of " + strings.Join(vm.Forks, ", "),
		Value:    vm.DefaultConfig.Fork,
		Category: "EVM",
	}
	gasFlag = &cli.Uint64Flag{
		Name:     "gas",
		Usage:    "Gas limit for deployment and every call",
		Value:    vm.DefaultConfig.GasLimit,
		Category: "EVM",
	}
	balanceFlag = &cli.Uint64Flag{
		Name:     "value-balance",
		Usage:    "Sender balance in ether",
		Value:    vm.DefaultConfig.SenderFunds,
		Category: "EVM",
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    2,
		Category: "LOGGING",
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a file instead of stderr",
		Category: "LOGGING",
	}
)

var (
	runFlags = []cli.Flag{
		configFileFlag,
		updateFlag,
		jobsFlag,
		colorFlag,
		engineFlag,
		forkFlag,
		gasFlag,
		balanceFlag,
	}
	logFlags = []cli.Flag{
		verbosityFlag,
		logFileFlag,
	}
)

func newApp() *cli.App {
	app := &cli.App{
		Name:      "semtest",
		Usage:     "run semantic test fixtures against an in-memory EVM",
		ArgsUsage: "<fixture or directory>...",
		Flags:     append(append([]cli.Flag{}, runFlags...), logFlags...),
		Before:    setupLogging,
		Action:    runFixtures,
		Commands: []*cli.Command{
			{
				Name:      "dumpconfig",
				Usage:     "Export configuration values in a TOML format",
				ArgsUsage: "<dumpfile (optional)>",
				Flags:     runFlags,
				Action:    dumpConfig,
			},
		},
	}
	return app
}

func setupLogging(ctx *cli.Context) error {
	var (
		output   io.Writer
		useColor bool
	)
	if file := ctx.String(logFileFlag.Name); file != "" {
		output = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 3,
		}
	} else {
		output = colorable.NewColorableStderr()
		useColor = isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	}
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, useColor)))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
