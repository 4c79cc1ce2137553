package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"unicode"

	"github.com/clydemeng/semtest/core/vm"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// semtestConfig is the file representation of all settings.
type semtestConfig struct {
	Jobs     int
	Color    string // auto, always or never
	Executor vm.Config
}

func defaultConfig() semtestConfig {
	return semtestConfig{
		Jobs:     runtime.NumCPU(),
		Color:    "auto",
		Executor: vm.DefaultConfig,
	}
}

func loadConfig(file string, cfg *semtestConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration file, if any, and applies the command
// line flags on top of it.
func makeConfig(ctx *cli.Context) (semtestConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config file: %w", err)
		}
	}
	if ctx.IsSet(jobsFlag.Name) {
		cfg.Jobs = ctx.Int(jobsFlag.Name)
	}
	if ctx.IsSet(colorFlag.Name) {
		cfg.Color = ctx.String(colorFlag.Name)
	}
	if ctx.IsSet(engineFlag.Name) {
		cfg.Executor.Engine = ctx.String(engineFlag.Name)
	}
	if ctx.IsSet(forkFlag.Name) {
		cfg.Executor.Fork = ctx.String(forkFlag.Name)
	}
	if ctx.IsSet(gasFlag.Name) {
		cfg.Executor.GasLimit = ctx.Uint64(gasFlag.Name)
	}
	if ctx.IsSet(balanceFlag.Name) {
		cfg.Executor.SenderFunds = ctx.Uint64(balanceFlag.Name)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return cfg, fmt.Errorf("invalid color mode %q, want auto, always or never", cfg.Color)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
