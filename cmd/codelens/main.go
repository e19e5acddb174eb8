// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command codelens prints reference-count lenses for Rust, TypeScript, and
// JavaScript sources.
// Implements: prd009-technology-stack R4.1-R4.12;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-codelens/internal/cache"
	"github.com/petar-djukic/go-codelens/internal/logging"
	"github.com/petar-djukic/go-codelens/pkg/codelens"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the settings shared by every command.
type app struct {
	v      *viper.Viper
	logger hclog.Logger
}

// newRootCmd builds the command tree with its own viper instance so flags,
// environment, and config file resolve per invocation.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: logging.Default("codelens")}

	rootCmd := &cobra.Command{
		Use:          "codelens",
		Short:        "Reference-count lenses for source files",
		Long:         "codelens finds the definitions in each source file and reports how many times the same file refers to each one.",
		SilenceUsage: true,
	}

	// Global flags.
	pf := rootCmd.PersistentFlags()
	pf.Bool("include-zero", false, "Report definitions with no references")
	pf.Bool("mask-comments", false, "Ignore references inside comments and string literals")
	pf.String("dialect", "", "Force a dialect (rust, typescript, javascript)")
	pf.Int("concurrency", 0, "Parallel file scans (default: number of CPUs)")
	pf.StringSlice("include", nil, "Glob patterns selecting files in directory scans")
	pf.StringSlice("exclude", nil, "Glob patterns dropping files in directory scans")
	pf.String("cache-db", "", "SQLite file for caching results between runs")
	pf.String("format", "text", "Output format (text, json)")
	pf.Int("max-lines", 0, "Maximum lines of text output (0 = unlimited)")

	// Bind flags to viper.
	for _, name := range []string{
		"include-zero", "mask-comments", "dialect", "concurrency",
		"include", "exclude", "cache-db", "format", "max-lines",
	} {
		a.v.BindPFlag(name, pf.Lookup(name))
	}

	// Env vars: CODELENS_INCLUDE_ZERO, CODELENS_CACHE_DB, etc.
	a.v.SetEnvPrefix("CODELENS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	// Config file.
	a.v.SetConfigName(".codelens")
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(".")
	a.v.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(a.newScanCmd())
	rootCmd.AddCommand(a.newDefsCmd())
	rootCmd.AddCommand(a.newRefsCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// scanner builds a Scanner from the resolved settings. The returned func
// releases the persistent cache, if any.
func (a *app) scanner(includeZero bool) (codelens.Scanner, func(), error) {
	cfg := codelens.Config{
		IncludeZero:  includeZero,
		MaskComments: a.v.GetBool("mask-comments"),
		Dialect:      a.v.GetString("dialect"),
		Concurrency:  a.v.GetInt("concurrency"),
		Include:      a.v.GetStringSlice("include"),
		Exclude:      a.v.GetStringSlice("exclude"),
		Logger:       a.logger,
	}

	release := func() {}
	if dbPath := a.v.GetString("cache-db"); dbPath != "" {
		db, err := cache.OpenSQLite(dbPath, a.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		cfg.Cache = db
		release = func() {
			if err := db.Close(); err != nil {
				a.logger.Warn("closing cache", "error", err)
			}
		}
	}

	s, err := codelens.New(cfg)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("initialization failed: %w", err)
	}
	return s, release, nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print codelens version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codelens %s\n", version)
		},
	}
}
