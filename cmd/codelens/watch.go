// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/go-codelens/internal/report"
	"github.com/petar-djukic/go-codelens/pkg/codelens"
)

// newWatchCmd creates the "watch" command.
func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rescan files as they change",
		Long:  "Watch prints lenses for a directory, then prints them again for each file that changes until interrupted.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runWatch,
	}
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}
	cfg := report.Config{Format: format, MaxLines: a.v.GetInt("max-lines")}

	s, release, err := a.scanner(a.v.GetBool("include-zero"))
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	initial, err := s.ScanDir(ctx, root)
	if err != nil {
		return err
	}
	if err := report.Write(out, initial, cfg); err != nil {
		return err
	}

	return s.Watch(ctx, root, func(results []codelens.FileResult, removed []string) {
		for _, p := range removed {
			fmt.Fprintf(out, "removed %s\n", p)
		}
		if len(results) == 0 {
			return
		}
		if err := report.Write(out, results, cfg); err != nil {
			a.logger.Warn("writing report", "error", err)
		}
	})
}
