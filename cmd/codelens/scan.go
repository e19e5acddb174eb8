// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.3-R4.9.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/go-codelens/internal/index"
	"github.com/petar-djukic/go-codelens/internal/lens"
	"github.com/petar-djukic/go-codelens/internal/report"
	"github.com/petar-djukic/go-codelens/pkg/codelens"
	"github.com/petar-djukic/go-codelens/pkg/types"
)

// newScanCmd creates the "scan" command.
func (a *app) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Print reference-count lenses",
		Long:  "Scan reads each file, or every supported file below each directory, and prints one lens per definition.",
		RunE:  a.runScan,
	}
	cmd.Flags().String("rev", "", "Scan the files committed at this git revision")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}
	rev, _ := cmd.Flags().GetString("rev")

	s, release, err := a.scanner(a.v.GetBool("include-zero"))
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	results, err := collect(ctx, s, args, rev)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), results, report.Config{
		Format:   format,
		MaxLines: a.v.GetInt("max-lines"),
	})
}

// newDefsCmd creates the "defs" command.
func (a *app) newDefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defs [path...]",
		Short: "List definitions",
		Long:  "Defs lists the definitions found in the given files and directories, optionally filtered by name and kind.",
		RunE:  a.runDefs,
	}
	cmd.Flags().String("name", "", "Only definitions with this name")
	cmd.Flags().StringSlice("kind", nil, "Only definitions of these kinds (function, struct, class, ...)")
	cmd.Flags().Bool("exported", false, "Only exported definitions")
	cmd.Flags().String("rev", "", "Read the files committed at this git revision")
	return cmd
}

func (a *app) runDefs(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	kindNames, _ := cmd.Flags().GetStringSlice("kind")
	exported, _ := cmd.Flags().GetBool("exported")
	rev, _ := cmd.Flags().GetString("rev")

	kinds, err := parseKinds(kindNames)
	if err != nil {
		return err
	}

	s, release, err := a.scanner(true)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	results, err := collect(ctx, s, args, rev)
	if err != nil {
		return err
	}

	var lenses []types.Lens
	for _, r := range results {
		lenses = append(lenses, r.Lenses...)
	}
	syms := index.FromLenses(lenses).Find(index.Query{Name: name, Kinds: kinds, ExportedOnly: exported})
	return report.Symbols(cmd.OutOrStdout(), syms, format)
}

// newRefsCmd creates the "refs" command.
func (a *app) newRefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs <file> <name>",
		Short: "List the references counted for a definition",
		Long:  "Refs prints every position in the file that counts toward the lens of the named definition.",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runRefs,
	}
	cmd.Flags().String("kind", "", "Definition kind (default: the kind of the first definition with that name)")
	return cmd
}

func (a *app) runRefs(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}
	path, name := args[0], args[1]
	kindName, _ := cmd.Flags().GetString("kind")

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	s, release, err := a.scanner(true)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	kind := types.Function
	if kindName != "" {
		k, ok := types.ParseKind(kindName)
		if !ok {
			return fmt.Errorf("unknown kind %q", kindName)
		}
		kind = k
	} else {
		defs, err := s.Definitions(ctx, path, content)
		if err != nil {
			return err
		}
		for _, d := range defs {
			if d.Name == name {
				kind = d.Kind
				break
			}
		}
	}

	locs, err := s.References(ctx, path, content, name, kind)
	if err != nil {
		return err
	}
	return report.Locations(cmd.OutOrStdout(), path, locs, format, lens.FormatLabel(len(locs)))
}

// collect scans every argument: files directly, directories recursively,
// or, with rev set, the repositories containing them. No arguments means
// the current directory.
func collect(ctx context.Context, s codelens.Scanner, args []string, rev string) ([]codelens.FileResult, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var all []codelens.FileResult
	for _, arg := range args {
		if rev != "" {
			rs, err := s.ScanRevision(ctx, arg, rev)
			if err != nil {
				return nil, err
			}
			all = append(all, rs...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			rs, err := s.ScanDir(ctx, arg)
			if err != nil {
				return nil, err
			}
			all = append(all, rebase(rs, arg)...)
			continue
		}

		content, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		r, err := s.ScanFile(ctx, arg, content)
		if err != nil {
			return nil, err
		}
		all = append(all, *r)
	}
	return all, nil
}

// rebase prefixes root-relative result paths with root so output from
// several directories stays unambiguous.
func rebase(results []codelens.FileResult, root string) []codelens.FileResult {
	if filepath.Clean(root) == "." {
		return results
	}
	for i := range results {
		p := filepath.ToSlash(filepath.Join(root, filepath.FromSlash(results[i].Path)))
		results[i].Path = p
		for j := range results[i].Lenses {
			results[i].Lenses[j].Symbol.FilePath = p
		}
	}
	return results
}

func parseKinds(names []string) ([]types.SymbolKind, error) {
	var kinds []types.SymbolKind
	for _, n := range names {
		k, ok := types.ParseKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", n)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
