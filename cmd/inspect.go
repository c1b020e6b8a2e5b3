package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pymove/importmatch"
	"pymove/internal/config"
	"pymove/internal/filesystem"
	"pymove/internal/layout"
	"pymove/scope"
	"pymove/symbol"
)

// InspectCmd is the supplemented read-only diagnostic command
// (SPEC_FULL.md): it loads one module and prints, for every top-level
// symbol, its kind, its would-be import requirements, and whether
// it's exported — all computed from the core's existing
// scope/extractor machinery in read-only mode, never mutating or
// writing anything. Grounded on topple/cmd/parse.go's
// "load → build → print an indented report" shape.
type InspectCmd struct {
	RootPath string `arg:"" required:"" help:"Project root directory"`
	Module   string `arg:"" required:"" help:"Dotted name of the module to inspect"`
}

func (c *InspectCmd) Run(globals *Globals, ctx *context.Context, log *slog.Logger) error {
	fs := filesystem.NewFileSystem(log)

	cfg, err := loadInspectConfig(globals, c.RootPath)
	if err != nil {
		return err
	}

	l := layout.New(c.RootPath, cfg.SearchPaths, fs, log)
	proj := layout.NewProject(l, nil, log)

	name := importmatch.ParseModuleName(c.Module)
	m, err := proj.Load(name)
	if err != nil {
		return err
	}

	exports := symbol.GatherExports(m.Tree)
	ix := scope.Build(m.Tree)

	fmt.Printf("=== %s ===\n\n", c.Module)
	for _, stmt := range m.Tree.Body {
		symName, kind, ok := symbol.Classify(stmt)
		if !ok {
			continue
		}
		reqs := symbol.Requirements(stmt, ix, name)
		fmt.Printf("%s (%s)\n", symName, kind)
		fmt.Printf("  exported: %v\n", exports.Contains(symName))
		if len(reqs) == 0 {
			fmt.Printf("  requires: (none)\n")
			continue
		}
		var parts []string
		for _, r := range reqs {
			parts = append(parts, requirementString(r))
		}
		fmt.Printf("  requires: %s\n", strings.Join(parts, ", "))
	}
	return nil
}

func requirementString(r symbol.RequirementEntry) string {
	if r.Spec.Kind == importmatch.PlainImport {
		return fmt.Sprintf("import %s", r.Spec.Segments.String())
	}
	return fmt.Sprintf("from %s import %s", r.Spec.Module.String(), r.Spec.Name)
}

func loadInspectConfig(globals *Globals, root string) (*config.Config, error) {
	if globals.Config != "" {
		return config.LoadPath(globals.Config)
	}
	return config.Load(root)
}
