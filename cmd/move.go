package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"pymove/importmatch"
	"pymove/internal/filesystem"
	"pymove/internal/layout"
	"pymove/move"
	"pymove/project"
)

// MoveCmd implements spec.md §6's one command: `move <root_path>
// <module_start> <line> <column> <module_end>`.
type MoveCmd struct {
	RootPath    string `arg:"" required:"" help:"Project root directory"`
	ModuleStart string `arg:"" required:"" help:"Dotted name of the module the symbol currently lives in"`
	Line        int    `arg:"" required:"" help:"1-based line of the symbol"`
	Column      int    `arg:"" required:"" help:"0-based column of the symbol"`
	ModuleEnd   string `arg:"" required:"" help:"Dotted name of the destination module"`
}

// moveResult mirrors spec.md §6's success JSON shape.
type moveResult struct {
	Success     bool             `json:"success"`
	EditedFiles []editedFileJSON `json:"editedFiles"`
}

type editedFileJSON struct {
	Filename string `json:"filename"`
	Location int    `json:"location"`
}

// moveFailure mirrors spec.md §6's failure JSON shape.
type moveFailure struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errorMsg"`
	Trace    string `json:"trace"`
}

// Run executes the motion and prints the JSON result envelope to
// stdout. Exit code is always 0 — per spec.md §6 and §9's Open
// Question decision, the envelope alone carries success/failure,
// matching pyro's cli/move.py which never calls sys.exit non-zero.
func (c *MoveCmd) Run(globals *Globals, ctx *context.Context, log *slog.Logger) error {
	result, err := c.execute(globals, *ctx, log)
	if err != nil {
		printFailure(err, log)
		return nil
	}
	printSuccess(result, log)
	return nil
}

func (c *MoveCmd) execute(globals *Globals, ctx context.Context, log *slog.Logger) (res *move.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during motion: %v\n%s", r, debug.Stack())
		}
	}()

	fs := filesystem.NewFileSystem(log)

	exists, statErr := fs.Exists(c.RootPath)
	if statErr != nil {
		return nil, statErr
	}
	if !exists {
		return nil, fmt.Errorf("root path does not exist: %s", c.RootPath)
	}
	isDir, statErr := fs.IsDir(c.RootPath)
	if statErr != nil {
		return nil, statErr
	}
	if !isDir {
		return nil, fmt.Errorf("root path is not a directory: %s", c.RootPath)
	}

	cfg, cfgErr := loadInspectConfig(globals, c.RootPath)
	if cfgErr != nil {
		return nil, cfgErr
	}

	l := layout.New(c.RootPath, cfg.SearchPaths, fs, log)
	proj := layout.NewProject(l, cfg.Formatter, log)

	motion := project.NewMotion(
		importmatch.ParseModuleName(c.ModuleStart),
		importmatch.ParseModuleName(c.ModuleEnd),
		"", // symbol name is resolved from (line, column), not supplied
		c.Line,
		c.Column,
	)

	return move.Execute(proj, motion, log)
}

func printSuccess(result *move.Result, log *slog.Logger) {
	out := moveResult{Success: true}
	for _, ef := range result.EditedFiles {
		out.EditedFiles = append(out.EditedFiles, editedFileJSON{Filename: ef.Filename, Location: ef.Location})
	}
	data, err := json.Marshal(out)
	if err != nil {
		log.Error("failed to marshal result", "error", err)
		return
	}
	statusLine("motion succeeded", true)
	fmt.Println(string(data))
}

func printFailure(err error, log *slog.Logger) {
	out := moveFailure{Success: false, ErrorMsg: err.Error(), Trace: string(debug.Stack())}
	data, marshalErr := json.Marshal(out)
	if marshalErr != nil {
		log.Error("failed to marshal failure result", "error", marshalErr)
		return
	}
	statusLine("motion failed: "+err.Error(), false)
	fmt.Println(string(data))
}

// statusLine writes a colorized one-line human status to stderr,
// gated on stdout being a terminal (the machine-readable JSON result
// always goes to stdout undecorated, per §6) the way the rest of the
// pack's CLIs gate color on isatty.
func statusLine(msg string, ok bool) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}
	c := color.New(color.FgRed)
	if ok {
		c = color.New(color.FgGreen)
	}
	c.Fprintln(os.Stderr, msg)
}
