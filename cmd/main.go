// main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var Version = "dev" // This will be set by the build system

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

// Globals holds the flags shared by every subcommand.
type Globals struct {
	Debug   bool        `help:"Enable debug logging" short:"d"`
	Version VersionFlag `name:"version" help:"Print version information and quit"`
	Config  string      `help:"Path to a .pymove.yml config file (default: <root>/.pymove.yml)" short:"c"`
}

// CLI holds the root command structure including global flags.
type CLI struct {
	Globals

	Move    MoveCmd    `cmd:"" help:"Move a top-level symbol from one module to another"`
	Inspect InspectCmd `cmd:"" help:"Print a read-only report of one module's top-level symbols"`
	Watch   WatchCmd   `cmd:"" help:"Watch a project for concurrent-motion conflicts"`
}

func main() {
	// -------------------------------------------------------------------------
	// Optional .env file, loaded into the process environment (no flag
	// or argument reads a PYMOVE_* variable) — a missing or unreadable
	// file is silently ignored, same posture as the rest of the config
	// layer.
	_ = godotenv.Load()

	// -------------------------------------------------------------------------
	// Parse CLI arguments and options
	cli := CLI{}

	if len(os.Args) < 2 {
		os.Args = append(os.Args, "--help")
	}

	kCtx := kong.Parse(&cli,
		kong.Name("pymove"),
		kong.Description("pymove - move a top-level Python symbol between modules, rewriting every dependent import"),
		kong.UsageOnError(),
		kong.Vars{
			"version": "v0.1.0",
		},
	)

	// -------------------------------------------------------------------------
	// Logger. Human-facing log lines go to stderr so the machine-readable
	// JSON result (§6) stays the only thing on stdout.
	level := slog.LevelInfo
	if cli.Globals.Debug {
		level = slog.LevelDebug
	}

	log := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	)

	// -------------------------------------------------------------------------
	// Context

	ctx := context.Background()

	// -------------------------------------------------------------------------
	// GOMAXPROCS

	log.DebugContext(ctx, "startup", slog.Int("GOMAXPROCS", runtime.GOMAXPROCS(0)))

	// -------------------------------------------------------------------------
	// Run

	if err := kCtx.Run(&cli.Globals, &ctx, log); err != nil {
		kCtx.FatalIfErrorf(err)
	}
}
