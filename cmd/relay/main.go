// relay - tool invocation pipeline and invocation-log reporting server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/internal/infra/sqlite"
	"github.com/relaykit/relay/internal/server"
	"github.com/relaykit/relay/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) > 0 && args[0] == "serve" {
		return runServe(args[1:], out)
	}

	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	fmt.Fprintln(out, version.String()) //nolint:errcheck
	return 0
}

// runServe starts the reporting HTTP server over a migrated SQLite log
// store. Tool execution stays in-process with embedders; serve only
// exposes the invocation log and the tool catalog.
func runServe(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("relay serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	port := fs.Int("port", 8080, "HTTP port")
	dbPath := fs.String("db", "relay.db", "SQLite database path")
	manifestPath := fs.String("manifest", "", "Tool manifest file (YAML)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	db, err := sqlite.NewDB(*dbPath)
	if err != nil {
		fmt.Fprintf(out, "open database: %v\n", err) //nolint:errcheck
		return 1
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		fmt.Fprintf(out, "run migrations: %v\n", err) //nolint:errcheck
		return 1
	}

	registry := tool.NewRegistry()
	if *manifestPath != "" {
		if err := registerManifest(registry, *manifestPath); err != nil {
			db.Close() //nolint:errcheck
			fmt.Fprintf(out, "load manifest: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	cfg := server.DefaultConfig()
	cfg.Port = *port

	srv := server.NewServer(db, runlog.NewSQLiteStore(db), registry, cfg)
	if err := srv.Start(context.Background()); err != nil {
		fmt.Fprintf(out, "server error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// registerManifest registers manifest descriptors for catalog listing.
// serve exposes no execution endpoint, so the bound executor only
// reports that execution lives with the embedding process.
func registerManifest(registry *tool.Registry, path string) error {
	descs, err := tool.LoadManifestFile(path)
	if err != nil {
		return err
	}
	for _, d := range descs {
		ex := catalogOnlyExecutor(d.Name)
		if err := registry.Register(d, ex); err != nil {
			return err
		}
	}
	return nil
}

func catalogOnlyExecutor(name string) tool.Executor {
	return tool.ExecutorFunc(func(_ context.Context, _ map[string]any) (any, error) {
		return nil, fmt.Errorf("tool %q has no executor in the reporting server", name)
	})
}

func printHelp(out io.Writer) {
	helpText := `relay - tool invocation pipeline and invocation log

Usage:
  relay [options]
  relay serve [options]

Options:
  --version    Show version information
  --help       Show this help message

Serve options:
  --port       HTTP port (default 8080)
  --db         SQLite database path (default relay.db)
  --manifest   Tool manifest file (YAML)

Examples:
  relay --version
  relay serve --port 8080 --db relay.db --manifest tools.yaml`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
