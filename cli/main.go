// Package main is the entry point for the pluginhub CLI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pluginhub-hq/pluginhub/registry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the exit code.
// 0 = success, 1 = no results, 2 = error.
func run(args []string) int {
	fs := flag.NewFlagSet("pluginhub", flag.ContinueOnError)

	var (
		configDir   string
		verboseFlag bool
		versionFlag bool
	)

	fs.StringVar(&configDir, "config-dir", ".", "directory containing "+registry.ConfigFileName)
	fs.BoolVar(&verboseFlag, "verbose", false, "enable verbose output")
	fs.BoolVar(&verboseFlag, "v", false, "enable verbose output (shorthand)")
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pluginhub <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  plugins        List plugins with optional filters\n")
		fmt.Fprintf(os.Stderr, "  show <plugin>  Show a single plugin by ID or name\n")
		fmt.Fprintf(os.Stderr, "  search <text>  Search plugins by name\n")
		fmt.Fprintf(os.Stderr, "  stats          Print registry statistics\n")
		fmt.Fprintf(os.Stderr, "  refresh        Force a catalog refresh\n")
		fmt.Fprintf(os.Stderr, "  browse         Browse the catalog interactively\n")
		fmt.Fprintf(os.Stderr, "  watch <file>   Watch a local catalog file for changes\n")
		fmt.Fprintf(os.Stderr, "  serve          Start MCP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  version        Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		fmt.Printf("pluginhub %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fs.Usage()
		return 2
	}

	env := cmdEnv{configDir: configDir, verbose: verboseFlag}

	command := remaining[0]
	switch command {
	case "plugins":
		return runPlugins(env, remaining[1:])
	case "show":
		return runShow(env, remaining[1:])
	case "search":
		return runSearch(env, remaining[1:])
	case "stats":
		return runStats(env, remaining[1:])
	case "refresh":
		return runRefresh(env, remaining[1:])
	case "browse":
		return runBrowse(env, remaining[1:])
	case "watch":
		return runWatch(env, remaining[1:])
	case "serve":
		return runServe(env, remaining[1:])
	case "version":
		fmt.Printf("pluginhub %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: pluginhub <command> [flags]")
		return 2
	}
}

// cmdEnv carries the global flags down to subcommands.
type cmdEnv struct {
	configDir string
	verbose   bool
}

// newCache loads the config and builds a registry cache from it.
func newCache(env cmdEnv) (*registry.Cache, *registry.Config, error) {
	cfg, err := registry.LoadConfig(env.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	source, err := cfg.Source()
	if err != nil {
		return nil, nil, err
	}

	ttl, err := cfg.TTL()
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelWarn
	if env.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []registry.CacheOption{
		registry.WithTTL(ttl),
		registry.WithLogger(logger),
	}
	if cfg.Registry.StatePath != "" {
		opts = append(opts, registry.WithStatePath(cfg.Registry.StatePath))
	}

	return registry.NewCache(source, opts...), cfg, nil
}
