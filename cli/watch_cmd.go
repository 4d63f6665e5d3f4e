package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pluginhub-hq/pluginhub/registry"
)

// runWatch implements the "pluginhub watch" command. It watches a local
// catalog file and re-reports registry statistics on every change.
func runWatch(env cmdEnv, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	var (
		debounce time.Duration
		jsonFlag bool
	)
	fs.DurationVar(&debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")
	fs.BoolVar(&jsonFlag, "json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := ""
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	} else {
		cfg, err := registry.LoadConfig(env.configDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
			return 2
		}
		path = cfg.Registry.CatalogPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: pluginhub watch <catalog.json> [flags]")
		return 2
	}

	cache := registry.NewCache(registry.FileSource{Path: path})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating watcher: %v\n", err)
		return 2
	}
	defer watcher.Close()

	// Watch the parent directory so editor rename-on-save is caught.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fmt.Fprintf(os.Stderr, "error: watching %s: %v\n", path, err)
		return 2
	}

	// Signal handling.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Initial load.
	fmt.Printf("watch: loading %s (debounce: %s)\n", path, debounce)
	printCatalogSummary(cache, jsonFlag)

	// Debounced event loop.
	var mu sync.Mutex
	var timer *time.Timer

	resetTimer := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			fmt.Printf("watch: reloading %s\n", path)
			cache.Refresh(context.Background())
			printCatalogSummary(cache, jsonFlag)
		})
	}

	target := filepath.Clean(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				resetTimer()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-sigCh:
			fmt.Println("\nwatch: stopped")
			return 0
		}
	}
}

func printCatalogSummary(cache *registry.Cache, jsonOutput bool) {
	records := cache.Plugins(context.Background())

	if jsonOutput {
		printJSON(cache.Stats())
		return
	}

	stats := cache.Stats()
	fmt.Printf("[catalog] %d plugin(s), %d categories, %d integrations\n",
		len(records), stats.Categories, stats.Integrations)
}
