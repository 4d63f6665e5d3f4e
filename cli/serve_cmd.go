package main

import (
	"fmt"
	"os"

	"github.com/pluginhub-hq/pluginhub/server"
)

// runServe starts the MCP server on stdio.
func runServe(env cmdEnv, args []string) int {
	cache, _, err := newCache(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	srv := server.New(version, cache)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "error: MCP server failed: %v\n", err)
		return 2
	}
	return 0
}
