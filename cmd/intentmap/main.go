// Package main provides the entry point for the intentmap CLI tool.
package main

import (
	"github.com/agentstation/intentmap/cmd/intentmap/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
