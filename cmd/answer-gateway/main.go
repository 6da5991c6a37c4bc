package main

import (
	"fmt"
	"os"

	"github.com/antigravity/answer-gateway/internal/cmd"
	"github.com/antigravity/answer-gateway/internal/version"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.Commit = Commit
	version.BuildTime = BuildTime

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
