// Package main is the entry point for the crn CLI application.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/eykd/crnodes/cmd"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// glog flags are parsed by cobra; mark the standard set parsed for glog.
	_ = flag.CommandLine.Parse(nil)
	rootCmd := cmd.NewRootCmd()
	rootCmd.Version = Version
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
