// Package cmd implements the crn CLI commands.
package cmd

import (
	"flag"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/config"
)

// NewRootCmd creates the root crn command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithIO(newDefaultStateIO())
}

// stateFileIO is the I/O every subcommand needs.
type stateFileIO interface {
	InitIO
	ApplyIO
	ResolveIO
}

func newRootCmdWithIO(sio stateFileIO) *cobra.Command {
	root := &cobra.Command{
		Use:           "crn",
		Short:         "crn - node graph store for a content repository editing interface",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}

	pf := root.PersistentFlags()
	pf.String("config", config.FileName, "configuration file")
	pf.String("state", "", "snapshot file (overrides config and CRN_STATE)")
	pf.String("redis-url", "", "store the snapshot in Redis at this URL")
	pf.String("redis-key", "", "snapshot name within Redis")
	// glog registers -v, -logtostderr and friends on the standard flag set.
	pf.AddGoFlagSet(flag.CommandLine)

	root.AddCommand(NewInitCmd(sio))
	root.AddCommand(NewApplyCmd(sio))
	root.AddCommand(NewMoveCmd(sio))
	root.AddCommand(NewShowCmd(sio))
	root.AddCommand(NewDoctorCmd(sio))
	root.AddCommand(NewMediaURLCmd(sio))
	root.AddCommand(NewResolveAssetsCmd(sio))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
