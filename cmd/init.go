package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eykd/crnodes/internal/config"
	"github.com/eykd/crnodes/internal/nodes/ops"
	"github.com/eykd/crnodes/internal/snapshot"
)

// InitIO handles I/O for the init command.
type InitIO interface {
	StateIO
	ReadFile(path string) ([]byte, error)
	StatFile(path string) (bool, error)
	WriteFileAtomic(path string, data []byte) error
}

// NewInitCmd creates the init subcommand.
func NewInitCmd(io InitIO) *cobra.Command {
	var (
		from  string
		force bool
	)

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Load the initial node graph and save the first snapshot",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openEmptySession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()

			_, loadErr := s.backend.Load(ctx)
			exists := loadErr == nil
			if loadErr != nil && !errors.Is(loadErr, snapshot.ErrNotFound) {
				if !force {
					return fmt.Errorf("checking existing state: %w", loadErr)
				}
				exists = true
			}
			if exists && !force {
				return fmt.Errorf("state already exists; use --force to overwrite")
			}

			var payload ops.Init
			if from != "" {
				data, err := io.ReadFile(from)
				if err != nil {
					return fmt.Errorf("reading %s: %w", from, err)
				}
				if err := yaml.Unmarshal(data, &payload); err != nil {
					return fmt.Errorf("parsing %s: %w", from, err)
				}
			}

			state, err := s.store.Init(ctx, payload)
			if err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.FileName
			}
			configExists, err := io.StatFile(configPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", configPath, err)
			}
			if !configExists || force {
				// Only the file layer is persisted: env and flag overrides stay
				// out of the project file.
				fileCfg := config.Default()
				if configExists {
					existing, err := io.ReadFile(configPath)
					if err != nil {
						return fmt.Errorf("reading %s: %w", configPath, err)
					}
					if fileCfg, err = config.Parse(existing); err != nil {
						return fmt.Errorf("parsing %s: %w", configPath, err)
					}
				}
				data, err := config.Marshal(fileCfg)
				if err != nil {
					return err
				}
				if err := io.WriteFileAtomic(configPath, data); err != nil {
					return fmt.Errorf("writing %s (state saved; re-run with --force to recover): %w", configPath, err)
				}
			}

			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing state")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %d nodes\n", len(state.ByContextPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "INIT payload file (JSON or YAML) with byContextPath, siteNode, clipboard, clipboardMode")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing state and configuration")

	return cmd
}
