package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/assets"
)

// NewMediaURLCmd creates the media-url subcommand.
func NewMediaURLCmd(io StateIO) *cobra.Command {
	var (
		assetType   string
		constraints map[string]string
	)

	cmd := &cobra.Command{
		Use:          "media-url",
		Short:        "Print the media browser location for selecting an asset",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, io)
			if err != nil {
				return err
			}
			if !cfg.Features.Enabled(assets.FeatureMediaBrowser) {
				return fmt.Errorf("the media browser is disabled in the configuration")
			}

			c := make(map[string]any, len(constraints))
			for k, v := range constraints {
				c[k] = v
			}
			u, err := assets.MediaBrowserURL(cfg.MediaBrowserURI, assetType, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&assetType, "type", "", "asset type; \"images\" restricts the browser to images")
	cmd.Flags().StringToStringVar(&constraints, "constraint", nil, "browser constraint as key=value (repeatable)")

	return cmd
}
