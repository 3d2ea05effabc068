package cli

import (
	"github.com/spf13/cobra"

	"github.com/loafoe/go-fronius"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Fronius devices on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		urls, err := fronius.DiscoverAll(cmd.Context())
		if err != nil {
			return err
		}
		logger.Debug("discovery finished", "devices", len(urls))
		if urls == nil {
			urls = []string{}
		}
		return render(cmd.OutOrStdout(), output, urls)
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
