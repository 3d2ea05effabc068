package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loafoe/go-fronius/solarweb"
)

var cloudJWT string

var cloudCmd = &cobra.Command{
	Use:   "cloud",
	Short: "Read PV system data from Solar.web",
}

func newCloudClient() (*solarweb.Client, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeyValue == "" {
		return nil, errors.New("no Solar.web access key: use FRONIUS_ACCESS_KEY_ID and FRONIUS_ACCESS_KEY_VALUE")
	}
	opts := []solarweb.OptionFunc{solarweb.WithLogger(logger)}
	if cloudJWT != "" {
		opts = append(opts, solarweb.WithJWT(cloudJWT))
	}
	return solarweb.NewClient(cfg.AccessKeyID, cfg.AccessKeyValue, cfg.PvSystemID, opts...)
}

var cloudSystemCmd = &cobra.Command{
	Use:   "system",
	Short: "Print the PV system metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newCloudClient()
		if err != nil {
			return err
		}
		system, err := client.GetPvSystemMetaData(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, system)
	},
}

var cloudDevicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Print the metadata of all devices of the PV system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newCloudClient()
		if err != nil {
			return err
		}
		devices, err := client.GetDevicesMetaData(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, devices)
	},
}

var cloudFlowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print the current power flow of the PV system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newCloudClient()
		if err != nil {
			return err
		}
		flow, err := client.GetSystemFlowData(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, flow)
	},
}

func init() {
	cloudCmd.PersistentFlags().String("pv-system-id", "", "Solar.web PV system id")
	cloudCmd.PersistentFlags().StringVar(&cloudJWT, "jwt", "", "Solar.web user JWT for endpoints that need one")
	_ = viper.BindPFlag("pv_system_id", cloudCmd.PersistentFlags().Lookup("pv-system-id"))

	cloudCmd.AddCommand(cloudSystemCmd, cloudDevicesCmd, cloudFlowCmd)
	rootCmd.AddCommand(cloudCmd)
}
