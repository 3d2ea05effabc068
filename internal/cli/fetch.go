package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loafoe/go-fronius"
)

var (
	fetchMeters        []int
	fetchStorages      []int
	fetchInverters     []int
	fetchActiveDevices bool
	fetchSkip          []string
)

// record is one Fetch result as printed by the fetch command.
type record struct {
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Device   *int              `json:"device,omitempty" yaml:"device,omitempty"`
	Data     fronius.SensorMap `json:"data" yaml:"data"`
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Read all configured categories from the device",
	Long: `Fetch reads the system categories and the selected meters, storages and
inverters concurrently. Requests the device does not support are left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		opts, err := fetchOptions(cmd)
		if err != nil {
			return err
		}
		if fetchActiveDevices {
			info, err := client.CurrentActiveDeviceInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("active devices: %w", err)
			}
			opts = opts.WithActiveDevices(info)
		}

		results, err := client.FetchDetailed(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, records(results))
	},
}

func fetchOptions(cmd *cobra.Command) (fronius.FetchOptions, error) {
	opts := fronius.DefaultFetchOptions()
	if cmd.Flags().Changed("meter") {
		opts.DeviceMeter = fetchMeters
	}
	if cmd.Flags().Changed("storage") {
		opts.DeviceStorage = fetchStorages
	}
	if cmd.Flags().Changed("inverter") {
		opts.DeviceInverter = fetchInverters
	}
	for _, name := range fetchSkip {
		switch strings.ReplaceAll(strings.ToLower(name), "_", " ") {
		case "active device info":
			opts.ActiveDeviceInfo = false
		case "inverter info":
			opts.InverterInfo = false
		case "logger info":
			opts.LoggerInfo = false
		case "power flow":
			opts.PowerFlow = false
		case "system meter":
			opts.SystemMeter = false
		case "system inverter":
			opts.SystemInverter = false
		case "system ohmpilot":
			opts.SystemOhmpilot = false
		case "system storage":
			opts.SystemStorage = false
		default:
			return opts, fmt.Errorf("unknown category %q", name)
		}
	}
	return opts, nil
}

func records(results []fronius.Result) []record {
	out := make([]record, 0, len(results))
	for _, r := range results {
		rec := record{Endpoint: r.Endpoint.String(), Data: r.Data}
		if r.Device >= 0 {
			device := r.Device
			rec.Device = &device
		}
		out = append(out, rec)
	}
	return out
}

// single runs one category method and prints its sensor map.
func single(get func(ctx context.Context, client *fronius.Client) (fronius.SensorMap, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		data, err := get(cmd.Context(), client)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, data)
	}
}

var (
	deviceIndex int

	powerFlowCmd = &cobra.Command{
		Use:   "powerflow",
		Short: "Print the current power flow",
		Args:  cobra.NoArgs,
		RunE: single(func(ctx context.Context, client *fronius.Client) (fronius.SensorMap, error) {
			return client.CurrentPowerFlow(ctx)
		}),
	}
	inverterCmd = &cobra.Command{
		Use:   "inverter",
		Short: "Print the common data of one inverter",
		Args:  cobra.NoArgs,
		RunE: single(func(ctx context.Context, client *fronius.Client) (fronius.SensorMap, error) {
			return client.CurrentInverterData(ctx, deviceIndex)
		}),
	}
	inverterCumulativeCmd = &cobra.Command{
		Use:   "inverter-cumulative",
		Short: "Print the cumulative energy counters of one inverter",
		Args:  cobra.NoArgs,
		RunE: single(func(ctx context.Context, client *fronius.Client) (fronius.SensorMap, error) {
			return client.CurrentInverterCumulativeData(ctx, deviceIndex)
		}),
	}
	ledCmd = &cobra.Command{
		Use:   "led",
		Short: "Print the Datamanager LED states",
		Args:  cobra.NoArgs,
		RunE: single(func(ctx context.Context, client *fronius.Client) (fronius.SensorMap, error) {
			return client.CurrentLEDData(ctx)
		}),
	}
	versionCmd = &cobra.Command{
		Use:   "api-version",
		Short: "Print the Solar API version of the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			version, base, err := client.FetchAPIVersion(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, map[string]string{
				"api_version": version.String(),
				"base_url":    base,
			})
		},
	}
)

func init() {
	fetchCmd.Flags().IntSliceVar(&fetchMeters, "meter", nil, "meter device ids (default 0)")
	fetchCmd.Flags().IntSliceVar(&fetchStorages, "storage", nil, "storage device ids (default 0)")
	fetchCmd.Flags().IntSliceVar(&fetchInverters, "inverter", nil, "inverter device ids (default 1)")
	fetchCmd.Flags().BoolVar(&fetchActiveDevices, "active-devices", false, "read the device ids from the active device info")
	fetchCmd.Flags().StringSliceVar(&fetchSkip, "skip", nil, "categories to leave out, e.g. system_ohmpilot,logger_info")

	for _, cmd := range []*cobra.Command{inverterCmd, inverterCumulativeCmd} {
		cmd.Flags().IntVar(&deviceIndex, "device", 1, "inverter device id")
	}

	rootCmd.AddCommand(fetchCmd, powerFlowCmd, inverterCmd, inverterCumulativeCmd, ledCmd, versionCmd)
}
