package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loafoe/go-fronius"
	"github.com/loafoe/go-fronius/internal/config"
)

var (
	cfgFile string
	debug   bool
	output  string

	cfg    *config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "fronius",
	Short: "Read Fronius inverters over the local Solar API and Solar.web",
	Long: `Query a Fronius Datamanager or Gen24 inverter on the local network, run a
Prometheus exporter for it, or read system data from the Solar.web cloud.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		if err := config.InitConfig(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fronius.yaml)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	flags.String("url", "", "url of the Fronius device, e.g. http://192.168.0.10")
	flags.String("api-version", "auto", "Solar API version: auto, v0 or v1")
	flags.Duration("timeout", 10*time.Second, "timeout of a single request")

	_ = viper.BindPFlag("url", flags.Lookup("url"))
	_ = viper.BindPFlag("api_version", flags.Lookup("api-version"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

// newClient returns a local client for the configured device.
func newClient(opts ...fronius.OptionFunc) (*fronius.Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("no device url: use --url or FRONIUS_URL")
	}
	clientOpts, err := clientOptions()
	if err != nil {
		return nil, err
	}
	return fronius.NewClient(cfg.URL, append(clientOpts, opts...)...)
}

func clientOptions() ([]fronius.OptionFunc, error) {
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	return append(opts,
		fronius.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fronius.WithLogger(logger),
	), nil
}
