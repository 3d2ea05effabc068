package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loafoe/go-fronius"
	"github.com/loafoe/go-fronius/internal/collector"
)

const landingPage = `<html>
<head><title>Fronius Exporter</title></head>
<body>
<h1>Fronius Exporter</h1>
<p>Device: %s</p>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

var exporterActiveDevices bool

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Serve the device readings as Prometheus metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.URL == "" {
			return errors.New("no device url: use --url or FRONIUS_URL")
		}
		opts, err := clientOptions()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fetch := fronius.DefaultFetchOptions()
		if exporterActiveDevices {
			client, err := fronius.NewClient(cfg.URL, opts...)
			if err != nil {
				return err
			}
			info, err := client.CurrentActiveDeviceInfo(ctx)
			if err != nil {
				return fmt.Errorf("active devices: %w", err)
			}
			fetch = fetch.WithActiveDevices(info)
		}

		c, err := collector.New(cfg.URL, fetch, cfg.Timeout, logger, opts...)
		if err != nil {
			return err
		}
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			c,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		server := &http.Server{
			Addr:              cfg.Listen,
			Handler:           newRouter(registry, cfg.URL),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("exporter listening", slog.String("listen", cfg.Listen), slog.String("url", cfg.URL))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down exporter")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func newRouter(registry *prometheus.Registry, url string) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	})).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	}).Methods(http.MethodGet)
	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, landingPage, url)
	}).Methods(http.MethodGet)
	return router
}

func init() {
	exporterCmd.Flags().String("listen", ":9120", "address to serve metrics on")
	exporterCmd.Flags().BoolVar(&exporterActiveDevices, "active-devices", false, "read the device ids from the active device info at startup")
	_ = viper.BindPFlag("listen", exporterCmd.Flags().Lookup("listen"))

	rootCmd.AddCommand(exporterCmd)
}
