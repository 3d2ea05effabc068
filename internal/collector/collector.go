package collector

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loafoe/go-fronius"
)

const namespace = "fronius"

// Collector implements prometheus.Collector over a Fronius device. Every scrape runs one
// Fetch and exports each numeric reading as fronius_sensor_value.
type Collector struct {
	client  *fronius.Client
	fetch   fronius.FetchOptions
	timeout time.Duration
	logger  *slog.Logger

	sensorValue    *prometheus.Desc
	statusCode     *prometheus.Desc
	scrapeSuccess  *prometheus.Desc
	scrapeDuration *prometheus.Desc
	apiVersion     prometheus.Gauge
	failures       *prometheus.CounterVec
}

// New creates a collector for the device at url. The client is built from opts and reports
// its failed requests to the collector.
func New(url string, fetch fronius.FetchOptions, timeout time.Duration, logger *slog.Logger, opts ...fronius.OptionFunc) (*Collector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collector{
		fetch:   fetch,
		timeout: timeout,
		logger:  logger,
		sensorValue: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sensor_value"),
			"Numeric reading of a Fronius device",
			[]string{"category", "device", "path", "sensor", "unit"},
			nil,
		),
		statusCode: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "status_code"),
			"Status code the device reported for a request",
			[]string{"category", "device"},
			nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "scrape_success"),
			"Whether the device could be reached",
			nil,
			nil,
		),
		scrapeDuration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "scrape_duration_seconds"),
			"Duration of the device scrape",
			nil,
			nil,
		),
		apiVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_version",
			Help:      "Solar API version spoken by the device, -1 until known",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_failures_total",
			Help:      "Requests that returned no usable data",
		}, []string{"endpoint", "kind"}),
	}
	c.apiVersion.Set(float64(fronius.APIVersionAuto))

	client, err := fronius.NewClient(url, append(opts, fronius.WithLogger(logger), fronius.WithNotification(c))...)
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

func (c *Collector) Client() *fronius.Client {
	return c.client
}

func (c *Collector) APIVersionResolved(version fronius.APIVersion, _ string) {
	c.apiVersion.Set(float64(version))
}

func (c *Collector) RequestFailed(endpoint fronius.Endpoint, err error) {
	c.failures.WithLabelValues(category(endpoint), fronius.KindOf(err).String()).Inc()
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sensorValue
	ch <- c.statusCode
	ch <- c.scrapeSuccess
	ch <- c.scrapeDuration
	c.apiVersion.Describe(ch)
	c.failures.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := c.client.FetchDetailed(ctx, c.fetch)
	ch <- prometheus.MustNewConstMetric(c.scrapeDuration, prometheus.GaugeValue, time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("scraping fronius device failed", slog.String("url", c.client.URL()), slog.Any("error", err))
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 0)
	} else {
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 1)
		for _, r := range results {
			c.collectResult(ch, r)
		}
	}
	c.apiVersion.Collect(ch)
	c.failures.Collect(ch)
}

func (c *Collector) collectResult(ch chan<- prometheus.Metric, r fronius.Result) {
	cat := category(r.Endpoint)
	device := ""
	if r.Device >= 0 {
		device = strconv.Itoa(r.Device)
	}
	if status, ok := r.Data.Status(); ok {
		ch <- prometheus.MustNewConstMetric(c.statusCode, prometheus.GaugeValue, float64(status.Code), cat, device)
	}
	walk("", r.Data, func(path, sensor string, v float64, unit string) {
		ch <- prometheus.MustNewConstMetric(c.sensorValue, prometheus.GaugeValue, v, cat, device, path, sensor, unit)
	})
}

func category(e fronius.Endpoint) string {
	return strings.ReplaceAll(e.String(), " ", "_")
}

// walk calls emit for every numeric Value in m. Nested maps and lists extend path, e.g.
// "meters/0".
func walk(path string, m fronius.SensorMap, emit func(path, sensor string, v float64, unit string)) {
	for key, entry := range m {
		switch e := entry.(type) {
		case fronius.Value:
			if v, ok := numeric(e.Value); ok {
				emit(path, key, v, e.Unit)
			}
		case fronius.SensorMap:
			walk(join(path, key), e, emit)
		case []fronius.SensorMap:
			for i, item := range e {
				walk(join(path, key, strconv.Itoa(i)), item, emit)
			}
		}
	}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func join(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
