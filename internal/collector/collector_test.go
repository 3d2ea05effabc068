package collector_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loafoe/go-fronius"
	"github.com/loafoe/go-fronius/internal/collector"
)

const head = `"Head": {"Timestamp": "2019-01-10T23:33:12+01:00", "Status": {"Code": %s, "Reason": "%s", "UserMessage": ""}}`

func envelope(code, reason, data string) string {
	return `{` + strings.Replace(strings.Replace(head, "%s", code, 1), "%s", reason, 1) + `, "Body": {"Data": ` + data + `}}`
}

func setup(t *testing.T) (*httptest.Server, func()) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	mux.HandleFunc("/solar_api/GetAPIVersion.cgi", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"APIVersion": 1, "BaseURL": "/solar_api/v1/"}`))
	})
	mux.HandleFunc("/solar_api/v1/GetPowerFlowRealtimeData.fcgi", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope("0", "", `{"Site": {"P_Grid": 367.72, "Meter_Location": "load"}, "Inverters": {}}`)))
	})
	mux.HandleFunc("/solar_api/v1/GetStorageRealtimeData.cgi", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope("255", "Storages are not supported", `{}`)))
	})
	mux.HandleFunc("/solar_api/v1/GetInverterRealtimeData.cgi", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope("0", "", `{"PAC": {"Unit": "W", "Values": {"1": 100, "2": 50}}}`)))
	})
	return server, server.Close
}

func options() fronius.FetchOptions {
	return fronius.FetchOptions{
		PowerFlow:      true,
		SystemMeter:    true,
		SystemInverter: true,
		DeviceStorage:  []int{0},
	}
}

func TestCollect(t *testing.T) {
	server, teardown := setup(t)
	defer teardown()

	c, err := collector.New(server.URL, options(), time.Second, nil)
	require.NoError(t, err)

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(c))

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := []string{family.GetName()}
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			key := strings.Join(labels, ",")
			switch {
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, values["fronius_scrape_success"])
	assert.Equal(t, 1.0, values["fronius_api_version"])
	assert.Equal(t, 367.72, values["fronius_sensor_value,category=power_flow,device=,path=,sensor=power_grid,unit=W"])
	assert.Equal(t, 150.0, values["fronius_sensor_value,category=system_inverter,device=,path=,sensor=power_ac,unit=W"])
	assert.Equal(t, 50.0, values["fronius_sensor_value,category=system_inverter,device=,path=inverters/2,sensor=power_ac,unit=W"])
	assert.Equal(t, 0.0, values["fronius_status_code,category=power_flow,device="])
	assert.Equal(t, 255.0, values["fronius_status_code,category=storage,device=0"])
	assert.Equal(t, 1.0, values["fronius_request_failures_total,endpoint=storage,kind=bad_status"])
	assert.Equal(t, 1.0, values["fronius_request_failures_total,endpoint=system_meter,kind=not_supported"])
}

func TestCollectUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := collector.New(url, options(), time.Second, nil, fronius.WithAPIVersion(fronius.APIVersionV1))
	require.NoError(t, err)

	expected := `
# HELP fronius_scrape_success Whether the device could be reached
# TYPE fronius_scrape_success gauge
fronius_scrape_success 0
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "fronius_scrape_success"))
}

func TestDescribe(t *testing.T) {
	c, err := collector.New("http://192.168.0.10", options(), time.Second, nil)
	require.NoError(t, err)

	descCh := make(chan *prometheus.Desc, 20)
	go func() {
		c.Describe(descCh)
		close(descCh)
	}()

	count := 0
	for range descCh {
		count++
	}
	assert.Equal(t, 6, count)
}
