package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loafoe/go-fronius"
)

func TestRender(t *testing.T) {
	data := fronius.SensorMap{"power_grid": fronius.Value{Value: 367.72, Unit: "W"}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", data))
	assert.JSONEq(t, `{"power_grid": {"value": 367.72, "unit": "W"}}`, buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, "yaml", data))
	assert.Equal(t, "power_grid:\n  value: 367.72\n  unit: W\n", buf.String())

	assert.Error(t, render(&buf, "xml", data))
}

func TestRecords(t *testing.T) {
	recs := records([]fronius.Result{
		{Endpoint: fronius.EndpointPowerFlow, Device: -1, Data: fronius.SensorMap{}},
		{Endpoint: fronius.EndpointDeviceStorage, Device: 0, Data: fronius.SensorMap{}},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, "power flow", recs[0].Endpoint)
	assert.Nil(t, recs[0].Device)
	require.NotNil(t, recs[1].Device)
	assert.Equal(t, 0, *recs[1].Device)
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().IntSliceVar(&fetchMeters, "meter", nil, "")
	cmd.Flags().IntSliceVar(&fetchStorages, "storage", nil, "")
	cmd.Flags().IntSliceVar(&fetchInverters, "inverter", nil, "")
	cmd.Flags().StringSliceVar(&fetchSkip, "skip", nil, "")
	return cmd
}

func TestFetchOptions(t *testing.T) {
	cmd := newFetchCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--inverter", "1,2", "--skip", "system_ohmpilot,logger_info"}))

	opts, err := fetchOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, opts.DeviceInverter)
	assert.Equal(t, []int{0}, opts.DeviceMeter)
	assert.False(t, opts.SystemOhmpilot)
	assert.False(t, opts.LoggerInfo)
	assert.True(t, opts.PowerFlow)

	cmd = newFetchCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--skip", "weather"}))
	_, err = fetchOptions(cmd)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	router := newRouter(prometheus.NewRegistry(), "http://192.168.0.10")

	for path, want := range map[string]string{
		"/health": "OK",
		"/":       "http://192.168.0.10",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
