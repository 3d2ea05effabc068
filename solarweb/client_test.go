package solarweb_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loafoe/go-fronius/solarweb"
)

const (
	accessKeyID    = "FKIAFEF58CFEFA94486F9C804CF6077A01AB"
	accessKeyValue = "47c076bc-23e5-4949-37a6-4bcfcf8d21d6"
	pvSystemID     = "20bb600e-019b-4e03-9df3-a0a900cda689"
)

const pvSystemJSON = `{
	"pvSystemId": "20bb600e-019b-4e03-9df3-a0a900cda689",
	"name": "Fronius Symo",
	"address": {"country": "AT", "zipCode": "4600", "street": "Froniusplatz 1", "city": "Wels", "state": null},
	"pictureURL": "https://www.solarweb.com/pv.jpg",
	"peakPower": 9800.0,
	"installationDate": "2019-07-23T00:00:00Z",
	"lastImport": "2023-03-01T10:55:01Z",
	"meteoData": "pro",
	"timezone": "Europe/Vienna"
}`

const devicesJSON = `{"devices": [
	{
		"deviceType": "Inverter",
		"deviceId": "9e1cd7b5-6d2c-4b17-9e8b-a0a900cda68c",
		"deviceName": "Symo 10.0-3-M",
		"deviceManufacturer": "Fronius",
		"serialnumber": "28136344",
		"dataloggerId": "240.123456",
		"numberMPPTrackers": 2,
		"numberPhases": 3,
		"peakPower": {"dc1": 4900, "dc2": 4900},
		"nominalAcPower": 10000,
		"firmware": {"updateAvailable": false, "installedVersion": "3.18.7-1", "availableVersion": null},
		"isActive": true,
		"activationDate": "2019-07-23T00:00:00Z"
	},
	{
		"deviceType": "Battery",
		"deviceId": "1b7ee2d9-8e50-4a4c-9d94-a0a900cda68d",
		"deviceName": "BYD Battery-Box HV",
		"deviceManufacturer": "BYD",
		"dataloggerId": "240.123456",
		"capacity": 11520,
		"isActive": true,
		"activationDate": "2019-07-23T00:00:00Z"
	}
]}`

const flowDataJSON = `{
	"pvSystemId": "20bb600e-019b-4e03-9df3-a0a900cda689",
	"status": {"isOnline": true, "battMode": "1.0"},
	"data": {
		"logDateTime": "2023-03-01T11:00:00Z",
		"channels": [
			{"channelName": "PowerPV", "channelType": "Power", "unit": "W", "value": 3215.5},
			{"channelName": "PowerFeedIn", "channelType": "Power", "unit": "W", "value": -1200}
		]
	}
}`

var (
	mux    *http.ServeMux
	server *httptest.Server
	calls  atomic.Int32
)

func setup(t *testing.T, opts ...solarweb.OptionFunc) (*solarweb.Client, func()) {
	calls.Store(0)
	mux = http.NewServeMux()
	server = httptest.NewServer(mux)

	opts = append([]solarweb.OptionFunc{
		solarweb.WithBaseURL(server.URL),
		solarweb.WithRetry(solarweb.MaxAttempts-1, time.Millisecond, 5*time.Millisecond),
	}, opts...)
	client, err := solarweb.NewClient(accessKeyID, accessKeyValue, pvSystemID, opts...)
	require.NoError(t, err)
	return client, server.Close
}

// handle serves the given status/body pairs in turn, repeating the last one.
func handle(t *testing.T, path string, replies ...string) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("AccessKeyId") != accessKeyID || r.Header.Get("AccessKeyValue") != accessKeyValue {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		reply := replies[min(n, len(replies))-1]
		var status int
		var body string
		_, err := fmt.Sscanf(reply, "%d", &status)
		require.NoError(t, err)
		if len(reply) > 4 {
			body = reply[4:]
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func reply(status int, body string) string {
	return fmt.Sprintf("%d %s", status, body)
}

func TestGetPvSystemMetaData(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusOK, pvSystemJSON))

	data, err := client.GetPvSystemMetaData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pvSystemID, data.PvSystemID)
	assert.Equal(t, "Fronius Symo", data.Name)
	assert.Equal(t, 9800.0, *data.PeakPower)
	assert.Equal(t, "Wels", *data.Address.City)
	assert.Nil(t, data.Address.State)
	assert.Equal(t, time.Date(2023, 3, 1, 10, 55, 1, 0, time.UTC), data.LastImport)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetDevicesMetaData(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID+"/devices", reply(http.StatusOK, devicesJSON))

	devices, err := client.GetDevicesMetaData(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Inverter", devices[0].DeviceType)
	assert.Equal(t, 3, *devices[0].NumberPhases)
	assert.Equal(t, "3.18.7-1", *devices[0].Firmware.InstalledVersion)
	assert.Nil(t, devices[0].Firmware.AvailableVersion)
	assert.Equal(t, 11520.0, *devices[1].Capacity)
	assert.True(t, *devices[1].IsActive)
}

func TestGetSystemFlowData(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID+"/flowdata", reply(http.StatusOK, flowDataJSON))

	flow, err := client.GetSystemFlowData(context.Background())
	require.NoError(t, err)
	assert.True(t, *flow.Status.IsOnline)
	pv, ok := flow.Channel("PowerPV")
	require.True(t, ok)
	assert.Equal(t, 3215.5, pv.Value)
	assert.Equal(t, "W", pv.Unit)
	_, ok = flow.Channel("PowerLoad")
	assert.False(t, ok)
}

func TestRetryThenSuccess(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID,
		reply(http.StatusServiceUnavailable, ""),
		reply(http.StatusBadGateway, ""),
		reply(http.StatusOK, pvSystemJSON))

	data, err := client.GetPvSystemMetaData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fronius Symo", data.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusInternalServerError, `{"responseError": "500", "responseMessage": "internal error"}`))

	_, err := client.GetPvSystemMetaData(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, solarweb.ErrRetriesExhausted))
	assert.Equal(t, int32(solarweb.MaxAttempts), calls.Load())

	var swErr *solarweb.Error
	require.True(t, errors.As(err, &swErr))
	assert.Equal(t, http.StatusInternalServerError, swErr.StatusCode)
	assert.Equal(t, "internal error", swErr.API.ResponseMessage)
}

func TestRetryDisabled(t *testing.T) {
	client, teardown := setup(t, solarweb.WithRetry(0, 0, 0))
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusServiceUnavailable, ""))

	_, err := client.GetPvSystemMetaData(context.Background())
	assert.Equal(t, solarweb.KindRetriesExhausted, solarweb.KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotAuthorized(t *testing.T) {
	mux = http.NewServeMux()
	server = httptest.NewServer(mux)
	defer server.Close()
	calls.Store(0)
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusOK, pvSystemJSON))

	client, err := solarweb.NewClient(accessKeyID, "wrong", pvSystemID,
		solarweb.WithBaseURL(server.URL),
		solarweb.WithRetry(4, time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)

	_, err = client.GetPvSystemMetaData(context.Background())
	assert.True(t, errors.Is(err, solarweb.ErrNotAuthorized))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotFound(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()

	_, err := client.GetDevicesMetaData(context.Background())
	assert.True(t, errors.Is(err, solarweb.ErrNotFound))
	assert.False(t, errors.Is(err, solarweb.ErrRetriesExhausted))
}

func TestSchemaInvalid(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusOK, `{"pvSystemId": "x", "address": {}, "peakPower": 1}`))

	_, err := client.GetPvSystemMetaData(context.Background())
	assert.True(t, errors.Is(err, solarweb.ErrSchemaInvalid))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSchemaInvalidNested(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID+"/flowdata", reply(http.StatusOK,
		`{"pvSystemId": "x", "data": {"logDateTime": "2023-03-01T11:00:00Z", "channels": [{"channelType": "Power"}]}}`))

	_, err := client.GetSystemFlowData(context.Background())
	assert.Equal(t, solarweb.KindSchemaInvalid, solarweb.KindOf(err))
}

func TestInvalidReply(t *testing.T) {
	client, teardown := setup(t)
	defer teardown()
	handle(t, "/pvsystems/"+pvSystemID, reply(http.StatusOK, `<html></html>`))

	_, err := client.GetPvSystemMetaData(context.Background())
	assert.True(t, errors.Is(err, solarweb.ErrInvalidReply))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClient(t *testing.T) {
	_, err := solarweb.NewClient("", accessKeyValue, pvSystemID)
	assert.NotNil(t, err)
	_, err = solarweb.NewClient(accessKeyID, accessKeyValue, "")
	assert.NotNil(t, err)
	_, err = solarweb.NewClient(accessKeyID, accessKeyValue, pvSystemID, solarweb.WithRetry(-1, 0, 0))
	assert.NotNil(t, err)
	_, err = solarweb.NewClient(accessKeyID, accessKeyValue, pvSystemID, solarweb.WithRetry(1, time.Minute, time.Second))
	assert.NotNil(t, err)

	client, err := solarweb.NewClient(accessKeyID, accessKeyValue, pvSystemID)
	require.NoError(t, err)
	assert.Equal(t, pvSystemID, client.PvSystemID())
}

type claims struct {
	Iss string `json:"iss"`
	Exp int64  `json:"exp"`
	Iat int64  `json:"iat"`
}

func token(exp time.Time) string {
	data, _ := json.Marshal(claims{Iss: "solarweb", Exp: exp.Unix(), Iat: time.Now().Unix()})
	return fmt.Sprintf("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.%s.SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c",
		base64.RawURLEncoding.EncodeToString(data))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	expires, err := solarweb.TokenExpiry(token(exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(expires))

	_, err = solarweb.TokenExpiry("not-a-token")
	assert.NotNil(t, err)
}

func TestWithJWT(t *testing.T) {
	valid := token(time.Now().Add(time.Hour))
	client, teardown := setup(t, solarweb.WithJWT(valid))
	defer teardown()
	mux.HandleFunc("/pvsystems/"+pvSystemID, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(pvSystemJSON))
	})

	_, err := client.GetPvSystemMetaData(context.Background())
	assert.NoError(t, err)

	_, err = solarweb.NewClient(accessKeyID, accessKeyValue, pvSystemID, solarweb.WithJWT(token(time.Now().Add(-time.Hour))))
	assert.NotNil(t, err)
}
