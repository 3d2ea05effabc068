package fronius

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

type Client struct {
	mu sync.Mutex

	url          string
	apiVersion   APIVersion
	basePath     string
	probe        singleflight.Group
	transport    Transport
	logger       *slog.Logger
	notification Notification
}

// NewClient returns a client for the device at url, e.g. http://192.168.0.10. Plain hosts
// are reached over http, the only protocol the device offers.
func NewClient(url string, opts ...OptionFunc) (*Client, error) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return nil, fmt.Errorf("invalid or missing device url")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	client := &Client{
		url:          url,
		apiVersion:   APIVersionAuto,
		transport:    &HTTPTransport{},
		logger:       slog.Default(),
		notification: NilNotification,
	}
	for _, o := range opts {
		if err := o(client); err != nil {
			return nil, err
		}
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.notification == nil {
		client.notification = NilNotification
	}
	return client, nil
}

func (c *Client) URL() string {
	return c.url
}

// APIVersion returns the API version in use, APIVersionAuto until it is resolved.
func (c *Client) APIVersion() APIVersion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.basePath == "" {
		return APIVersionAuto
	}
	return c.apiVersion
}

func (c *Client) fetchSolarAPI(ctx context.Context, endpoint Endpoint, args ...any) (any, error) {
	version, base, err := c.resolveAPIVersion(ctx)
	if err != nil {
		return nil, err
	}
	path, ok := urlFor(endpoint, version, args...)
	if !ok {
		return nil, &Error{
			Kind:     KindNotSupported,
			Endpoint: endpoint.String(),
			Err:      fmt.Errorf("API version %s does not support request of %s data", version, endpoint),
		}
	}
	url := c.url + base + path
	c.logger.Debug("get data", slog.String("endpoint", endpoint.String()), slog.String("url", url))
	return c.transport.GetJSON(ctx, url)
}

func (c *Client) currentData(ctx context.Context, endpoint Endpoint, mapper func(payload) SensorMap, args ...any) (SensorMap, error) {
	res, err := c.fetchSolarAPI(ctx, endpoint, args...)
	if err != nil {
		if KindOf(err) == KindInvalidReply {
			// the device answers endpoints it does not know with a 404 page
			return nil, &Error{Kind: KindNotSupported, Endpoint: endpoint.String(), Err: err}
		}
		return nil, err
	}

	sensor, err := validateEnvelope(endpoint.String(), res)
	if err != nil {
		return nil, err
	}
	data, err := bodyData(endpoint.String(), res)
	if err != nil {
		return nil, err
	}
	for k, v := range mapper(data) {
		sensor[k] = v
	}
	return sensor, nil
}

// CurrentPowerFlow returns the power flow of the whole site.
func (c *Client) CurrentPowerFlow(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointPowerFlow, mapPowerFlow)
}

// CurrentSystemMeterData returns the readings of all meters, keyed by meter id under "meters".
func (c *Client) CurrentSystemMeterData(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointSystemMeter, mapSystemMeter)
}

// CurrentSystemInverterData returns energy and power summed over all inverters, with
// the readings of each inverter under "inverters".
func (c *Client) CurrentSystemInverterData(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointSystemInverter, mapSystemInverter)
}

func (c *Client) CurrentSystemOhmpilotData(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointSystemOhmpilot, mapSystemOhmpilot)
}

func (c *Client) CurrentSystemStorageData(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointSystemStorage, mapSystemStorage)
}

// CurrentLEDData returns color and state of the logger LEDs.
func (c *Client) CurrentLEDData(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointSystemLED, mapLED)
}

func (c *Client) CurrentMeterData(ctx context.Context, device int) (SensorMap, error) {
	return c.currentData(ctx, EndpointDeviceMeter, mapDeviceMeter, device)
}

// CurrentStorageData returns the battery data of a storage device.
func (c *Client) CurrentStorageData(ctx context.Context, device int) (SensorMap, error) {
	return c.currentData(ctx, EndpointDeviceStorage, mapDeviceStorage, device)
}

func (c *Client) CurrentInverterData(ctx context.Context, device int) (SensorMap, error) {
	return c.currentData(ctx, EndpointDeviceInverterCommon, mapDeviceInverter, device)
}

func (c *Client) CurrentInverterCumulativeData(ctx context.Context, device int) (SensorMap, error) {
	return c.currentData(ctx, EndpointDeviceInverterCumulative, mapDeviceInverter, device)
}

// CurrentActiveDeviceInfo lists the devices the logger currently sees.
func (c *Client) CurrentActiveDeviceInfo(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointActiveDeviceInfo, mapActiveDeviceInfo)
}

func (c *Client) InverterInfo(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointInverterInfo, mapInverterInfo)
}

func (c *Client) CurrentLoggerInfo(ctx context.Context) (SensorMap, error) {
	return c.currentData(ctx, EndpointLoggerInfo, mapLoggerInfo)
}
