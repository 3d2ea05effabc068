package fronius

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// FetchOptions selects the requests of a Fetch. Device slices hold device indices.
type FetchOptions struct {
	ActiveDeviceInfo bool
	InverterInfo     bool
	LoggerInfo       bool
	PowerFlow        bool
	SystemMeter      bool
	SystemInverter   bool
	SystemOhmpilot   bool
	SystemStorage    bool
	DeviceMeter      []int
	DeviceStorage    []int
	DeviceInverter   []int
}

func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		ActiveDeviceInfo: true,
		InverterInfo:     true,
		LoggerInfo:       true,
		PowerFlow:        true,
		SystemMeter:      true,
		SystemInverter:   true,
		SystemOhmpilot:   true,
		SystemStorage:    true,
		DeviceMeter:      []int{0},
		DeviceStorage:    []int{0},
		DeviceInverter:   []int{1},
	}
}

// WithActiveDevices replaces the device indices with the devices listed in info, a result
// of CurrentActiveDeviceInfo. Device classes missing from info are left as they are.
func (o FetchOptions) WithActiveDevices(info SensorMap) FetchOptions {
	if ids, ok := deviceIDs(info, "meters"); ok {
		o.DeviceMeter = ids
	}
	if ids, ok := deviceIDs(info, "storages"); ok {
		o.DeviceStorage = ids
	}
	if ids, ok := deviceIDs(info, "inverters"); ok {
		o.DeviceInverter = ids
	}
	return o
}

func deviceIDs(info SensorMap, class string) ([]int, bool) {
	devices, ok := info.List(class)
	if !ok {
		return nil, false
	}
	ids := make([]int, 0, len(devices))
	for _, device := range devices {
		id, ok := device["device_id"].(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	return ids, true
}

type request struct {
	endpoint Endpoint
	device   int
}

// requests lists the requests of opts in result order.
func (o FetchOptions) requests() []request {
	var reqs []request
	system := []struct {
		enabled  bool
		endpoint Endpoint
	}{
		{o.ActiveDeviceInfo, EndpointActiveDeviceInfo},
		{o.InverterInfo, EndpointInverterInfo},
		{o.LoggerInfo, EndpointLoggerInfo},
		{o.PowerFlow, EndpointPowerFlow},
		{o.SystemMeter, EndpointSystemMeter},
		{o.SystemInverter, EndpointSystemInverter},
		{o.SystemOhmpilot, EndpointSystemOhmpilot},
		{o.SystemStorage, EndpointSystemStorage},
	}
	for _, s := range system {
		if s.enabled {
			reqs = append(reqs, request{endpoint: s.endpoint, device: -1})
		}
	}
	devices := []struct {
		indices  []int
		endpoint Endpoint
	}{
		{o.DeviceMeter, EndpointDeviceMeter},
		{o.DeviceStorage, EndpointDeviceStorage},
		{o.DeviceInverter, EndpointDeviceInverterCommon},
	}
	for _, d := range devices {
		seen := map[int]bool{}
		for _, i := range d.indices {
			if seen[i] {
				continue
			}
			seen[i] = true
			reqs = append(reqs, request{endpoint: d.endpoint, device: i})
		}
	}
	return reqs
}

func (c *Client) do(ctx context.Context, r request) (SensorMap, error) {
	switch r.endpoint {
	case EndpointActiveDeviceInfo:
		return c.CurrentActiveDeviceInfo(ctx)
	case EndpointInverterInfo:
		return c.InverterInfo(ctx)
	case EndpointLoggerInfo:
		return c.CurrentLoggerInfo(ctx)
	case EndpointPowerFlow:
		return c.CurrentPowerFlow(ctx)
	case EndpointSystemMeter:
		return c.CurrentSystemMeterData(ctx)
	case EndpointSystemInverter:
		return c.CurrentSystemInverterData(ctx)
	case EndpointSystemOhmpilot:
		return c.CurrentSystemOhmpilotData(ctx)
	case EndpointSystemStorage:
		return c.CurrentSystemStorageData(ctx)
	case EndpointSystemLED:
		return c.CurrentLEDData(ctx)
	case EndpointDeviceMeter:
		return c.CurrentMeterData(ctx, r.device)
	case EndpointDeviceStorage:
		return c.CurrentStorageData(ctx, r.device)
	case EndpointDeviceInverterCommon:
		return c.CurrentInverterData(ctx, r.device)
	case EndpointDeviceInverterCumulative:
		return c.CurrentInverterCumulativeData(ctx, r.device)
	}
	return nil, &Error{Kind: KindNotSupported, Endpoint: r.endpoint.String()}
}

// Fetch runs the requests selected by opts concurrently and returns their sensor maps in
// request order. Endpoints the device does not support are left out, endpoints answering
// with a bad status contribute their header fields. An unreachable device fails the whole
// call.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) ([]SensorMap, error) {
	results, err := c.FetchDetailed(ctx, opts)
	if err != nil {
		return nil, err
	}
	maps := make([]SensorMap, 0, len(results))
	for _, r := range results {
		maps = append(maps, r.Data)
	}
	return maps, nil
}

// FetchDetailed is Fetch with the endpoint and device of each sensor map. The first
// transport failure is returned at once; requests still running are left to finish.
func (c *Client) FetchDetailed(ctx context.Context, opts FetchOptions) ([]Result, error) {
	reqs := opts.requests()
	results := make([]*Result, len(reqs))

	var g errgroup.Group
	fatal := make(chan error, 1)
	for i, r := range reqs {
		g.Go(func() error {
			data, err := c.do(ctx, r)
			if err == nil {
				results[i] = &Result{Endpoint: r.endpoint, Device: r.device, Data: data}
				return nil
			}

			attrs := []any{slog.String("endpoint", r.endpoint.String()), slog.Any("error", err)}
			if r.device >= 0 {
				attrs = append(attrs, slog.Int("device", r.device))
			}
			switch KindOf(err) {
			case KindNotSupported, KindInvalidReply:
				c.logger.Debug("skipping request", attrs...)
				c.notification.RequestFailed(r.endpoint, err)
				return nil
			case KindBadStatus:
				var badStatus *Error
				errors.As(err, &badStatus)
				c.logger.Debug("device reported bad status", attrs...)
				c.notification.RequestFailed(r.endpoint, err)
				results[i] = &Result{Endpoint: r.endpoint, Device: r.device, Data: badStatus.Response.Clone()}
				return nil
			}
			select {
			case fatal <- err:
			default:
			}
			return err
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()
	select {
	case err := <-fatal:
		return nil, err
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}
