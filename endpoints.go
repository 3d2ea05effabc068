package fronius

import (
	"fmt"
)

type Endpoint int

const (
	EndpointPowerFlow Endpoint = iota
	EndpointSystemMeter
	EndpointSystemInverter
	EndpointSystemLED
	EndpointSystemOhmpilot
	EndpointSystemStorage
	EndpointDeviceMeter
	EndpointDeviceStorage
	EndpointDeviceInverterCommon
	EndpointDeviceInverterCumulative
	EndpointActiveDeviceInfo
	EndpointInverterInfo
	EndpointLoggerInfo
)

const apiVersionPath = "/solar_api/GetAPIVersion.cgi"

var basePaths = map[APIVersion]string{
	APIVersionV0: "/solar_api/",
	APIVersionV1: "/solar_api/v1/",
}

type endpointPaths struct {
	name string
	v0   string
	v1   string
}

var endpoints = map[Endpoint]endpointPaths{
	EndpointPowerFlow: {
		name: "power flow",
		v1:   "GetPowerFlowRealtimeData.fcgi",
	},
	EndpointSystemMeter: {
		name: "system meter",
		v1:   "GetMeterRealtimeData.cgi?Scope=System",
	},
	EndpointSystemInverter: {
		name: "system inverter",
		v0:   "GetInverterRealtimeData.cgi?Scope=System",
		v1:   "GetInverterRealtimeData.cgi?Scope=System",
	},
	EndpointSystemLED: {
		name: "system led",
		v1:   "GetLoggerLEDInfo.cgi",
	},
	EndpointSystemOhmpilot: {
		name: "system ohmpilot",
		v1:   "GetOhmPilotRealtimeData.cgi?Scope=System",
	},
	EndpointSystemStorage: {
		name: "system storage",
		v1:   "GetStorageRealtimeData.cgi?Scope=System",
	},
	EndpointDeviceMeter: {
		name: "meter",
		v1:   "GetMeterRealtimeData.cgi?Scope=Device&DeviceId=%d",
	},
	EndpointDeviceStorage: {
		name: "storage",
		v1:   "GetStorageRealtimeData.cgi?Scope=Device&DeviceId=%d",
	},
	EndpointDeviceInverterCommon: {
		name: "inverter",
		v0:   "GetInverterRealtimeData.cgi?Scope=Device&DeviceIndex=%d&DataCollection=CommonInverterData",
		v1:   "GetInverterRealtimeData.cgi?Scope=Device&DeviceId=%d&DataCollection=CommonInverterData",
	},
	EndpointDeviceInverterCumulative: {
		name: "inverter cumulative",
		v0:   "GetInverterRealtimeData.cgi?Scope=Device&DeviceIndex=%d&DataCollection=CumulationInverterData",
		v1:   "GetInverterRealtimeData.cgi?Scope=Device&DeviceId=%d&DataCollection=CumulationInverterData",
	},
	EndpointActiveDeviceInfo: {
		name: "active device info",
		v1:   "GetActiveDeviceInfo.cgi?DeviceClass=System",
	},
	EndpointInverterInfo: {
		name: "inverter info",
		v0:   "GetInverterInfo.cgi",
		v1:   "GetInverterInfo.cgi",
	},
	EndpointLoggerInfo: {
		name: "logger info",
		v0:   "GetLoggerInfo.cgi",
		v1:   "GetLoggerInfo.cgi",
	},
}

func (e Endpoint) String() string {
	if p, ok := endpoints[e]; ok {
		return p.name
	}
	return fmt.Sprintf("endpoint(%d)", int(e))
}

// urlFor returns the path of endpoint relative to the base path of version. The second
// return value is false if version has no such endpoint.
func urlFor(endpoint Endpoint, version APIVersion, args ...any) (string, bool) {
	p, ok := endpoints[endpoint]
	if !ok {
		return "", false
	}
	var path string
	switch version {
	case APIVersionV0:
		path = p.v0
	case APIVersionV1:
		path = p.v1
	}
	if path == "" {
		return "", false
	}
	if len(args) > 0 {
		path = fmt.Sprintf(path, args...)
	}
	return path, true
}
