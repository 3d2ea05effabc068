package fronius

import (
	"github.com/mohae/deepcopy"
)

const (
	unitWatt          = "W"
	unitWattHour      = "Wh"
	unitVolt          = "V"
	unitAmpere        = "A"
	unitAmpereHour    = "Ah"
	unitPercent       = "%"
	unitHertz         = "Hz"
	unitCelsius       = "°C"
	unitVoltAmpere    = "VA"
	unitVAr           = "VAr"
	unitVArHour       = "VArh"
	unitPerKiloWattHr = "/kWh"
)

// SensorMap is the normalized output of a single request. Entries are one of
// Value, Status, LED, DeviceType, a nested SensorMap or a []SensorMap.
type SensorMap map[string]any

// Value is a reading with an optional unit.
type Value struct {
	Value any    `json:"value" yaml:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Status is the header status the device reported.
type Status struct {
	Code        int    `json:"Code" yaml:"Code"`
	Reason      string `json:"Reason" yaml:"Reason"`
	UserMessage string `json:"UserMessage" yaml:"UserMessage"`
}

type LED struct {
	Color string `json:"color" yaml:"color"`
	State string `json:"state" yaml:"state"`
}

// DeviceType is an inverter type code, with manufacturer and model when the code is known.
type DeviceType struct {
	Value        any    `json:"value" yaml:"value"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`
}

func (s SensorMap) Value(key string) (Value, bool) {
	v, ok := s[key].(Value)
	return v, ok
}

func (s SensorMap) Map(key string) (SensorMap, bool) {
	v, ok := s[key].(SensorMap)
	return v, ok
}

func (s SensorMap) List(key string) ([]SensorMap, bool) {
	v, ok := s[key].([]SensorMap)
	return v, ok
}

func (s SensorMap) Status() (Status, bool) {
	v, ok := s["status"].(Status)
	return v, ok
}

// Clone returns a deep copy of the map.
func (s SensorMap) Clone() SensorMap {
	if s == nil {
		return nil
	}
	return deepcopy.Copy(s).(SensorMap)
}

// Result pairs a sensor map with the request that produced it.
type Result struct {
	Endpoint Endpoint
	// Device is the device index for per-device endpoints, -1 otherwise.
	Device int
	Data   SensorMap
}
