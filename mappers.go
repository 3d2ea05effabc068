package fronius

import (
	"fmt"
	"html"
	"strconv"
)

// The mappers turn the Body.Data object of a reply into sensor entries. Absent keys are
// skipped.

func mapPowerFlow(data payload) SensorMap {
	sensor := SensorMap{}
	inverters, _ := data.object("Inverters")

	// Older integrations read the first inverter's battery without an index.
	if inverter, ok := inverters.object("1"); ok {
		if v, ok := inverter["Battery_Mode"]; ok {
			sensor["battery_mode"] = Value{Value: v}
		}
		if v, ok := inverter["SOC"]; ok {
			sensor["state_of_charge"] = Value{Value: v, Unit: unitPercent}
		}
	}
	for index, key := range inverters.keys() {
		inverter, ok := inverters.object(key)
		if !ok {
			continue
		}
		if v, ok := inverter["Battery_Mode"]; ok {
			sensor[fmt.Sprintf("battery_mode_%d", index)] = Value{Value: v}
		}
		if v, ok := inverter["SOC"]; ok {
			sensor[fmt.Sprintf("state_of_charge_%d", index)] = Value{Value: v, Unit: unitPercent}
		}
	}

	if site, ok := data.object("Site"); ok {
		applyFields(sensor, site, powerFlowSiteFields)
	}
	return sensor
}

func mapSystemMeter(data payload) SensorMap {
	meters := SensorMap{}
	for _, id := range data.keys() {
		if meter, ok := data.object(id); ok {
			meters[id] = mapMeter(meter)
		}
	}
	return SensorMap{"meters": meters}
}

var systemInverterTotals = []struct {
	name string
	key  string
	unit string
}{
	{"energy_day", "DAY_ENERGY", unitWattHour},
	{"energy_total", "TOTAL_ENERGY", unitWattHour},
	{"energy_year", "YEAR_ENERGY", unitWattHour},
	{"power_ac", "PAC", unitWatt},
}

func mapSystemInverter(data payload) SensorMap {
	sensor := SensorMap{}
	inverters := SensorMap{}
	for _, total := range systemInverterTotals {
		sum := 0.0
		unit := total.unit
		if reading, ok := data.object(total.key); ok {
			if u, ok := reading.str("Unit"); ok && u != "" {
				unit = u
			}
			values, _ := reading.object("Values")
			for _, id := range values.keys() {
				inverter, ok := inverters.Map(id)
				if !ok {
					inverter = SensorMap{}
					inverters[id] = inverter
				}
				inverter[total.name] = Value{Value: values[id], Unit: unit}
				if v, ok := values.number(id); ok {
					sum += v
				}
			}
		}
		sensor[total.name] = Value{Value: sum, Unit: unit}
	}
	sensor["inverters"] = inverters
	return sensor
}

func mapDeviceMeter(data payload) SensorMap {
	return mapMeter(data)
}

func mapMeter(data payload) SensorMap {
	meter := SensorMap{}
	applyFields(meter, data, meterFields)
	applyDetails(meter, data, detailFields)
	return meter
}

func mapDeviceInverter(data payload) SensorMap {
	sensor := SensorMap{}
	for _, f := range inverterValueFields {
		reading, ok := data.object(f.key)
		if !ok {
			continue
		}
		value := Value{Value: reading["Value"]}
		value.Unit, _ = reading.str("Unit")
		sensor[f.name] = value
	}
	if status, ok := data.object("DeviceStatus"); ok {
		applyFields(sensor, status, inverterStatusFields)
	}
	return sensor
}

func mapSystemStorage(data payload) SensorMap {
	storages := SensorMap{}
	for _, id := range data.keys() {
		if storage, ok := data.object(id); ok {
			storages[id] = mapDeviceStorage(storage)
		}
	}
	return SensorMap{"storages": storages}
}

func mapDeviceStorage(data payload) SensorMap {
	sensor := SensorMap{}
	if controller, ok := data.object("Controller"); ok {
		applyFields(sensor, controller, controllerFields)
		applyDetails(sensor, controller, detailFields)
	}
	if list, ok := data.list("Modules"); ok {
		modules := SensorMap{}
		for i, m := range list {
			raw, _ := asPayload(m)
			module := SensorMap{}
			applyFields(module, raw, moduleFields)
			applyDetails(module, raw, detailFields)
			modules[strconv.Itoa(i)] = module
		}
		sensor["modules"] = modules
	}
	return sensor
}

func mapSystemOhmpilot(data payload) SensorMap {
	ohmpilots := SensorMap{}
	for _, id := range data.keys() {
		device, ok := data.object(id)
		if !ok {
			continue
		}
		ohmpilot := SensorMap{}
		applyFields(ohmpilot, device, ohmpilotFields)
		if code, ok := device.number("CodeOfState"); ok {
			if msg, ok := ohmpilotStateCodes[int(code)]; ok {
				ohmpilot["state_message"] = Value{Value: msg}
			}
		}
		applyDetails(ohmpilot, device, ohmpilotDetailFields)
		ohmpilots[id] = ohmpilot
	}
	return SensorMap{"ohmpilots": ohmpilots}
}

func mapLED(data payload) SensorMap {
	sensor := SensorMap{}
	for key, name := range ledFields {
		led, ok := data.object(key)
		if !ok {
			continue
		}
		color, _ := led.str("Color")
		state, _ := led.str("State")
		sensor[name] = LED{Color: color, State: state}
	}
	return sensor
}

func mapLoggerInfo(data payload) SensorMap {
	sensor := SensorMap{}
	applyFields(sensor, data, loggerInfoFields)
	if unit, ok := data.str("CO2Unit"); ok {
		if v, ok := data["CO2Factor"]; ok {
			sensor["co2_factor"] = Value{Value: v, Unit: unit + unitPerKiloWattHr}
		}
	}
	if currency, ok := data.str("CashCurrency"); ok {
		if v, ok := data["CashFactor"]; ok {
			sensor["cash_factor"] = Value{Value: v, Unit: currency + unitPerKiloWattHr}
		}
		if v, ok := data["DeliveryFactor"]; ok {
			sensor["delivery_factor"] = Value{Value: v, Unit: currency + unitPerKiloWattHr}
		}
	}
	return sensor
}

var inverterInfoFields = []field{
	{"pv_power", unitWatt, []string{"PVPower"}},
	{"status_code", "", []string{"StatusCode"}},
	{"unique_id", "", []string{"UniqueID"}},
	{"error_code", "", []string{"ErrorCode"}},
	{"show", "", []string{"Show"}},
}

func mapInverterInfo(data payload) SensorMap {
	inverters := []SensorMap{}
	for _, id := range data.keys() {
		info, ok := data.object(id)
		if !ok {
			continue
		}
		inverter := SensorMap{"device_id": Value{Value: id}}
		if dt, ok := info["DT"]; ok {
			deviceType := DeviceType{Value: dt}
			if code, ok := info.number("DT"); ok {
				if m, ok := inverterDeviceTypes[int(code)]; ok {
					deviceType.Manufacturer = m.manufacturer
					deviceType.Model = m.model
				}
			}
			inverter["device_type"] = deviceType
		}
		applyFields(inverter, info, inverterInfoFields)
		// v0 firmware escapes custom names as HTML entities, v1 sends UTF-8
		if name, ok := info.str("CustomName"); ok {
			inverter["custom_name"] = Value{Value: html.UnescapeString(name)}
		}
		inverters = append(inverters, inverter)
	}
	return SensorMap{"inverters": inverters}
}

var activeDeviceClasses = []struct {
	key      string
	name     string
	withType bool
}{
	{"Inverter", "inverters", true},
	{"Meter", "meters", false},
	{"Ohmpilot", "ohmpilots", false},
	{"SensorCard", "sensor_cards", true},
	{"Storage", "storages", false},
	{"StringControl", "string_controls", true},
}

func mapActiveDeviceInfo(data payload) SensorMap {
	sensor := SensorMap{}
	for _, class := range activeDeviceClasses {
		devices, ok := data.object(class.key)
		if !ok {
			continue
		}
		list := []SensorMap{}
		for _, id := range devices.keys() {
			device, _ := devices.object(id)
			entry := SensorMap{"device_id": id}
			if dt, ok := device["DT"]; ok && class.withType {
				entry["device_type"] = dt
			}
			if serial, ok := device["Serial"]; ok {
				entry["serial_number"] = serial
			}
			if names, ok := device["ChannelNames"]; ok {
				entry["channel_names"] = names
			}
			list = append(list, entry)
		}
		sensor[class.name] = list
	}
	return sensor
}
