package fronius

// field maps vendor keys onto one canonical name. Keys are checked in order and a later
// key that is present overrides an earlier one.
type field struct {
	name string
	unit string
	keys []string
}

func (f field) apply(dst SensorMap, src payload) {
	for _, key := range f.keys {
		v, ok := src[key]
		if !ok {
			continue
		}
		dst[f.name] = Value{Value: v, Unit: f.unit}
	}
}

func applyFields(dst SensorMap, src payload, fields []field) {
	for _, f := range fields {
		f.apply(dst, src)
	}
}

var detailFields = map[string]string{
	"Manufacturer": "manufacturer",
	"Model":        "model",
	"Serial":       "serial",
}

var ohmpilotDetailFields = map[string]string{
	"Hardware":     "hardware",
	"Manufacturer": "manufacturer",
	"Model":        "model",
	"Serial":       "serial",
	"Software":     "software",
}

// applyDetails copies the entries of a Details object.
func applyDetails(dst SensorMap, src payload, names map[string]string) {
	details, ok := src.object("Details")
	if !ok {
		return
	}
	for key, name := range names {
		if v, ok := details[key]; ok {
			dst[name] = Value{Value: v}
		}
	}
}

var powerFlowSiteFields = []field{
	{"battery_standby", "", []string{"BatteryStandby"}},
	{"energy_day", unitWattHour, []string{"E_Day"}},
	{"energy_total", unitWattHour, []string{"E_Total"}},
	{"energy_year", unitWattHour, []string{"E_Year"}},
	{"meter_location", "", []string{"Meter_Location"}},
	{"meter_mode", "", []string{"Mode"}},
	{"power_battery", unitWatt, []string{"P_Akku"}},
	{"power_grid", unitWatt, []string{"P_Grid"}},
	{"power_load", unitWatt, []string{"P_Load"}},
	{"power_photovoltaics", unitWatt, []string{"P_PV"}},
	{"relative_autonomy", unitPercent, []string{"rel_Autonomy"}},
	{"relative_self_consumption", unitPercent, []string{"rel_SelfConsumption"}},
}

// meterFields covers the classic Datamanager names and the names of Gen24 firmware.
var meterFields = []field{
	{"current_ac_phase_1", unitAmpere, []string{"Current_AC_Phase_1", "SMARTMETER_CURRENT_01_F64", "ACBRIDGE_CURRENT_ACTIVE_MEAN_01_F64"}},
	{"current_ac_phase_2", unitAmpere, []string{"Current_AC_Phase_2", "SMARTMETER_CURRENT_02_F64", "ACBRIDGE_CURRENT_ACTIVE_MEAN_02_F64"}},
	{"current_ac_phase_3", unitAmpere, []string{"Current_AC_Phase_3", "SMARTMETER_CURRENT_03_F64", "ACBRIDGE_CURRENT_ACTIVE_MEAN_03_F64"}},
	{"current_ac", unitAmpere, []string{"Current_AC_Sum", "SMARTMETER_CURRENT_AC_SUM_NOW_F64"}},
	{"energy_reactive_ac_consumed", unitVArHour, []string{"EnergyReactive_VArAC_Sum_Consumed", "SMARTMETER_ENERGYREACTIVE_CONSUMED_SUM_F64"}},
	{"energy_reactive_ac_produced", unitVArHour, []string{"EnergyReactive_VArAC_Sum_Produced", "SMARTMETER_ENERGYREACTIVE_PRODUCED_SUM_F64"}},
	{"energy_real_ac_minus", unitWattHour, []string{"EnergyReal_WAC_Minus_Absolute", "SMARTMETER_ENERGYACTIVE_ABSOLUT_MINUS_F64"}},
	{"energy_real_ac_plus", unitWattHour, []string{"EnergyReal_WAC_Plus_Absolute", "SMARTMETER_ENERGYACTIVE_ABSOLUT_PLUS_F64"}},
	{"energy_real_consumed", unitWattHour, []string{"EnergyReal_WAC_Sum_Consumed", "SMARTMETER_ENERGYACTIVE_CONSUMED_SUM_F64"}},
	{"energy_real_produced", unitWattHour, []string{"EnergyReal_WAC_Sum_Produced", "SMARTMETER_ENERGYACTIVE_PRODUCED_SUM_F64"}},
	{"frequency_phase_average", unitHertz, []string{"Frequency_Phase_Average", "GRID_FREQUENCY_MEAN_F32", "SMARTMETER_FREQUENCY_MEAN_F64"}},
	{"power_apparent_phase_1", unitVoltAmpere, []string{"PowerApparent_S_Phase_1", "SMARTMETER_POWERAPPARENT_01_F64"}},
	{"power_apparent_phase_2", unitVoltAmpere, []string{"PowerApparent_S_Phase_2", "SMARTMETER_POWERAPPARENT_02_F64"}},
	{"power_apparent_phase_3", unitVoltAmpere, []string{"PowerApparent_S_Phase_3", "SMARTMETER_POWERAPPARENT_03_F64"}},
	{"power_apparent", unitVoltAmpere, []string{"PowerApparent_S_Sum", "SMARTMETER_POWERAPPARENT_MEAN_SUM_F64"}},
	{"power_factor_phase_1", "", []string{"PowerFactor_Phase_1", "SMARTMETER_FACTOR_POWER_01_F64"}},
	{"power_factor_phase_2", "", []string{"PowerFactor_Phase_2", "SMARTMETER_FACTOR_POWER_02_F64"}},
	{"power_factor_phase_3", "", []string{"PowerFactor_Phase_3", "SMARTMETER_FACTOR_POWER_03_F64"}},
	{"power_factor", "", []string{"PowerFactor_Sum", "SMARTMETER_FACTOR_POWER_SUM_F64"}},
	{"power_reactive_phase_1", unitVAr, []string{"PowerReactive_Q_Phase_1", "SMARTMETER_POWERREACTIVE_01_F64"}},
	{"power_reactive_phase_2", unitVAr, []string{"PowerReactive_Q_Phase_2", "SMARTMETER_POWERREACTIVE_02_F64"}},
	{"power_reactive_phase_3", unitVAr, []string{"PowerReactive_Q_Phase_3", "SMARTMETER_POWERREACTIVE_03_F64"}},
	{"power_reactive", unitVAr, []string{"PowerReactive_Q_Sum", "SMARTMETER_POWERREACTIVE_MEAN_SUM_F64"}},
	{"power_real_phase_1", unitWatt, []string{"PowerReal_P_Phase_1", "SMARTMETER_POWERACTIVE_01_F64"}},
	{"power_real_phase_2", unitWatt, []string{"PowerReal_P_Phase_2", "SMARTMETER_POWERACTIVE_02_F64"}},
	{"power_real_phase_3", unitWatt, []string{"PowerReal_P_Phase_3", "SMARTMETER_POWERACTIVE_03_F64"}},
	{"power_real", unitWatt, []string{"PowerReal_P_Sum", "SMARTMETER_POWERACTIVE_MEAN_SUM_F64"}},
	{"voltage_ac_phase_1", unitVolt, []string{"Voltage_AC_Phase_1", "SMARTMETER_VOLTAGE_01_F64"}},
	{"voltage_ac_phase_2", unitVolt, []string{"Voltage_AC_Phase_2", "SMARTMETER_VOLTAGE_02_F64"}},
	{"voltage_ac_phase_3", unitVolt, []string{"Voltage_AC_Phase_3", "SMARTMETER_VOLTAGE_03_F64"}},
	{"voltage_ac_phase_to_phase_12", unitVolt, []string{"Voltage_AC_PhaseToPhase_12", "SMARTMETER_VOLTAGE_MEAN_12_F64"}},
	{"voltage_ac_phase_to_phase_23", unitVolt, []string{"Voltage_AC_PhaseToPhase_23", "SMARTMETER_VOLTAGE_MEAN_23_F64"}},
	{"voltage_ac_phase_to_phase_31", unitVolt, []string{"Voltage_AC_PhaseToPhase_31", "SMARTMETER_VOLTAGE_MEAN_31_F64"}},
	{"meter_location", "", []string{"Meter_Location_Current", "SMARTMETER_VALUE_LOCATION_U16"}},
	{"enable", "", []string{"Enable", "COMPONENTS_MODE_ENABLE_U16"}},
	{"visible", "", []string{"Visible", "COMPONENTS_MODE_VISIBLE_U16"}},
}

var batteryFields = []field{
	{"capacity_maximum", unitAmpereHour, []string{"Capacity_Maximum"}},
	{"capacity_designed", unitAmpereHour, []string{"DesignedCapacity"}},
	{"current_dc", unitAmpere, []string{"Current_DC"}},
	{"voltage_dc", unitVolt, []string{"Voltage_DC"}},
	{"voltage_dc_maximum_cell", unitVolt, []string{"Voltage_DC_Maximum_Cell"}},
	{"voltage_dc_minimum_cell", unitVolt, []string{"Voltage_DC_Minimum_Cell"}},
	{"state_of_charge", unitPercent, []string{"StateOfCharge_Relative"}},
	{"temperature_cell", unitCelsius, []string{"Temperature_Cell"}},
	{"enable", "", []string{"Enable"}},
}

var controllerFields = batteryFields

var moduleFields = append(append([]field{}, batteryFields...),
	field{"temperature_cell_maximum", unitCelsius, []string{"Temperature_Cell_Maximum"}},
	field{"temperature_cell_minimum", unitCelsius, []string{"Temperature_Cell_Minimum"}},
	field{"cycle_count_cell", "", []string{"CycleCount_BatteryCell"}},
	field{"status_cell", "", []string{"Status_BatteryCell"}},
)

var ohmpilotFields = []field{
	{"error_code", "", []string{"CodeOfError"}},
	{"state_code", "", []string{"CodeOfState"}},
	{"energy_real_ac_consumed", unitWattHour, []string{"EnergyReal_WAC_Sum_Consumed"}},
	{"power_real_ac", unitWatt, []string{"PowerReal_PAC_Sum"}},
	{"temperature_channel_1", unitCelsius, []string{"Temperature_Channel_1"}},
}

var ohmpilotStateCodes = map[int]string{
	0: "Up and running",
	1: "Keep minimum temperature",
	2: "Legionella protection",
	3: "Fault",
	4: "Warning",
	5: "Boost",
}

// inverterValueFields are reported by the device as {"Value": x, "Unit": u}.
var inverterValueFields = []struct {
	name string
	key  string
}{
	{"energy_day", "DAY_ENERGY"},
	{"energy_total", "TOTAL_ENERGY"},
	{"energy_year", "YEAR_ENERGY"},
	{"frequency_ac", "FAC"},
	{"current_ac", "IAC"},
	{"current_dc", "IDC"},
	{"current_dc_2", "IDC_2"},
	{"current_dc_3", "IDC_3"},
	{"current_dc_4", "IDC_4"},
	{"power_ac", "PAC"},
	{"power_apparent", "SAC"},
	{"voltage_ac", "UAC"},
	{"voltage_dc", "UDC"},
	{"voltage_dc_2", "UDC_2"},
	{"voltage_dc_3", "UDC_3"},
	{"voltage_dc_4", "UDC_4"},
}

var inverterStatusFields = []field{
	{"inverter_state", "", []string{"InverterState"}},
	{"error_code", "", []string{"ErrorCode"}},
	{"status_code", "", []string{"StatusCode"}},
	{"led_state", "", []string{"LEDState"}},
	{"led_color", "", []string{"LEDColor"}},
}

var ledFields = map[string]string{
	"PowerLED":    "power_led",
	"SolarNetLED": "solar_net_led",
	"SolarWebLED": "solar_web_led",
	"WLANLED":     "wlan_led",
}

var loggerInfoFields = []field{
	{"hardware_version", "", []string{"HWVersion"}},
	{"software_version", "", []string{"SWVersion"}},
	{"hardware_platform", "", []string{"PlatformID"}},
	{"product_type", "", []string{"ProductID"}},
	{"time_zone_location", "", []string{"TimezoneLocation"}},
	{"time_zone", "", []string{"TimezoneName"}},
	{"utc_offset", "", []string{"UTCOffset"}},
	{"unique_identifier", "", []string{"UniqueID"}},
}

type inverterModel struct {
	manufacturer string
	model        string
}

// inverterDeviceTypes maps the DT code of GetInverterInfo to a model. It is partial: codes
// missing here are reported as the bare DT value without manufacturer and model.
var inverterDeviceTypes = map[int]inverterModel{
	1:   {"Fronius", "Gen24"},
	86:  {"Fronius", "Primo 5.0-1 208-240"},
	102: {"Fronius", "Primo 8.2-1"},
	106: {"Fronius", "Galvo 3.1-1 208-240"},
	224: {"Fronius", "Galvo 3.0-1"},
}
