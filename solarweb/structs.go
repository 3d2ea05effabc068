package solarweb

import "time"

type Address struct {
	Street  *string `json:"street" yaml:"street"`
	ZipCode *string `json:"zipCode" yaml:"zipCode"`
	City    *string `json:"city" yaml:"city"`
	State   *string `json:"state" yaml:"state"`
	Country *string `json:"country" yaml:"country"`
}

type PvSystemMetaData struct {
	PvSystemID       string    `json:"pvSystemId" yaml:"pvSystemId" validate:"required"`
	Name             string    `json:"name" yaml:"name" validate:"required"`
	Address          *Address  `json:"address" yaml:"address" validate:"required"`
	Timezone         string    `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	PictureURL       string    `json:"pictureURL" yaml:"pictureURL"`
	PeakPower        *float64  `json:"peakPower" yaml:"peakPower" validate:"required"`
	MeteoData        *string   `json:"meteoData" yaml:"meteoData"`
	LastImport       time.Time `json:"lastImport" yaml:"lastImport" validate:"required"`
	InstallationDate time.Time `json:"installationDate" yaml:"installationDate" validate:"required"`
}

type Firmware struct {
	UpdateAvailable  *bool   `json:"updateAvailable" yaml:"updateAvailable"`
	InstalledVersion *string `json:"installedVersion" yaml:"installedVersion"`
	AvailableVersion *string `json:"availableVersion" yaml:"availableVersion"`
}

type Sensor struct {
	SensorType       string     `json:"sensorType" yaml:"sensorType" validate:"required"`
	SensorName       string     `json:"sensorName" yaml:"sensorName" validate:"required"`
	IsActive         *bool      `json:"isActive" yaml:"isActive" validate:"required"`
	ActivationDate   time.Time  `json:"activationDate" yaml:"activationDate" validate:"required"`
	DeactivationDate *time.Time `json:"deactivationDate,omitempty" yaml:"deactivationDate,omitempty"`
}

// DeviceMetaData describes one device of a PV system. Which of the optional fields are
// set depends on the device type: batteries report a capacity, smart meters a category
// and location, EV chargers their online state.
type DeviceMetaData struct {
	DeviceType         string     `json:"deviceType" yaml:"deviceType" validate:"required"`
	DeviceID           string     `json:"deviceId" yaml:"deviceId" validate:"required"`
	DeviceName         string     `json:"deviceName" yaml:"deviceName" validate:"required"`
	DeviceManufacturer string     `json:"deviceManufacturer" yaml:"deviceManufacturer" validate:"required"`
	SerialNumber       *string    `json:"serialnumber,omitempty" yaml:"serialnumber,omitempty"`
	DeviceTypeDetails  *string    `json:"deviceTypeDetails,omitempty" yaml:"deviceTypeDetails,omitempty"`
	DataloggerID       string     `json:"dataloggerId" yaml:"dataloggerId" validate:"required"`
	NodeType           *string    `json:"nodeType,omitempty" yaml:"nodeType,omitempty"`
	NumberMPPTrackers  *int       `json:"numberMPPTrackers,omitempty" yaml:"numberMPPTrackers,omitempty"`
	NumberPhases       *int       `json:"numberPhases,omitempty" yaml:"numberPhases,omitempty"`
	PeakPower          any        `json:"peakPower,omitempty" yaml:"peakPower,omitempty"`
	NominalAcPower     *float64   `json:"nominalAcPower,omitempty" yaml:"nominalAcPower,omitempty"`
	Firmware           *Firmware  `json:"firmware,omitempty" yaml:"firmware,omitempty"`
	IsActive           *bool      `json:"isActive" yaml:"isActive" validate:"required"`
	ActivationDate     time.Time  `json:"activationDate" yaml:"activationDate" validate:"required"`
	DeactivationDate   *time.Time `json:"deactivationDate,omitempty" yaml:"deactivationDate,omitempty"`
	Capacity           *float64   `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Sensors            []Sensor   `json:"sensors,omitempty" yaml:"sensors,omitempty" validate:"omitempty,dive"`
	DeviceCategory     *string    `json:"deviceCategory,omitempty" yaml:"deviceCategory,omitempty"`
	DeviceLocation     *string    `json:"deviceLocation,omitempty" yaml:"deviceLocation,omitempty"`
	IsOnline           *bool      `json:"isOnline,omitempty" yaml:"isOnline,omitempty"`
}

type DevicesMetaData struct {
	Devices []DeviceMetaData `json:"devices" yaml:"devices" validate:"omitempty,dive"`
}

type FlowStatus struct {
	IsOnline *bool   `json:"isOnline" yaml:"isOnline" validate:"required"`
	BattMode *string `json:"battMode,omitempty" yaml:"battMode,omitempty"`
}

type Channel struct {
	ChannelName string `json:"channelName" yaml:"channelName" validate:"required"`
	ChannelType string `json:"channelType" yaml:"channelType" validate:"required"`
	Unit        string `json:"unit" yaml:"unit"`
	Value       any    `json:"value" yaml:"value"`
}

type FlowData struct {
	LogDateTime time.Time `json:"logDateTime" yaml:"logDateTime" validate:"required"`
	Channels    []Channel `json:"channels" yaml:"channels" validate:"omitempty,dive"`
}

// PvSystemFlowData is the current power flow of a PV system.
type PvSystemFlowData struct {
	PvSystemID string      `json:"pvSystemId" yaml:"pvSystemId" validate:"required"`
	Status     *FlowStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Data       *FlowData   `json:"data,omitempty" yaml:"data,omitempty"`
}

// Channel returns the channel with the given name.
func (f PvSystemFlowData) Channel(name string) (Channel, bool) {
	if f.Data == nil {
		return Channel{}, false
	}
	for _, c := range f.Data.Channels {
		if c.ChannelName == name {
			return c, true
		}
	}
	return Channel{}, false
}
