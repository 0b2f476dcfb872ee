package models

// Instrument classes supported by the library catalog.
const (
	ClassPowerSupplies   = "power_supplies"
	ClassDataloggers     = "dataloggers"
	ClassOscilloscopes   = "oscilloscopes"
	ClassElectronicLoads = "electronic_loads"
)

// LibraryClasses lists every catalog class, in display order.
var LibraryClasses = []string{
	ClassPowerSupplies,
	ClassDataloggers,
	ClassOscilloscopes,
	ClassElectronicLoads,
}

// IsLibraryClass reports whether key names a known instrument class.
func IsLibraryClass(key string) bool {
	for _, c := range LibraryClasses {
		if c == key {
			return true
		}
	}
	return false
}

// Measure types accepted for datalogger channels.
const (
	MeasureVoltage     = "voltage"
	MeasureCurrent     = "current"
	MeasureTemperature = "temperature"
	MeasureResistance  = "resistance"
)

// MeasureTypes lists the accepted datalogger measurement kinds.
var MeasureTypes = []string{MeasureVoltage, MeasureCurrent, MeasureTemperature, MeasureResistance}

// IsMeasureType reports whether s names an accepted measurement kind.
func IsMeasureType(s string) bool {
	for _, m := range MeasureTypes {
		if m == s {
			return true
		}
	}
	return false
}

// InstrumentDocument is the on-disk shape of an .inst file.
type InstrumentDocument struct {
	Instruments []InstrumentInstance `json:"instruments"`
}

// NewInstrumentDocument returns an empty instrument document.
func NewInstrumentDocument() *InstrumentDocument {
	return &InstrumentDocument{Instruments: []InstrumentInstance{}}
}

// InstrumentInstance is a configured, named deployment of a library model.
// instance_name is unique within the document: adding an instrument under an
// existing name overwrites that entry.
type InstrumentInstance struct {
	InstanceName   string          `json:"instance_name"`
	InstrumentType string          `json:"instrument_type"`
	SeriesID       string          `json:"series_id"`
	ModelID        string          `json:"model_id"`
	ConnectionType string          `json:"connection_type"`
	VisaAddress    string          `json:"visa_address"`
	Channels       []ChannelConfig `json:"channels"`
}

// ChannelConfig binds one of a model's channels to a variable name.
// Only channels with Used set are persisted; disabled channels are
// regenerated as placeholders each time a configuration view opens.
type ChannelConfig struct {
	Index            int     `json:"index"`
	Used             bool    `json:"used"`
	Variable         string  `json:"variable,omitempty"`
	MeasuredVariable string  `json:"measured_variable,omitempty"`
	MeasureType      string  `json:"measure_type,omitempty"`
	Attenuation      float64 `json:"attenuation"`
}

// PlaceholderChannel returns the disabled display-only entry shown for an
// unconfigured channel at the given index.
func PlaceholderChannel(index int) ChannelConfig {
	return ChannelConfig{Index: index, Attenuation: 1.0}
}
