package instrument

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-automation/backend/internal/docfile"
	"github.com/lab-automation/backend/internal/library"
	"github.com/lab-automation/backend/internal/models"
)

func supplyInstance(name, variable string) models.InstrumentInstance {
	return models.InstrumentInstance{
		InstanceName:   name,
		InstrumentType: models.ClassPowerSupplies,
		SeriesID:       "px",
		ModelID:        "px-3000",
		ConnectionType: "GPIB",
		VisaAddress:    "GPIB0::5::INSTR",
		Channels: []models.ChannelConfig{
			{Index: 0, Used: true, Variable: variable, Attenuation: 1.0},
		},
	}
}

func TestAddOrReplaceOverwritesOnNameMatch(t *testing.T) {
	doc := models.NewInstrumentDocument()

	AddOrReplace(doc, supplyInstance("psu1", "Vin"))
	AddOrReplace(doc, supplyInstance("psu1", "Vbus"))

	require.Len(t, doc.Instruments, 1, "same name must replace, not duplicate")
	assert.Equal(t, "Vbus", doc.Instruments[0].Channels[0].Variable)
}

func TestAddOrReplaceAppendsNewNames(t *testing.T) {
	doc := models.NewInstrumentDocument()
	AddOrReplace(doc, supplyInstance("psu1", "Vin"))
	AddOrReplace(doc, supplyInstance("psu2", "Vaux"))
	assert.Len(t, doc.Instruments, 2)
}

func TestAddOrReplaceStripsUnusedChannels(t *testing.T) {
	doc := models.NewInstrumentDocument()
	inst := supplyInstance("psu1", "Vin")
	inst.Channels = append(inst.Channels, models.PlaceholderChannel(1))

	AddOrReplace(doc, inst)

	require.Len(t, doc.Instruments[0].Channels, 1, "disabled channels are display-only")
	assert.True(t, doc.Instruments[0].Channels[0].Used)
}

func TestRemove(t *testing.T) {
	doc := models.NewInstrumentDocument()
	AddOrReplace(doc, supplyInstance("psu1", "Vin"))

	assert.True(t, Remove(doc, "psu1"))
	assert.Empty(t, doc.Instruments)
	assert.False(t, Remove(doc, "psu1"), "removing an absent name is a no-op")
}

func TestResolveChannelsOverlaysPersistedEntries(t *testing.T) {
	doc := models.NewInstrumentDocument()
	inst := supplyInstance("psu1", "Vin")
	inst.Channels = []models.ChannelConfig{
		{Index: 2, Used: true, Variable: "Vout", Attenuation: 10.0},
	}
	AddOrReplace(doc, inst)

	chs := ResolveChannels(doc, "psu1", 4)
	require.Len(t, chs, 4)
	for i, ch := range chs {
		assert.Equal(t, i, ch.Index)
	}
	assert.False(t, chs[0].Used)
	assert.Equal(t, 1.0, chs[0].Attenuation)
	assert.True(t, chs[2].Used)
	assert.Equal(t, "Vout", chs[2].Variable)
	assert.Equal(t, 10.0, chs[2].Attenuation)
}

func TestResolveChannelsUnknownInstance(t *testing.T) {
	doc := models.NewInstrumentDocument()
	chs := ResolveChannels(doc, "ghost", 3)
	require.Len(t, chs, 3)
	for _, ch := range chs {
		assert.False(t, ch.Used)
	}
}

func TestResolveChannelsDropsOutOfRangeIndexes(t *testing.T) {
	doc := models.NewInstrumentDocument()
	inst := supplyInstance("psu1", "Vin")
	inst.Channels = []models.ChannelConfig{
		{Index: 9, Used: true, Variable: "Vout", Attenuation: 1.0},
	}
	AddOrReplace(doc, inst)

	chs := ResolveChannels(doc, "psu1", 2)
	require.Len(t, chs, 2)
	assert.False(t, chs[0].Used)
	assert.False(t, chs[1].Used)
}

func TestExtractVariableNames(t *testing.T) {
	doc := models.NewInstrumentDocument()
	AddOrReplace(doc, supplyInstance("psu1", "Vin"))
	AddOrReplace(doc, models.InstrumentInstance{
		InstanceName:   "dlog1",
		InstrumentType: models.ClassDataloggers,
		SeriesID:       "dl",
		ModelID:        "dl-20",
		Channels: []models.ChannelConfig{
			{Index: 0, Used: true, MeasuredVariable: "Iout", MeasureType: models.MeasureCurrent, Attenuation: 1.0},
		},
	})

	setpoint, measured := ExtractVariableNames(doc)
	assert.Equal(t, []string{"Vin"}, setpoint)
	assert.Equal(t, []string{"Iout", "Vin"}, measured)
}

func TestExtractVariableNamesDeduplicatesAndSorts(t *testing.T) {
	doc := models.NewInstrumentDocument()
	load := supplyInstance("load1", "Iout")
	load.InstrumentType = models.ClassElectronicLoads
	AddOrReplace(doc, supplyInstance("psu1", "Vin"))
	AddOrReplace(doc, load)
	other := supplyInstance("psu2", "Vin")
	AddOrReplace(doc, other)

	setpoint, measured := ExtractVariableNames(doc)
	assert.Equal(t, []string{"Iout", "Vin"}, setpoint)
	assert.Equal(t, []string{"Iout", "Vin"}, measured)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.inst")
	doc := models.NewInstrumentDocument()
	AddOrReplace(doc, supplyInstance("psu1", "Vin"))
	require.NoError(t, Save(path, doc))

	back, err := Load(path)
	require.NoError(t, err)
	require.Len(t, back.Instruments, 1)
	assert.Equal(t, "psu1", back.Instruments[0].InstanceName)
	assert.Equal(t, 1.0, back.Instruments[0].Channels[0].Attenuation)
}

func testLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib, err := library.Parse([]byte(`{
		"power_supplies": [{
			"series_id": "px",
			"series_name": "PX",
			"models": [{
				"id": "px-3000",
				"name": "PX 3000",
				"capabilities": {"channels": [
					{"label": "Output 1", "channel_id": "OUT1"},
					{"label": "Output 2", "channel_id": "OUT2"}
				]},
				"interface": {"supported_connection_types": [{"type": "GPIB"}]}
			}]
		}],
		"dataloggers": [{
			"series_id": "dl",
			"series_name": "DL",
			"models": [{
				"id": "dl-20",
				"name": "DL 20",
				"capabilities": {"channels": 4},
				"interface": {"supported_connection_types": [{"type": "USB"}]}
			}]
		}]
	}`))
	require.NoError(t, err)
	return lib
}

func TestValidateAcceptsResolvableInstance(t *testing.T) {
	assert.NoError(t, validateSupply(t, supplyInstance("psu1", "Vin")))
}

func TestValidateUnknownModelIsUnsupportedKind(t *testing.T) {
	inst := supplyInstance("psu1", "Vin")
	inst.ModelID = "px-9999"

	err := validateSupply(t, inst)
	kind, ok := docfile.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, docfile.UnsupportedKind, kind)
}

func TestValidateUnsupportedConnectionType(t *testing.T) {
	inst := supplyInstance("psu1", "Vin")
	inst.ConnectionType = "RS232"

	err := validateSupply(t, inst)
	kind, ok := docfile.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, docfile.UnsupportedKind, kind)
}

func TestValidateChannelIndexBounds(t *testing.T) {
	inst := supplyInstance("psu1", "Vin")
	inst.Channels[0].Index = 2 // model has two channels: valid indexes are 0 and 1

	assert.Error(t, validateSupply(t, inst))
}

func dataloggerInstance(measureType string) models.InstrumentInstance {
	return models.InstrumentInstance{
		InstanceName:   "dlog1",
		InstrumentType: models.ClassDataloggers,
		SeriesID:       "dl",
		ModelID:        "dl-20",
		ConnectionType: "USB",
		Channels: []models.ChannelConfig{
			{Index: 0, Used: true, MeasuredVariable: "Iout", MeasureType: measureType, Attenuation: 1.0},
		},
	}
}

func TestValidateMeasureType(t *testing.T) {
	lib := testLibrary(t)

	inst := dataloggerInstance(models.MeasureCurrent)
	assert.NoError(t, Validate(&inst, lib))

	// An unset measure type is allowed; the instruments view fills it later.
	blank := dataloggerInstance("")
	assert.NoError(t, Validate(&blank, lib))
}

func TestValidateRejectsUnknownMeasureType(t *testing.T) {
	inst := dataloggerInstance("impedance")
	assert.Error(t, Validate(&inst, testLibrary(t)))
}

func TestValidateDuplicateChannelIndex(t *testing.T) {
	inst := supplyInstance("psu1", "Vin")
	inst.Channels = append(inst.Channels, models.ChannelConfig{
		Index: 0, Used: true, Variable: "Vdup", Attenuation: 1.0,
	})

	assert.Error(t, validateSupply(t, inst))
}

func validateSupply(t *testing.T, inst models.InstrumentInstance) error {
	t.Helper()
	return Validate(&inst, testLibrary(t))
}
