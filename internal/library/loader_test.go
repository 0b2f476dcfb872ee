package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-automation/backend/internal/models"
)

const sampleCatalog = `{
  "instrument_library": {
    "power_supplies": [
      {
        "series_id": "px",
        "series_name": "PX Series",
        "models": [
          {
            "id": "px-3000",
            "name": "PX 3000",
            "capabilities": {
              "channels": [
                {"label": "Output 1", "channel_id": "OUT1"},
                {"label": "Output 2", "channel_id": "OUT2"}
              ]
            },
            "interface": {
              "supported_connection_types": [
                {"type": "GPIB"},
                {"type": "LXI"}
              ]
            }
          }
        ]
      }
    ],
    "dataloggers": [
      {
        "series_id": "dl",
        "series_name": "DL Series",
        "models": [
          {
            "id": "dl-20",
            "name": "DL 20",
            "capabilities": {"channels": 20},
            "interface": {
              "supported_connection_types": [{"type": "USB"}]
            }
          }
        ]
      }
    ]
  }
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instruments_lib.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWrappedCatalog(t *testing.T) {
	lib := Load(writeCatalog(t, sampleCatalog))

	series := lib.SeriesFor(models.ClassPowerSupplies)
	require.Len(t, series, 1)
	assert.Equal(t, "PX Series", series[0].SeriesName)

	ms := lib.ModelsFor(models.ClassPowerSupplies, "px")
	require.Len(t, ms, 1)
	assert.Equal(t, "px-3000", ms[0].ID)
}

func TestLoadFlatCatalog(t *testing.T) {
	flat := `{"oscilloscopes": [{"series_id": "os", "series_name": "OS", "models": []}]}`
	lib := Load(writeCatalog(t, flat))

	assert.Len(t, lib.SeriesFor(models.ClassOscilloscopes), 1)
	assert.Empty(t, lib.SeriesFor(models.ClassPowerSupplies))
}

func TestLoadMissingFileReturnsEmptyLibrary(t *testing.T) {
	lib := Load(filepath.Join(t.TempDir(), "absent.json"))

	require.NotNil(t, lib)
	for _, class := range models.LibraryClasses {
		_, ok := lib.Classes[class]
		assert.True(t, ok, "class %s must be present", class)
		assert.Empty(t, lib.Classes[class])
	}
}

func TestLoadMalformedCatalogReturnsEmptyLibrary(t *testing.T) {
	lib := Load(writeCatalog(t, "{broken"))
	for _, class := range models.LibraryClasses {
		assert.Empty(t, lib.Classes[class])
	}
}

func TestFindModel(t *testing.T) {
	lib := Load(writeCatalog(t, sampleCatalog))

	m, ok := lib.FindModel(models.ClassDataloggers, "dl", "dl-20")
	require.True(t, ok)
	assert.Equal(t, "DL 20", m.Name)

	_, ok = lib.FindModel(models.ClassDataloggers, "dl", "dl-99")
	assert.False(t, ok)

	_, ok = lib.FindModel(models.ClassElectronicLoads, "dl", "dl-20")
	assert.False(t, ok)
}

func TestConnectionTypesFor(t *testing.T) {
	lib := Load(writeCatalog(t, sampleCatalog))
	m, ok := lib.FindModel(models.ClassPowerSupplies, "px", "px-3000")
	require.True(t, ok)

	cts := ConnectionTypesFor(m)
	require.Len(t, cts, 2)
	assert.Equal(t, "GPIB", cts[0].Type)
	assert.Equal(t, "LXI", cts[1].Type)
}

func TestChannelDescriptorsForDescriptorList(t *testing.T) {
	lib := Load(writeCatalog(t, sampleCatalog))
	m, _ := lib.FindModel(models.ClassPowerSupplies, "px", "px-3000")

	descs := ChannelDescriptorsFor(m)
	require.Len(t, descs, 2)
	assert.Equal(t, "Output 1", descs[0].Label)
}

func TestChannelDescriptorsForBareCount(t *testing.T) {
	lib := Load(writeCatalog(t, sampleCatalog))
	m, _ := lib.FindModel(models.ClassDataloggers, "dl", "dl-20")

	descs := ChannelDescriptorsFor(m)
	require.Len(t, descs, 20)
	assert.Equal(t, "Ch1", descs[0].Label)
	assert.Equal(t, "CH20", descs[19].ChannelID)
}

func TestLoadCachedWritesAndReusesSnapshot(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	lib := LoadCached(path)
	require.Len(t, lib.SeriesFor(models.ClassPowerSupplies), 1)

	_, err := os.Stat(snapshotPath(path))
	require.NoError(t, err, "snapshot must be written after a successful parse")

	// Second load must come out of the snapshot with identical content.
	again := LoadCached(path)
	assert.Equal(t, lib.Classes, again.Classes)
}

func TestLoadCachedIgnoresCorruptSnapshot(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	require.NoError(t, os.WriteFile(snapshotPath(path), []byte("not msgpack"), 0644))

	lib := LoadCached(path)
	assert.Len(t, lib.SeriesFor(models.ClassPowerSupplies), 1)
}

func TestLoadCachedMissingSourceReturnsEmpty(t *testing.T) {
	lib := LoadCached(filepath.Join(t.TempDir(), "absent.json"))
	for _, class := range models.LibraryClasses {
		assert.Empty(t, lib.Classes[class])
	}
}
