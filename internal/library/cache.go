package library

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lab-automation/backend/internal/logging"
	"github.com/lab-automation/backend/internal/models"
)

// cacheSuffix is appended to the catalog path for the parsed snapshot.
const cacheSuffix = ".cache"

// LoadCached behaves like Load but keeps a msgpack snapshot of the parsed
// catalog beside the JSON source, so repeated startups skip the JSON parse.
// A snapshot older than the source, unreadable or corrupt is ignored and
// rebuilt after the next successful parse.
func LoadCached(path string) *Library {
	if lib, ok := readSnapshot(path); ok {
		return lib
	}
	lib, err := parseFile(path)
	if err != nil {
		logging.L().Warn("instrument library %s unavailable, using empty catalog: %v", path, err)
		return Empty()
	}
	if err := writeSnapshot(path, lib); err != nil {
		logging.L().Debug("library snapshot for %s not written: %v", path, err)
	}
	return lib
}

func snapshotPath(catalogPath string) string { return catalogPath + cacheSuffix }

func readSnapshot(catalogPath string) (*Library, bool) {
	srcInfo, err := os.Stat(catalogPath)
	if err != nil {
		return nil, false
	}
	snapInfo, err := os.Stat(snapshotPath(catalogPath))
	if err != nil || snapInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil, false
	}
	data, err := os.ReadFile(snapshotPath(catalogPath))
	if err != nil {
		return nil, false
	}
	var classes map[string][]models.Series
	if err := msgpack.Unmarshal(data, &classes); err != nil {
		logging.L().Debug("library snapshot for %s is corrupt, reparsing: %v", catalogPath, err)
		return nil, false
	}
	return fromClasses(classes), true
}

func writeSnapshot(catalogPath string, lib *Library) error {
	data, err := msgpack.Marshal(lib.Classes)
	if err != nil {
		return err
	}
	return os.WriteFile(snapshotPath(catalogPath), data, 0644)
}
