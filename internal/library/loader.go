// Package library loads the read-only instrument catalog and answers the
// lookups the instrument editor needs: series per class, models per series,
// connection types and channel descriptors per model.
package library

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lab-automation/backend/internal/logging"
	"github.com/lab-automation/backend/internal/models"
)

// Library is the immutable instrument catalog, keyed by instrument class.
// All four class keys are always present so lookups never need to null-check.
type Library struct {
	Classes map[string][]models.Series
}

// Empty returns a library with every class key present and no series.
func Empty() *Library {
	return fromClasses(nil)
}

func fromClasses(classes map[string][]models.Series) *Library {
	lib := &Library{Classes: make(map[string][]models.Series, len(models.LibraryClasses))}
	for _, key := range models.LibraryClasses {
		lib.Classes[key] = classes[key]
	}
	return lib
}

// Load parses the catalog at path. The catalog is advisory data: read and
// parse failures are absorbed into an empty library, never propagated.
func Load(path string) *Library {
	lib, err := parseFile(path)
	if err != nil {
		logging.L().Warn("instrument library %s unavailable, using empty catalog: %v", path, err)
		return Empty()
	}
	return lib
}

func parseFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes catalog JSON. A document carrying a top-level
// instrument_library key is unwrapped; otherwise the document itself is
// treated as the library.
func Parse(data []byte) (*Library, error) {
	var wrapped struct {
		InstrumentLibrary map[string][]models.Series `json:"instrument_library"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.InstrumentLibrary != nil {
		return fromClasses(wrapped.InstrumentLibrary), nil
	}
	var flat map[string][]models.Series
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decoding instrument library: %w", err)
	}
	return fromClasses(flat), nil
}

// SeriesFor returns the ordered series of one instrument class.
func (l *Library) SeriesFor(classKey string) []models.Series {
	return l.Classes[classKey]
}

// ModelsFor returns the ordered models of one series within a class.
func (l *Library) ModelsFor(classKey, seriesID string) []models.Model {
	for _, s := range l.Classes[classKey] {
		if s.SeriesID == seriesID {
			return s.Models
		}
	}
	return nil
}

// FindModel resolves a class/series/model reference against the catalog.
func (l *Library) FindModel(classKey, seriesID, modelID string) (*models.Model, bool) {
	ms := l.ModelsFor(classKey, seriesID)
	for i := range ms {
		if ms[i].ID == modelID {
			return &ms[i], true
		}
	}
	return nil, false
}

// ConnectionTypesFor returns the ordered connection types a model supports.
func ConnectionTypesFor(m *models.Model) []models.ConnectionType {
	return m.Interface.SupportedConnectionTypes
}

// ChannelDescriptorsFor returns the model's channel descriptors, synthesizing
// generic Ch1..ChN labels when the catalog expresses channels as a bare count.
func ChannelDescriptorsFor(m *models.Model) []models.ChannelDescriptor {
	if m.Capabilities.Channels != nil {
		return m.Capabilities.Channels
	}
	descs := make([]models.ChannelDescriptor, m.Capabilities.Count)
	for i := range descs {
		id := fmt.Sprintf("CH%d", i+1)
		descs[i] = models.ChannelDescriptor{Label: fmt.Sprintf("Ch%d", i+1), ChannelID: id}
	}
	return descs
}
