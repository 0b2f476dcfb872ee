// Package instrument implements the operations on .inst documents: the
// instrument instance list, channel resolution and variable extraction.
package instrument

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lab-automation/backend/internal/docfile"
	"github.com/lab-automation/backend/internal/library"
	"github.com/lab-automation/backend/internal/models"
)

// Load reads the instrument document at path.
func Load(path string) (*models.InstrumentDocument, error) {
	var doc models.InstrumentDocument
	if err := docfile.ReadJSON(path, &doc); err != nil {
		return nil, err
	}
	if doc.Instruments == nil {
		doc.Instruments = []models.InstrumentInstance{}
	}
	for i := range doc.Instruments {
		normalizeChannels(doc.Instruments[i].Channels)
	}
	return &doc, nil
}

// Save writes the instrument document to path.
func Save(path string, doc *models.InstrumentDocument) error {
	return docfile.WriteJSON(path, doc)
}

func normalizeChannels(chs []models.ChannelConfig) {
	for i := range chs {
		if chs[i].Attenuation == 0 {
			chs[i].Attenuation = 1.0
		}
	}
}

// Find returns the instance with the given name, if present.
func Find(doc *models.InstrumentDocument, name string) (*models.InstrumentInstance, bool) {
	for i := range doc.Instruments {
		if doc.Instruments[i].InstanceName == name {
			return &doc.Instruments[i], true
		}
	}
	return nil, false
}

// AddOrReplace inserts inst into the document. An existing instance with the
// same instance_name is overwritten in place; this replace-on-match is the
// document's sole de-duplication mechanism. Channels with Used unset are
// display-only placeholders and are stripped before storage.
func AddOrReplace(doc *models.InstrumentDocument, inst models.InstrumentInstance) {
	inst.Channels = usedChannels(inst.Channels)
	normalizeChannels(inst.Channels)
	for i := range doc.Instruments {
		if doc.Instruments[i].InstanceName == inst.InstanceName {
			doc.Instruments[i] = inst
			return
		}
	}
	doc.Instruments = append(doc.Instruments, inst)
}

func usedChannels(chs []models.ChannelConfig) []models.ChannelConfig {
	out := make([]models.ChannelConfig, 0, len(chs))
	for _, ch := range chs {
		if ch.Used {
			out = append(out, ch)
		}
	}
	return out
}

// Remove deletes the instance with the given name. Removing an absent name
// is a no-op; the return value reports whether anything was deleted.
func Remove(doc *models.InstrumentDocument, name string) bool {
	for i := range doc.Instruments {
		if doc.Instruments[i].InstanceName == name {
			doc.Instruments = append(doc.Instruments[:i], doc.Instruments[i+1:]...)
			return true
		}
	}
	return false
}

// ResolveChannels builds the full channel list shown for the named instance:
// channelCount disabled placeholders, overlaid by the persisted used entries
// matched on index. Out-of-range persisted indexes are dropped.
func ResolveChannels(doc *models.InstrumentDocument, name string, channelCount int) []models.ChannelConfig {
	out := make([]models.ChannelConfig, channelCount)
	for i := range out {
		out[i] = models.PlaceholderChannel(i)
	}
	inst, ok := Find(doc, name)
	if !ok {
		return out
	}
	for _, ch := range inst.Channels {
		if ch.Used && ch.Index >= 0 && ch.Index < channelCount {
			out[ch.Index] = ch
		}
	}
	return out
}

// ExtractVariableNames collects the variable names configured across the
// document. Setpoint variables come from power-supply and electronic-load
// channels; measured variables are the union of the setpoint variables and
// the datalogger measured variables. Both lists are sorted and de-duplicated.
func ExtractVariableNames(doc *models.InstrumentDocument) (setpoint, measured []string) {
	setpointSet := map[string]struct{}{}
	measuredSet := map[string]struct{}{}
	for _, inst := range doc.Instruments {
		switch inst.InstrumentType {
		case models.ClassPowerSupplies, models.ClassElectronicLoads:
			for _, ch := range inst.Channels {
				if ch.Used && ch.Variable != "" {
					setpointSet[ch.Variable] = struct{}{}
					measuredSet[ch.Variable] = struct{}{}
				}
			}
		case models.ClassDataloggers:
			for _, ch := range inst.Channels {
				if ch.Used && ch.MeasuredVariable != "" {
					measuredSet[ch.MeasuredVariable] = struct{}{}
				}
			}
		}
	}
	return sortedKeys(setpointSet), sortedKeys(measuredSet)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks an instance against the library catalog: the model
// reference must resolve, the connection type must be one the model supports,
// channel indexes must be unique and within the model's channel count, and a
// channel's measure type, when set, must be a known measurement kind.
func Validate(inst *models.InstrumentInstance, lib *library.Library) error {
	if !models.IsLibraryClass(inst.InstrumentType) {
		return docfile.NewError(docfile.UnsupportedKind, inst.InstanceName,
			fmt.Errorf("unknown instrument class %q", inst.InstrumentType))
	}
	model, ok := lib.FindModel(inst.InstrumentType, inst.SeriesID, inst.ModelID)
	if !ok {
		return docfile.NewError(docfile.UnsupportedKind, inst.InstanceName,
			fmt.Errorf("model %s/%s not found in library class %s",
				inst.SeriesID, inst.ModelID, inst.InstrumentType))
	}
	if inst.ConnectionType != "" {
		supported := false
		for _, ct := range library.ConnectionTypesFor(model) {
			if strings.EqualFold(ct.Type, inst.ConnectionType) {
				supported = true
				break
			}
		}
		if !supported {
			return docfile.NewError(docfile.UnsupportedKind, inst.InstanceName,
				fmt.Errorf("connection type %q not supported by model %s",
					inst.ConnectionType, inst.ModelID))
		}
	}
	count := model.Capabilities.ChannelCount()
	seen := make(map[int]bool, len(inst.Channels))
	for _, ch := range inst.Channels {
		if ch.Index < 0 || ch.Index >= count {
			return fmt.Errorf("channel index %d out of range [0,%d) for model %s",
				ch.Index, count, inst.ModelID)
		}
		if seen[ch.Index] {
			return fmt.Errorf("duplicate channel index %d on instance %s",
				ch.Index, inst.InstanceName)
		}
		seen[ch.Index] = true
		if ch.Attenuation <= 0 {
			return fmt.Errorf("channel %d attenuation must be positive", ch.Index)
		}
		if ch.MeasureType != "" && !models.IsMeasureType(ch.MeasureType) {
			return fmt.Errorf("channel %d measure type %q: want one of %s",
				ch.Index, ch.MeasureType, strings.Join(models.MeasureTypes, ", "))
		}
	}
	return nil
}
