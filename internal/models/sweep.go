package models

import (
	"bytes"
	"encoding/json"
)

// Document type tags written into the generated files.
const (
	DocTypeEfficiency = "efficiency"
	DocTypeScope      = "oscilloscope_settings"
)

// Axis keys of the two independent sweep loops in an .eff file.
const (
	AxisVin  = "Vin loop"
	AxisIout = "Iout loop"
)

// SweepDocument is the on-disk shape of an .eff file.
type SweepDocument struct {
	Type             string               `json:"type"`
	Data             map[string]SweepSpec `json:"data"`
	SweepVariable    string               `json:"sweep_variable,omitempty"`
	MeasuredVariable string               `json:"measured_variable,omitempty"`
}

// NewSweepDocument returns the default content of a freshly generated .eff file.
func NewSweepDocument() *SweepDocument {
	return &SweepDocument{Type: DocTypeEfficiency, Data: map[string]SweepSpec{}}
}

// SweepRange is the range form of a sweep: points values from start to stop.
type SweepRange struct {
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	Points int     `json:"points"`
}

// SweepSpec is a tagged union: either an explicit ordered value list
// ("list mode", serialized as a JSON array) or a SweepRange ("range mode",
// serialized as an object). Exactly one of the fields is set.
type SweepSpec struct {
	Values []float64
	Range  *SweepRange
}

// IsList reports whether the spec is in list mode.
func (s SweepSpec) IsList() bool { return s.Range == nil }

func (s SweepSpec) MarshalJSON() ([]byte, error) {
	if s.Range != nil {
		return json.Marshal(s.Range)
	}
	if s.Values == nil {
		return json.Marshal([]float64{})
	}
	return json.Marshal(s.Values)
}

func (s *SweepSpec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		s.Range = nil
		return json.Unmarshal(data, &s.Values)
	}
	s.Values = nil
	s.Range = &SweepRange{}
	return json.Unmarshal(data, s.Range)
}
