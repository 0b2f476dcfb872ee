package models

// ScopeDocument is the on-disk shape of a .was file.
type ScopeDocument struct {
	Type     string        `json:"type"`
	Settings ScopeSettings `json:"settings"`
}

// ScopeSettings holds the oscilloscope per-division values. Both are stored
// as canonical floats; engineering-notation input is parsed before storage.
type ScopeSettings struct {
	TimePerDiv float64 `json:"time_per_div"`
	VoltPerDiv float64 `json:"volt_per_div"`
}

// NewScopeDocument returns the default content of a freshly generated .was file.
func NewScopeDocument() *ScopeDocument {
	return &ScopeDocument{Type: DocTypeScope}
}
