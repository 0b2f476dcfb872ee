// Package settings persists user preferences (language, theme, naming
// policy, database connection fields, session state) in a sqlite database.
// The store is an explicit handle owned by the caller; there is no global
// instance.
package settings

// Setting is one persisted preference row.
type Setting struct {
	Category    string `json:"category"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description,omitempty"`
}

// Preference categories.
const (
	CategoryUI       = "ui"
	CategoryNaming   = "naming"
	CategoryDatabase = "database"
	CategorySession  = "session"
)
