package settings

import (
	"fmt"
	"strconv"
)

// Defaults seeds the store on first open. Existing rows are never overwritten.
var Defaults = []Setting{
	// Interface
	{Category: CategoryUI, Key: "language", Value: "en", ValueType: "string", Description: "Interface language code"},
	{Category: CategoryUI, Key: "dark_theme", Value: "false", ValueType: "bool", Description: "Enable the dark color theme"},

	// Advanced naming: timestamp suffixes on generated file names, per kind
	{Category: CategoryNaming, Key: "advanced", Value: "false", ValueType: "bool", Description: "Enable advanced file naming"},
	{Category: CategoryNaming, Key: "inst", Value: "false", ValueType: "bool", Description: "Timestamp suffix on instrument files"},
	{Category: CategoryNaming, Key: "eff", Value: "false", ValueType: "bool", Description: "Timestamp suffix on efficiency files"},
	{Category: CategoryNaming, Key: "was", Value: "false", ValueType: "bool", Description: "Timestamp suffix on oscilloscope files"},

	// Result-database connection fields (stored only, never dialed here)
	{Category: CategoryDatabase, Key: "host", Value: "localhost", ValueType: "string", Description: "Result database host"},
	{Category: CategoryDatabase, Key: "port", Value: "9090", ValueType: "int", Description: "Result database port"},
	{Category: CategoryDatabase, Key: "user", Value: "", ValueType: "string", Description: "Result database user"},
	{Category: CategoryDatabase, Key: "password", Value: "", ValueType: "string", Description: "Result database password"},
	{Category: CategoryDatabase, Key: "name", Value: "prometheus", ValueType: "string", Description: "Result database name"},

	// Session state
	{Category: CategorySession, Key: "last_project", Value: "", ValueType: "string", Description: "Path of the most recently opened project"},
}

// validateValue checks a value against its declared type before storage.
func validateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value must be an integer")
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value must be a number")
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("value must be 'true' or 'false'")
		}
	}
	return nil
}
