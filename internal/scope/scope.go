// Package scope implements the operations on .was oscilloscope-setting
// documents, including engineering-notation input parsing.
package scope

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lab-automation/backend/internal/docfile"
	"github.com/lab-automation/backend/internal/models"
)

// multipliers maps the accepted engineering suffixes, matched against the
// final character of the input only.
var multipliers = map[byte]float64{
	'k': 1e3,
	'm': 1e-3,
	'u': 1e-6,
	'n': 1e-9,
	'p': 1e-12,
}

// Load reads the scope document at path.
func Load(path string) (*models.ScopeDocument, error) {
	var doc models.ScopeDocument
	if err := docfile.ReadJSON(path, &doc); err != nil {
		return nil, err
	}
	if doc.Type == "" {
		doc.Type = models.DocTypeScope
	}
	return &doc, nil
}

// Save writes the scope document to path.
func Save(path string, doc *models.ScopeDocument) error {
	return docfile.WriteJSON(path, doc)
}

// ParseEngineeringTime converts inputs like "100k", "2m" or "0.001" to
// seconds. A trailing k, m, u, n or p applies the matching power of ten;
// a bare numeric string parses directly. Decimal commas are accepted.
func ParseEngineeringTime(input string) (float64, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input)), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}
	if mult, ok := multipliers[s[len(s)-1]]; ok {
		v, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return 0, fmt.Errorf("time value %q: %w", input, err)
		}
		return v * mult, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("time value %q: %w", input, err)
	}
	return v, nil
}

// ParseVolts parses a plain numeric volts-per-division value. Decimal commas
// are accepted.
func ParseVolts(input string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("volt value %q: %w", input, err)
	}
	return v, nil
}

// SetDivisions applies both per-division inputs to the document. The document
// is modified only when both inputs parse; a failure on either leaves it
// untouched.
func SetDivisions(doc *models.ScopeDocument, timeInput, voltInput string) error {
	t, err := ParseEngineeringTime(timeInput)
	if err != nil {
		return err
	}
	v, err := ParseVolts(voltInput)
	if err != nil {
		return err
	}
	doc.Settings.TimePerDiv = t
	doc.Settings.VoltPerDiv = v
	return nil
}
