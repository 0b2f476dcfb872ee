// Package sweep implements the operations on .eff efficiency-sweep documents.
package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lab-automation/backend/internal/docfile"
	"github.com/lab-automation/backend/internal/models"
)

// Bounds applied to the points field of a range-mode sweep.
const (
	MinPoints = 2
	MaxPoints = 1000
)

// Load reads the sweep document at path.
func Load(path string) (*models.SweepDocument, error) {
	var doc models.SweepDocument
	if err := docfile.ReadJSON(path, &doc); err != nil {
		return nil, err
	}
	if doc.Type == "" {
		doc.Type = models.DocTypeEfficiency
	}
	if doc.Data == nil {
		doc.Data = map[string]models.SweepSpec{}
	}
	return &doc, nil
}

// Save writes the sweep document to path.
func Save(path string, doc *models.SweepDocument) error {
	return docfile.WriteJSON(path, doc)
}

// ParseValueList parses a comma-separated list of floats. Blank tokens are
// skipped; any malformed token fails the whole parse.
func ParseValueList(input string) ([]float64, error) {
	var out []float64
	for _, tok := range strings.Split(input, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("sweep value %q: %w", tok, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SetList replaces the spec of axis with an explicit value list parsed from
// input. Malformed input leaves the stored spec untouched and reports the
// parse failure to the caller.
func SetList(doc *models.SweepDocument, axis, input string) error {
	values, err := ParseValueList(input)
	if err != nil {
		return err
	}
	ensureData(doc)
	doc.Data[axis] = models.SweepSpec{Values: values}
	return nil
}

// SetRange replaces the spec of axis with a start/stop/points range,
// clamping points to [MinPoints, MaxPoints].
func SetRange(doc *models.SweepDocument, axis string, start, stop float64, points int) {
	if points < MinPoints {
		points = MinPoints
	}
	if points > MaxPoints {
		points = MaxPoints
	}
	ensureData(doc)
	doc.Data[axis] = models.SweepSpec{Range: &models.SweepRange{Start: start, Stop: stop, Points: points}}
}

func ensureData(doc *models.SweepDocument) {
	if doc.Data == nil {
		doc.Data = map[string]models.SweepSpec{}
	}
}

// ValidateVariables checks the document's sweep and measured variable names,
// when present, against those extracted from the associated instrument
// document.
func ValidateVariables(doc *models.SweepDocument, setpointVars, measuredVars []string) error {
	if doc.SweepVariable != "" && !contains(setpointVars, doc.SweepVariable) {
		return fmt.Errorf("sweep variable %q is not a configured setpoint variable", doc.SweepVariable)
	}
	if doc.MeasuredVariable != "" && !contains(measuredVars, doc.MeasuredVariable) {
		return fmt.Errorf("measured variable %q is not a configured measured variable", doc.MeasuredVariable)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
