// Package models defines the document types persisted by the project,
// instrument, sweep and scope operations.
package models

import "time"

// Project is the sidecar document tying together one instrument file and the
// sets of sweep/scope files belonging to a test-automation project.
type Project struct {
	ProjectID   string    `json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
	LastOpened  time.Time `json:"last_opened"`
	ProjectName string    `json:"project_name"`
	InstFile    string    `json:"inst_file"`
	EffFiles    []string  `json:"eff_files"`
	WasFiles    []string  `json:"was_files"`
}

// FileNames returns every file referenced by the project, instrument file first.
func (p *Project) FileNames() []string {
	names := make([]string, 0, 1+len(p.EffFiles)+len(p.WasFiles))
	if p.InstFile != "" {
		names = append(names, p.InstFile)
	}
	names = append(names, p.EffFiles...)
	names = append(names, p.WasFiles...)
	return names
}

// HasFile reports whether name is already referenced by the project.
func (p *Project) HasFile(name string) bool {
	for _, n := range p.FileNames() {
		if n == name {
			return true
		}
	}
	return false
}
