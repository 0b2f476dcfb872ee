// Package project implements the project-document operations: creating a
// project with its instrument file, opening an existing one, and attaching
// generated or pre-existing sweep/scope files.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lab-automation/backend/internal/docfile"
	"github.com/lab-automation/backend/internal/models"
)

// Naming is the advanced filename-suffixing policy, configurable per file kind.
type Naming struct {
	Advanced bool
	Inst     bool
	Eff      bool
	Was      bool
}

const timestampLayout = "20060102_150405"

// Store manages the project documents inside a single directory.
type Store struct {
	dir    string
	naming Naming
	now    func() time.Time
}

// NewStore returns a store rooted at dir with the given naming policy.
func NewStore(dir string, naming Naming) *Store {
	return &Store{dir: dir, naming: naming, now: time.Now}
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string { return s.dir }

func (s *Store) fileName(base, ext string, kindEnabled bool) string {
	if s.naming.Advanced && kindEnabled {
		return fmt.Sprintf("%s_%s%s", base, s.now().Format(timestampLayout), ext)
	}
	return base + ext
}

// Create generates a new project named name in the store directory, together
// with an eagerly written empty instrument document.
func (s *Store) Create(name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is empty")
	}
	now := s.now()
	p := &models.Project{
		ProjectID:   uuid.New().String(),
		CreatedAt:   now,
		LastOpened:  now,
		ProjectName: name,
		InstFile:    s.fileName(name, ".inst", s.naming.Inst),
		EffFiles:    []string{},
		WasFiles:    []string{},
	}
	if err := docfile.WriteJSON(filepath.Join(s.dir, p.InstFile), models.NewInstrumentDocument()); err != nil {
		return nil, err
	}
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Open parses the project sidecar at path. The returned project's LastOpened
// is refreshed in memory only; a subsequent Save persists it.
func Open(path string) (*models.Project, error) {
	var p models.Project
	if err := docfile.ReadJSON(path, &p); err != nil {
		return nil, err
	}
	if p.EffFiles == nil {
		p.EffFiles = []string{}
	}
	if p.WasFiles == nil {
		p.WasFiles = []string{}
	}
	p.LastOpened = time.Now()
	return &p, nil
}

// Path returns the sidecar filename for p, derived from the project name.
func (s *Store) Path(p *models.Project) string {
	return filepath.Join(s.dir, p.ProjectName+".json")
}

// Save writes the project sidecar.
func (s *Store) Save(p *models.Project) error {
	return docfile.WriteJSON(s.Path(p), p)
}

// AttachGenerated creates a default-content document of the kind named by ext
// (".eff" or ".was"), links it into the project and persists the project.
// Duplicate names are never appended to the list; a file already on disk is
// re-linked without being rewritten.
func (s *Store) AttachGenerated(p *models.Project, ext, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("file name is empty")
	}
	var name string
	var content any
	switch ext {
	case ".eff":
		name = s.fileName(base, ext, s.naming.Eff)
		content = models.NewSweepDocument()
	case ".was":
		name = s.fileName(base, ext, s.naming.Was)
		content = models.NewScopeDocument()
	default:
		return "", docfile.NewError(docfile.UnsupportedKind, base+ext,
			fmt.Errorf("cannot generate %q files", ext))
	}
	full := filepath.Join(s.dir, name)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		if err := docfile.WriteJSON(full, content); err != nil {
			return "", err
		}
	}
	appendFile(p, ext, name)
	if err := s.Save(p); err != nil {
		return "", err
	}
	return name, nil
}

// AttachExisting links an already-existing .eff or .was file into the project
// and persists it. Any other extension fails with an unsupported-kind error,
// leaving the project's file lists unchanged.
func (s *Store) AttachExisting(p *models.Project, filePath string) error {
	name := filepath.Base(filePath)
	ext := filepath.Ext(name)
	switch ext {
	case ".eff", ".was":
		appendFile(p, ext, name)
	default:
		return docfile.NewError(docfile.UnsupportedKind, filePath,
			fmt.Errorf("file type %q is not allowed", ext))
	}
	return s.Save(p)
}

func appendFile(p *models.Project, ext, name string) {
	list := &p.EffFiles
	if ext == ".was" {
		list = &p.WasFiles
	}
	for _, n := range *list {
		if n == name {
			return
		}
	}
	*list = append(*list, name)
}
