// Package fixtures provides the immutable baseline records that seed the
// store at startup and on every reset.
package fixtures

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/okian/optiwork/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// analyticsFile holds the singleton analytics object.
const analyticsFile = "analytics.yaml"

// files maps each list collection to the YAML file it is decoded from.
var files = map[model.Collection]string{
	model.Users:       "users.yaml",
	model.Tasks:       "tasks.yaml",
	model.Skills:      "skills.yaml",
	model.Reports:     "reports.yaml",
	model.Performance: "performance.yaml",
	model.SkillGaps:   "skill_gaps.yaml",
	model.Training:    "training.yaml",
}

// Set is one complete baseline: a list per collection plus the analytics
// singleton. A Set is never mutated after loading; consumers clone from it.
type Set struct {
	collections map[model.Collection][]model.Record
	analytics   model.Record
}

// Embedded decodes the fixtures compiled into the binary.
func Embedded() (*Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return Load(sub)
}

// Dir decodes fixtures from a directory on disk.
func Dir(path string) (*Set, error) {
	return Load(os.DirFS(path))
}

// Load decodes every fixture file from fsys. All files must be present.
func Load(fsys fs.FS) (*Set, error) {
	s := &Set{collections: make(map[model.Collection][]model.Record, len(files))}
	for c, name := range files {
		var records []model.Record
		if err := decode(fsys, name, &records); err != nil {
			return nil, err
		}
		if records == nil {
			records = []model.Record{}
		}
		s.collections[c] = records
	}
	var analytics model.Record
	if err := decode(fsys, analyticsFile, &analytics); err != nil {
		return nil, err
	}
	if analytics == nil {
		analytics = model.Record{}
	}
	s.analytics = analytics
	return s, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingFixture, name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeFixture, name, err)
	}
	return nil
}

// Records returns fresh deep copies of the baseline records of c.
func (s *Set) Records(c model.Collection) []model.Record {
	return model.CloneAll(s.collections[c])
}

// Analytics returns a fresh deep copy of the analytics singleton.
func (s *Set) Analytics() model.Record {
	return s.analytics.Clone()
}

// Len returns the number of baseline records of c.
func (s *Set) Len(c model.Collection) int {
	return len(s.collections[c])
}
