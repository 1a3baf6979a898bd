// dao/memory_store.go
package dao

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// Fixtures is the YAML layout read by MemoryStore.
type Fixtures struct {
	Subjects    []model.Subject    `yaml:"subjects"`
	Records     []model.Permy      `yaml:"records"`
	Assignments []model.Assignment `yaml:"assignments"`
}

// MemoryStore serves fixtures held in memory. It is read-only once built.
type MemoryStore struct {
	subjects map[string]model.Subject
	records  map[string]model.Permy
	assigned map[string][]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(f Fixtures) (*MemoryStore, error) {
	s := &MemoryStore{
		subjects: make(map[string]model.Subject, len(f.Subjects)),
		records:  make(map[string]model.Permy, len(f.Records)),
		assigned: make(map[string][]string),
	}
	for _, subject := range f.Subjects {
		if subject.ID == "" {
			return nil, fmt.Errorf("%w: subject without id", permy_errors.ErrInvalidFixtures)
		}
		if subject.Type == "" {
			subject.Type = model.SubjectTypeUser
		}
		s.subjects[subject.ID] = subject
	}
	for _, record := range f.Records {
		if record.ID == "" {
			return nil, fmt.Errorf("%w: record without id", permy_errors.ErrInvalidFixtures)
		}
		s.records[record.ID] = record
	}
	for _, a := range f.Assignments {
		if _, ok := s.records[a.PermyID]; !ok {
			return nil, fmt.Errorf("%w: unknown record %q assigned to %q", permy_errors.ErrInvalidFixtures, a.PermyID, a.SubjectID)
		}
		s.assigned[a.SubjectID] = append(s.assigned[a.SubjectID], a.PermyID)
	}
	return s, nil
}

// LoadFixtures reads YAML fixtures from path.
func LoadFixtures(path string) (Fixtures, error) {
	var f Fixtures
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", permy_errors.ErrInvalidFixtures, err)
	}
	return f, nil
}

// LoadMemoryStore builds a MemoryStore from the fixtures at path.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	f, err := LoadFixtures(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(f)
}

func (s *MemoryStore) FindSubject(ctx context.Context, id string) (*model.Subject, error) {
	subject, ok := s.subjects[id]
	if !ok {
		return nil, permy_errors.ErrSubjectNotFound
	}
	return &subject, nil
}

func (s *MemoryStore) RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]engine.EncodedRecord, error) {
	ids := s.assigned[subjectID]
	out := make([]engine.EncodedRecord, 0, len(ids))
	for _, id := range ids {
		rule, ok := s.records[id].Rules[resourceKey]
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, engine.EncodedRecord(rule))
	}
	return out, nil
}
