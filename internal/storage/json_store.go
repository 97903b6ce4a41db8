package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/models"
)

// JSONStore keeps the whole document in one JSON file, compatible with the
// legacy data.json layout. It is not safe for concurrent use.
type JSONStore struct {
	path string
	doc  *models.Document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	doc := models.NewDocument()
	s.doc = &doc
	return s.save()
}

// Load reads the file. A missing file gives an empty document. A file that
// does not parse is logged and also treated as empty, so the next save
// overwrites it.
func (s *JSONStore) Load() error {
	doc := models.NewDocument()
	s.doc = &doc

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var loaded models.Document
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Error("Data file is corrupt, starting from an empty document", "path", s.path, "error", err)
		return nil
	}
	loaded.Normalize()
	s.doc = &loaded
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return errors.ErrNotInitialized
	}
	return nil
}

func (s *JSONStore) GetDocument() (models.Document, error) {
	if err := s.loaded(); err != nil {
		return models.Document{}, err
	}
	doc := *s.doc
	doc.FixedSchedule = slices.Clone(s.doc.FixedSchedule)
	doc.Activities = slices.Clone(s.doc.Activities)
	// Normalize copies the generated schedule.
	doc.Normalize()
	return doc, nil
}

func (s *JSONStore) SaveDocument(doc models.Document) error {
	doc.Normalize()
	s.doc = &doc
	return s.save()
}

func (s *JSONStore) AddActivity(a models.Activity) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.ActivityByName(a.Name); ok {
		return fmt.Errorf("activity %q: %w", a.Name, errors.ErrAlreadyExists)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.doc.Activities = append(s.doc.Activities, a)
	return s.save()
}

func (s *JSONStore) GetActivities() ([]models.Activity, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return slices.Clone(s.doc.Activities), nil
}

// DeleteActivity removes every activity whose id or name equals ref.
func (s *JSONStore) DeleteActivity(ref string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	kept := s.doc.Activities[:0]
	for _, a := range s.doc.Activities {
		if a.ID != ref && a.Name != ref {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(s.doc.Activities) {
		return fmt.Errorf("activity %q: %w", ref, errors.ErrNotFound)
	}
	s.doc.Activities = kept
	return s.save()
}

func (s *JSONStore) AddFixedBlock(b models.FixedBlock) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.doc.FixedSchedule = append(s.doc.FixedSchedule, b)
	return s.save()
}

func (s *JSONStore) GetFixedBlocks() ([]models.FixedBlock, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return slices.Clone(s.doc.FixedSchedule), nil
}

// DeleteFixedBlock removes every fixed block whose id or name equals ref.
// Blocks from legacy files carry no id and are addressed by name.
func (s *JSONStore) DeleteFixedBlock(ref string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	before := len(s.doc.FixedSchedule)
	s.doc.FixedSchedule = slices.DeleteFunc(s.doc.FixedSchedule, func(b models.FixedBlock) bool {
		return b.ID == ref || b.Name == ref
	})
	if len(s.doc.FixedSchedule) == before {
		return fmt.Errorf("fixed block %q: %w", ref, errors.ErrNotFound)
	}
	return s.save()
}

func (s *JSONStore) GetGeneratedSchedule() (models.WeekSchedule, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return s.doc.GeneratedSchedule.Clone(), nil
}

func (s *JSONStore) SaveGeneratedSchedule(ws models.WeekSchedule) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.GeneratedSchedule = ws.Normalized()
	return s.save()
}

func (s *JSONStore) GetConstraints() (*models.Constraints, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if s.doc.Constraints == nil {
		return nil, nil
	}
	c := *s.doc.Constraints
	return &c, nil
}

func (s *JSONStore) SaveConstraints(c models.Constraints) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Constraints = &c
	return s.save()
}

// Reset empties the document but keeps the file.
func (s *JSONStore) Reset() error {
	doc := models.NewDocument()
	s.doc = &doc
	return s.save()
}

// GetConfigPath returns the path of the data file. Running two weekgrid
// processes against the same file is not supported.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
