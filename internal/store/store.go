// Package store provides persistence for category mappings and receipts.
//
// The mapping store keeps keyword-to-category associations as an ordered YAML
// list. Order matters: the category resolution engine breaks substring-match
// ties by insertion order, so mappings are only ever appended, never
// reordered or deduplicated.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"

	"gopkg.in/yaml.v3"
)

// mappingFile is the on-disk YAML document shape.
type mappingFile struct {
	Mappings []models.CategoryMapping `yaml:"mappings"`
}

// MappingStore loads and saves the ordered keyword-to-category mapping list.
// All methods are safe for concurrent use; Append holds the write lock for
// the whole batch so a bulk learn keeps its relative order.
type MappingStore struct {
	path string
	mu   sync.RWMutex
	log  logging.Logger
}

// NewMappingStore creates a store backed by the given YAML file.
func NewMappingStore(path string, logger logging.Logger) *MappingStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &MappingStore{path: path, log: logger}
}

// Load reads all mappings in stored order. A missing file yields an empty
// list, not an error.
func (s *MappingStore) Load() ([]models.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked()
}

func (s *MappingStore) loadLocked() ([]models.CategoryMapping, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("Mappings file not found, starting empty",
				logging.Field{Key: "file", Value: s.path})
			return []models.CategoryMapping{}, nil
		}
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}

	var doc mappingFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing mappings file: %w", err)
	}

	s.log.Debug("Loaded category mappings",
		logging.Field{Key: "count", Value: len(doc.Mappings)},
		logging.Field{Key: "file", Value: s.path})
	return doc.Mappings, nil
}

// Append adds a batch of mappings to the end of the stored list. Keywords are
// normalized; entries with empty keywords are skipped. Duplicate keywords are
// allowed by design.
func (s *MappingStore) Append(batch []models.CategoryMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadLocked()
	if err != nil {
		return err
	}

	appended := 0
	for _, m := range batch {
		keyword := models.NormalizeKeyword(m.Keyword)
		if keyword == "" {
			continue
		}
		existing = append(existing, models.CategoryMapping{
			Keyword:  keyword,
			Category: models.ParseCategory(string(m.Category)),
		})
		appended++
	}

	if appended == 0 {
		return nil
	}

	if err := s.saveLocked(existing); err != nil {
		return err
	}

	s.log.Debug("Appended category mappings",
		logging.Field{Key: "count", Value: appended},
		logging.Field{Key: "file", Value: s.path})
	return nil
}

// SeedIfEmpty writes the seed mappings when the store holds none yet.
// It returns true when the seed was installed.
func (s *MappingStore) SeedIfEmpty(seed []models.CategoryMapping) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	if err := s.saveLocked(seed); err != nil {
		return false, err
	}

	s.log.Info("Installed seed category mappings",
		logging.Field{Key: "count", Value: len(seed)},
		logging.Field{Key: "file", Value: s.path})
	return true, nil
}

func (s *MappingStore) saveLocked(mappings []models.CategoryMapping) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(mappingFile{Mappings: mappings})
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("error writing mappings file: %w", err)
	}
	return nil
}
