package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/geostack-dev/geostack/pkg/fsutil"
	log "github.com/sirupsen/logrus"
)

// Store reads and writes the registry file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store for path. "~/" is expanded to the home directory.
func NewStore(path string) (*Store, error) {
	expanded, err := fsutil.ExpandHomePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve registry path: %w", err)
	}

	return &Store{path: expanded}, nil
}

// Path returns the absolute path of the registry file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry. A missing file yields an empty registry.
func (s *Store) Load() (*Registry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("registry %s does not exist yet", s.path)

		return New(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", s.path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	log.Debugf("loaded %d node(s) from %s", reg.Len(), s.path)

	return reg, nil
}

// Save replaces the registry file with reg. The previous file stays intact
// if the write fails.
func (s *Store) Save(reg *Registry) error {
	data, err := reg.Bytes()
	if err != nil {
		return err
	}

	err = fsutil.WriteFileAtomic(s.path, data, fsutil.FilePermUserOnly)
	if err != nil {
		return fmt.Errorf("save registry: %w", err)
	}

	log.Debugf("saved %d node(s) to %s", reg.Len(), s.path)

	return nil
}

// Get loads the registry and returns the record for name.
func (s *Store) Get(name string) (Record, bool, error) {
	reg, err := s.Load()
	if err != nil {
		return Record{}, false, err
	}

	record, ok := reg.Get(name)

	return record, ok, nil
}

// Put loads the registry, inserts or replaces record and saves.
func (s *Store) Put(record Record) error {
	reg, err := s.Load()
	if err != nil {
		return err
	}

	err = reg.Put(record)
	if err != nil {
		return err
	}

	return s.Save(reg)
}

// Remove loads the registry, removes name and saves. It reports whether a
// record was removed; an absent name leaves the file untouched.
func (s *Store) Remove(name string) (bool, error) {
	reg, err := s.Load()
	if err != nil {
		return false, err
	}

	if _, ok := reg.Get(name); !ok {
		return false, nil
	}

	reg.Remove(name)

	return true, s.Save(reg)
}

// Records loads the registry and returns every record.
func (s *Store) Records() ([]Record, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}

	return reg.Records(), nil
}

// Clear deletes the registry file. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete registry %s: %w", s.path, err)
	}

	log.Debugf("cleared registry %s", s.path)

	return nil
}
