package filekv

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Store keeps every snapshot in a single JSON object file, {key: value}.
// The whole file is rewritten on every Set, through a temporary file renamed over the original.
type Store struct {
	mu    sync.RWMutex
	path  string
	table map[string]json.RawMessage
}

var _ core.KVStore = (*Store)(nil)

// Open loads the file at path, creating its directory when needed. A missing file is an empty store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}
	s := &Store{path: path, table: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading storage file")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err = json.Unmarshal(data, &s.table); err != nil {
		return nil, errors.Wrapf(err, "decoding storage file %s", path)
	}
	return s, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// Set stores value under key. value must be valid JSON since the file is one JSON document.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return errors.Errorf("value of %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.table[key]
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	s.table[key] = cp
	if err := s.flush(); err != nil {
		if had {
			s.table[key] = prev
		} else {
			delete(s.table, key)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.table[key]
	if !had {
		return nil
	}
	delete(s.table, key)
	if err := s.flush(); err != nil {
		s.table[key] = prev
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.table, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding storage file")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary storage file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing storage file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing storage file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing storage file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing storage file")
}
