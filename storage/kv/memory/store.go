package memkv

import (
	"context"
	"sync"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Store keeps snapshots in memory. Used by tests and the `memory` storage driver.
type Store struct {
	sync.RWMutex
	table map[string][]byte
}

var _ core.KVStore = (*Store)(nil)

func Open() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	value, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return copyBytes(value), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	s.table[key] = copyBytes(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.table, key)
	return nil
}

func (s *Store) Close() error {
	return nil
}

func copyBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
