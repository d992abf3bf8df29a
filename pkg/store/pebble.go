package store

import (
	"github.com/cockroachdb/pebble"
)

// PebbleStore is the Store implementation backing the sequencer: one
// durable pebble.DB keyed directly by the façade's path strings.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) ReadAll(path string) ([]byte, error) {
	val, closer, err := s.db.Get([]byte(path))
	if err == pebble.ErrNotFound {
		return nil, NotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *PebbleStore) WriteAll(path string, data []byte) error {
	return s.db.Set([]byte(path), data, pebble.Sync)
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PebbleStore)(nil)
