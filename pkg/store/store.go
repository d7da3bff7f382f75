// Package store persists model state snapshots in a bolt database, so an
// application can restore its component state across runs.
//
// Snapshots are stored per subtree root, one entry per model cell, with
// JSON-encoded values. Only JSON-encodable values survive a round trip;
// anything else is skipped with a log message.
package store

import (
	"encoding/json"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/saplingui/sapling/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

const bucketModels = "models"

// ErrNoSnapshot is returned by LoadModels when a root has no snapshot.
var ErrNoSnapshot = errors.New("no snapshot for root")

// Store is a handle to the snapshot database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketModels))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveModels writes the model values of one subtree root, replacing any
// previous snapshot for that root.
func (s *Store) SaveModels(root string, values map[string]any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketModels)).CreateBucketIfNotExists([]byte(root))
		if err != nil {
			return err
		}
		if err := clearBucket(b); err != nil {
			return err
		}
		for name, value := range values {
			encoded, err := json.Marshal(value)
			if err != nil {
				logger.Printf("skipping model %s/%s: %v", root, name, err)
				continue
			}
			if err := b.Put([]byte(name), encoded); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadModels reads the model values of one subtree root.
func (s *Store) LoadModels(root string) (map[string]any, error) {
	values := make(map[string]any)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketModels)).Bucket([]byte(root))
		if b == nil {
			return ErrNoSnapshot
		}
		return b.ForEach(func(k, v []byte) error {
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				logger.Printf("skipping model %s/%s: %v", root, string(k), err)
				return nil
			}
			values[string(k)] = value
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Roots lists the subtree roots that have snapshots.
func (s *Store) Roots() ([]string, error) {
	var roots []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketModels)).ForEach(func(k, v []byte) error {
			// Nested buckets have a nil value.
			if v == nil {
				roots = append(roots, string(k))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

func clearBucket(b *bolt.Bucket) error {
	var keys [][]byte
	err := b.ForEach(func(k, v []byte) error {
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
