// Package bbolt implements the ports.PatternStore interface using bbolt
// (embedded B+ tree). A top-level "sets" bucket holds one sub-bucket per set
// name, each with a binary "patterns" blob and a gob "meta" record. Writes are
// transactional, so a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/acm/internal/ports"
)

// Bucket keys
var (
	bucketSets  = []byte("sets")
	keyPatterns = []byte("patterns")
	keyMeta     = []byte("meta")
)

// ErrInvalidName is returned for empty set names.
var ErrInvalidName = errors.New("invalid set name")

// Store implements ports.PatternStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// IsLockTimeout reports whether err comes from failing to acquire the
// database file lock, which usually means a running server holds it.
func IsLockTimeout(err error) bool {
	return errors.Is(err, bolt.ErrTimeout)
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSet persists a pattern set, overwriting any prior set of that name.
// CreatedAt is kept from the prior set when one exists.
func (s *Store) SaveSet(set *ports.PatternSet) error {
	if set == nil {
		return fmt.Errorf("nil pattern set")
	}
	if set.Name == "" {
		return ErrInvalidName
	}

	patternsBlob := encodePatterns(set.Patterns)
	now := s.now().Unix()

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketSets)
		if err != nil {
			return err
		}
		sb, err := root.CreateBucketIfNotExists([]byte(set.Name))
		if err != nil {
			return err
		}

		meta := setMeta{Count: len(set.Patterns), CreatedAt: now, UpdatedAt: now}
		if v := sb.Get(keyMeta); v != nil {
			var prev setMeta
			if err := decodeGob(v, &prev); err == nil {
				meta.CreatedAt = prev.CreatedAt
			}
		}
		metaBlob, err := encodeGob(meta)
		if err != nil {
			return fmt.Errorf("encode meta: %w", err)
		}

		if err := sb.Put(keyPatterns, patternsBlob); err != nil {
			return err
		}
		if err := sb.Put(keyMeta, metaBlob); err != nil {
			return err
		}
		set.CreatedAt = meta.CreatedAt
		set.UpdatedAt = meta.UpdatedAt
		return nil
	})
}

// LoadSet retrieves a pattern set by name.
// Returns nil, nil if no such set exists.
func (s *Store) LoadSet(name string) (*ports.PatternSet, error) {
	var patternsBlob, metaBlob []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketSets)
		if root == nil {
			return nil
		}
		sb := root.Bucket([]byte(name))
		if sb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := sb.Get(keyPatterns); v != nil {
			patternsBlob = make([]byte, len(v))
			copy(patternsBlob, v)
		}
		if v := sb.Get(keyMeta); v != nil {
			metaBlob = make([]byte, len(v))
			copy(metaBlob, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if patternsBlob == nil {
		return nil, nil
	}

	patterns, err := decodePatterns(patternsBlob)
	if err != nil {
		return nil, fmt.Errorf("decode set %q: %w", name, err)
	}

	set := &ports.PatternSet{Name: name, Patterns: patterns}
	if metaBlob != nil {
		var meta setMeta
		if err := decodeGob(metaBlob, &meta); err != nil {
			return nil, fmt.Errorf("decode meta %q: %w", name, err)
		}
		set.CreatedAt = meta.CreatedAt
		set.UpdatedAt = meta.UpdatedAt
	}
	return set, nil
}

// ListSets returns summaries of every stored set, sorted by name
// (bbolt iterates keys in byte order).
func (s *Store) ListSets() ([]ports.SetInfo, error) {
	var infos []ports.SetInfo

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketSets)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			info := ports.SetInfo{Name: string(k)}
			if v := root.Bucket(k).Get(keyMeta); v != nil {
				var meta setMeta
				if err := decodeGob(v, &meta); err != nil {
					return fmt.Errorf("decode meta %q: %w", k, err)
				}
				info.Count = meta.Count
				info.CreatedAt = meta.CreatedAt
				info.UpdatedAt = meta.UpdatedAt
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// DeleteSet removes a set.
// Idempotent: deleting a nonexistent set is not an error.
func (s *Store) DeleteSet(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketSets)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

var _ ports.PatternStore = (*Store)(nil)
