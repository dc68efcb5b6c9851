package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketRoster = []byte("roster")
	keyLatest    = []byte("latest")
)

// BoltStore keeps the snapshot in a bbolt database under roster/latest.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Load(_ context.Context) (*Snapshot, error) {
	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketRoster)
		if bk == nil {
			return nil
		}
		if v := bk.Get(keyLatest); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bbolt view: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (b *BoltStore) Save(_ context.Context, s *Snapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bucketRoster)
		if err != nil {
			return err
		}
		return bk.Put(keyLatest, raw)
	})
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
