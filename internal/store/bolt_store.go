package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"go.etcd.io/bbolt"
)

const (
	// BoltDB bucket holding one JSON document per tournament
	TournamentsBucket = "tournaments"
)

// BoltTournamentStore keeps tournaments as JSON documents in BoltDB. Bolt
// serialises write transactions, which makes the version check atomic.
type BoltTournamentStore struct {
	db *bbolt.DB
}

func NewBoltTournamentStore(dbPath string) (*BoltTournamentStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(TournamentsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltTournamentStore{db: db}, nil
}

func (s *BoltTournamentStore) Close() error {
	return s.db.Close()
}

// run executes fn but gives up once ctx is done. Bolt transactions cannot be
// interrupted, so an abandoned transaction may still commit later.
func (s *BoltTournamentStore) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return wrapBoltErr(err)
	case <-ctx.Done():
		return unavailable(ctx.Err())
	}
}

func (s *BoltTournamentStore) Create(ctx context.Context, t *bracket.Tournament) error {
	now := time.Now().UTC()
	t.Version = 1
	t.CreatedAt = now
	t.UpdatedAt = now

	id := []byte(t.ID)
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}

	return s.run(ctx, func() error {
		return s.db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(TournamentsBucket))
			if b.Get(id) != nil {
				return bracket.ErrAlreadyExists
			}
			return b.Put(id, data)
		})
	})
}

func (s *BoltTournamentStore) Get(ctx context.Context, id string) (*bracket.Tournament, error) {
	var t *bracket.Tournament
	err := s.run(ctx, func() error {
		return s.db.View(func(tx *bbolt.Tx) error {
			data := tx.Bucket([]byte(TournamentsBucket)).Get([]byte(id))
			if data == nil {
				return bracket.ErrNotFound
			}
			decoded, err := decode(data)
			t = decoded
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Save writes t if the stored version still equals t.Version. t is only
// updated once the write is known to have committed.
func (s *BoltTournamentStore) Save(ctx context.Context, t *bracket.Tournament) error {
	id := []byte(t.ID)
	expected := t.Version

	next := *t
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()
	encoded, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}

	err = s.run(ctx, func() error {
		return s.db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(TournamentsBucket))
			data := b.Get(id)
			if data == nil {
				return bracket.ErrNotFound
			}
			stored, err := decode(data)
			if err != nil {
				return err
			}
			if stored.Version != expected {
				return bracket.ErrVersionConflict
			}
			return b.Put(id, encoded)
		})
	})
	if err != nil {
		return err
	}

	t.Version = next.Version
	t.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *BoltTournamentStore) Delete(ctx context.Context, id string) error {
	return s.run(ctx, func() error {
		return s.db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(TournamentsBucket))
			if b.Get([]byte(id)) == nil {
				return bracket.ErrNotFound
			}
			return b.Delete([]byte(id))
		})
	})
}

func (s *BoltTournamentStore) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.run(ctx, func() error {
		return s.db.View(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(TournamentsBucket)).ForEach(func(k, v []byte) error {
				t, err := decode(v)
				if err != nil {
					return err
				}
				if t.CreatorID == creatorID {
					tournaments = append(tournaments, *t)
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tournaments, func(i, j int) bool {
		if !tournaments[i].CreatedAt.Equal(tournaments[j].CreatedAt) {
			return tournaments[i].CreatedAt.After(tournaments[j].CreatedAt)
		}
		return tournaments[i].ID < tournaments[j].ID
	})

	if offset >= len(tournaments) {
		return []bracket.Tournament{}, nil
	}
	end := offset + limit
	if end > len(tournaments) {
		end = len(tournaments)
	}
	return tournaments[offset:end], nil
}

func decode(data []byte) (*bracket.Tournament, error) {
	var t bracket.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament: %w", err)
	}
	return &t, nil
}

// wrapBoltErr passes domain errors through and marks everything else as a
// store failure.
func wrapBoltErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bracket.ErrNotFound),
		errors.Is(err, bracket.ErrVersionConflict),
		errors.Is(err, bracket.ErrAlreadyExists),
		errors.Is(err, bracket.ErrStoreUnavailable):
		return err
	default:
		return unavailable(err)
	}
}
