// Package storage persists game snapshots in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const gameKeyPrefix = "game/"

var ErrNotFound = errors.New("game not found in storage")

// Store wraps BadgerDB for game persistence
type Store struct {
	db *badger.DB
}

// Open opens a store rooted at dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gameKeyPrefix + id)
}

// SaveGame writes the record, replacing any earlier snapshot of the game.
func (s *Store) SaveGame(rec model.GameRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the stored record for id, or ErrNotFound.
func (s *Store) LoadGame(id string) (model.GameRecord, error) {
	var rec model.GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// ListGameIDs returns the ids of all stored games in key order.
func (s *Store) ListGameIDs() ([]string, error) {
	ids := []string{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gameKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})

	return ids, err
}
