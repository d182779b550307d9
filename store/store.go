// Package store persists finished sweep cells in a bolt database so that an
// interrupted or repeated sweep does not simulate them again.
package store

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/boltdb/bolt"
	"golang.org/x/xerrors"

	"github.com/shreekarashastry/selfishmining/simulation"
)

const cellsBucket = "cells"

// CellStore implements simulation.ResultStore on top of bolt.
type CellStore struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*CellStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, xerrors.Errorf("opening cell store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cellsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, xerrors.Errorf("creating %s bucket: %w", cellsBucket, err)
	}
	return &CellStore{db: db}, nil
}

func (s *CellStore) Close() error {
	return s.db.Close()
}

func (s *CellStore) Lookup(key simulation.CellKey) (simulation.CellResult, bool, error) {
	var (
		result simulation.CellResult
		found  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(cellsBucket)).Get(key.Hash().Bytes())
		if data == nil {
			return nil
		}
		found = true
		return gob.NewDecoder(bytes.NewReader(data)).Decode(&result)
	})
	if err != nil {
		return simulation.CellResult{}, false, xerrors.Errorf("decoding cell: %w", err)
	}
	return result, found, nil
}

func (s *CellStore) Save(key simulation.CellKey, result simulation.CellResult) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(result); err != nil {
		return xerrors.Errorf("encoding cell: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cellsBucket)).Put(key.Hash().Bytes(), buf.Bytes())
	})
}

// Len counts the stored cells.
func (s *CellStore) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(cellsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}
