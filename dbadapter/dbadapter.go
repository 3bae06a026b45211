// Package dbadapter persists a chainvault.Container to an on-disk
// LevelDB database, grounded on the key/value store wrapper in
// Fantom-foundation/Carmen's backend/ldb.go: a goleveldb.DB opened
// once and driven through its Batch and Iterator types.
package dbadapter

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/kaelfrost/chainvault"
)

// Store is a LevelDB-backed projection target. Unlike Carmen's
// TableSpace keys, which split one database into many logical stores,
// a Store here owns its whole database: one Container projects to one
// on-disk directory.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a LevelDB database at path.
func Open(path string, options *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("dbadapter: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func indexKey(i uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], i)
	return k[:]
}

// Export snapshots c's current elements into the store, one key per
// element ordered by append sequence, replacing whatever the store
// previously held. It is a point-in-time snapshot the same way
// Container.Iter is: concurrent Appends during Export may or may not
// be included.
func Export[T any](s *Store, c *chainvault.Container[T]) error {
	if err := s.clear(); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	it := c.Iter()
	var i uint64
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("dbadapter: encode element %d: %w", i, err)
		}
		batch.Put(indexKey(i), data)
		i++
	}
	return s.db.Write(batch, nil)
}

// Import replaces c's contents with every element currently recorded
// in the store, in append order, as a single Clear-then-Extend.
func Import[T any](s *Store, c *chainvault.Container[T]) error {
	iter := s.db.NewIterator(&util.Range{}, nil)
	defer iter.Release()

	values := make([]T, 0)
	for iter.Next() {
		var v T
		if err := json.Unmarshal(iter.Value(), &v); err != nil {
			return fmt.Errorf("dbadapter: decode element: %w", err)
		}
		values = append(values, v)
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("dbadapter: scan: %w", err)
	}

	if err := c.Clear(); err != nil {
		return err
	}
	c.Extend(values)
	return nil
}

func (s *Store) clear() error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("dbadapter: scan for clear: %w", err)
	}
	return s.db.Write(batch, nil)
}
