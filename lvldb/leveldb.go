// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store over goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/stakepool/kv"
)

const minCacheMiB = 16

var _ kv.Store = (*LevelDB)(nil)

// Options tunes a database. Values below the minimum are raised to it.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, minCacheMiB)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv.Store backed by a goleveldb database.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %s", path)
	}
	return open(stg, opts)
}

// NewMem opens a database held in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, nil) }
func (l *LevelDB) Has(key []byte) (bool, error)   { return l.db.Has(key, nil) }
func (l *LevelDB) Put(key, val []byte) error      { return l.db.Put(key, val, nil) }
func (l *LevelDB) Delete(key []byte) error        { return l.db.Delete(key, nil) }
func (l *LevelDB) Iterate(r kv.Range) kv.Iterator { return l.db.NewIterator(toUtil(r), nil) }

func toUtil(r kv.Range) *util.Range {
	return &util.Range{Start: r.Start, Limit: r.Limit}
}

// Close releases the database. Subsequent calls fail.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
