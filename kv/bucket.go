// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix carving a logical store out of a shared one.
type Bucket string

// NewStore returns the view of src restricted to the bucket. Keys passed to
// and returned from the view carry no prefix.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{prefix: []byte(b), src: src}
}

type bucketStore struct {
	prefix []byte
	src    Store
}

func (s *bucketStore) key(k []byte) []byte {
	full := make([]byte, 0, len(s.prefix)+len(k))
	return append(append(full, s.prefix...), k...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.key(key)) }

func (s *bucketStore) Iterate(r Range) Iterator {
	inner := Range{Start: s.key(r.Start)}
	if len(r.Limit) == 0 {
		inner.Limit = util.BytesPrefix(s.prefix).Limit
	} else {
		inner.Limit = s.key(r.Limit)
	}
	return &bucketIterator{Iterator: s.src.Iterate(inner), strip: len(s.prefix)}
}

// bucketIterator strips the bucket prefix from keys.
type bucketIterator struct {
	Iterator
	strip int
}

func (it *bucketIterator) Key() []byte {
	if k := it.Iterator.Key(); len(k) >= it.strip {
		return k[it.strip:]
	}
	return nil
}
