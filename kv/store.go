// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store snapshots are persisted in.
package kv

type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// IsNotFound reports whether an error returned by Get means the key is absent.
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Iterator walks a key range in ascending key order. It must be released.
type Iterator interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range selects keys in [Start, Limit). A nil Limit is unbounded.
type Range struct {
	Start []byte
	Limit []byte
}

type Store interface {
	Getter
	Putter
	Iterate(r Range) Iterator
}
