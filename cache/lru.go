// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache memoizes pure computations.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a bounded memo table counting its hits and misses.
type LRU struct {
	*lru.Cache
	hit, miss atomic.Int64
}

// NewLRU fails unless maxSize > 0.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Loader computes the value of a missing key.
type Loader func(key any) (any, error)

// GetOrLoad returns the cached value or stores the loaded one.
// Failed loads are not cached. Concurrent misses of the same key may each load it.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hit.Add(1)
		return v, nil
	}
	l.miss.Add(1)
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the hit and miss counts of GetOrLoad.
func (l *LRU) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

// HitRate is hits over lookups, zero before the first lookup.
func (l *LRU) HitRate() float64 {
	hit, miss := l.Stats()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}
