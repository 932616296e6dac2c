// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucket_GetPut(t *testing.T) {
	db := newStore(t)
	b := kv.Bucket("b/").NewStore(db)

	require.NoError(t, b.Put([]byte("k"), []byte("v")))

	v, err := b.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	raw, err := db.Get([]byte("b/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), raw)

	has, err := b.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, b.Delete([]byte("k")))
	_, err = b.Get([]byte("k"))
	assert.True(t, b.IsNotFound(err))
}

func TestBucket_Isolation(t *testing.T) {
	db := newStore(t)
	a := kv.Bucket("a").NewStore(db)
	ab := kv.Bucket("ab").NewStore(db)

	require.NoError(t, a.Put([]byte("1"), []byte("a1")))
	require.NoError(t, ab.Put([]byte("1"), []byte("ab1")))

	has, err := a.Has([]byte("b1"))
	require.NoError(t, err)
	assert.True(t, has, "bucket a sees keys of ab as b-prefixed")

	has, err = ab.Has([]byte("b1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBucket_Iterate(t *testing.T) {
	db := newStore(t)
	require.NoError(t, db.Put([]byte("a9"), []byte("outside")))
	require.NoError(t, db.Put([]byte("c0"), []byte("outside")))

	b := kv.Bucket("b").NewStore(db)
	for _, k := range []string{"1", "2", "3", "4"} {
		require.NoError(t, b.Put([]byte(k), []byte("v"+k)))
	}

	collect := func(r kv.Range) []string {
		var keys []string
		iter := b.Iterate(r)
		defer iter.Release()
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		require.NoError(t, iter.Error())
		return keys
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, collect(kv.Range{}))
	assert.Equal(t, []string{"2", "3"}, collect(kv.Range{Start: []byte("2"), Limit: []byte("4")}))

	iter := b.Iterate(kv.Range{})
	defer iter.Release()
	require.True(t, iter.Last())
	assert.Equal(t, "4", string(iter.Key()))
	assert.Equal(t, "v4", string(iter.Value()))
	require.True(t, iter.Prev())
	assert.Equal(t, "3", string(iter.Key()))
	require.True(t, iter.First())
	assert.Equal(t, "1", string(iter.Key()))
}
