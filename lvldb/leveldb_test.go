// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDB_Iterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, db.Put([]byte(k), []byte("v"+k)))
	}

	var keys []string
	iter := db.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")})
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	iter.Release()
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a1", "a2", "a3"}, keys)

	store := kv.Bucket("a").NewStore(db)
	iter = store.Iterate(kv.Range{})
	require.True(t, iter.Last())
	assert.Equal(t, "3", string(iter.Key()))
	assert.Equal(t, "va3", string(iter.Value()))
	iter.Release()
}
