// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/rewards"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

var _ rewards.View = (*State)(nil)

var n = uint256.NewInt

type fixture struct {
	alice, bob, operator thor.Address
	records              map[thor.Address]*stakes.Record
	pools                []*pool.Pool
}

func newFixture() *fixture {
	f := &fixture{
		alice:    datagen.RandAddress(),
		bob:      datagen.RandAddress(),
		operator: datagen.RandAddress(),
	}
	alice := stakes.NewRecord()
	alice.Deposited = n(1000)
	alice.Active = n(200)
	alice.Inactive = n(100)
	alice.Delegated[1] = n(500)
	alice.Timelocks = []stakes.Timelock{{Amount: n(200), UnlockEpoch: 12}}

	bob := stakes.NewRecord()
	bob.Deposited = n(400)
	bob.Withdrawn = n(100)
	bob.Delegated[1] = n(100)
	bob.Delegated[2] = n(200)

	f.records = map[thor.Address]*stakes.Record{f.alice: alice, f.bob: bob}
	f.pools = []*pool.Pool{
		{ID: 2, Operator: f.operator, OperatorShare: fixedpoint.MustFraction(1, 2), Makers: []thor.Address{}, TotalDelegated: n(200)},
		{ID: 1, Operator: f.operator, OperatorShare: fixedpoint.MustFraction(1, 10), Makers: []thor.Address{datagen.RandAddress()}, TotalDelegated: n(600)},
	}
	return f
}

func TestState_View(t *testing.T) {
	f := newFixture()
	s, err := New(7, 3, f.records, f.pools)
	require.NoError(t, err)

	assert.Equal(t, stakes.Epoch(7), s.Epoch())
	assert.Equal(t, stakes.PoolID(3), s.LastPoolID())

	total, err := s.TotalDelegated()
	require.NoError(t, err)
	assert.Equal(t, uint64(800), total.Uint64())

	pools := s.Pools()
	require.Len(t, pools, 2)
	assert.Equal(t, stakes.PoolID(1), pools[0].ID)
	assert.Equal(t, stakes.PoolID(2), pools[1].ID)

	p, err := s.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), p.TotalDelegated.Uint64())

	delegations, err := s.Delegations(1)
	require.NoError(t, err)
	require.Len(t, delegations, 2)
	assert.True(t, delegations[0].Owner.Compare(delegations[1].Owner) < 0)

	_, err = s.Pool(3)
	assert.ErrorIs(t, err, reverts.ErrPoolNotFound)
	_, err = s.Delegations(3)
	assert.ErrorIs(t, err, reverts.ErrPoolNotFound)
}

func TestState_Immutable(t *testing.T) {
	f := newFixture()
	s, err := New(7, 3, f.records, f.pools)
	require.NoError(t, err)

	f.records[f.alice].Delegated[1].SetUint64(1)
	f.pools[1].Makers[0] = thor.Address{}

	p, err := s.Pool(1)
	require.NoError(t, err)
	assert.False(t, p.Makers[0].IsZero())
	p.TotalDelegated.SetUint64(0)

	records := s.Records()
	assert.Equal(t, uint64(500), records[f.alice].Delegated[1].Uint64())

	again, err := s.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), again.TotalDelegated.Uint64())
}

func TestState_Inconsistent(t *testing.T) {
	f := newFixture()
	f.pools[0].TotalDelegated = n(201)
	_, err := New(7, 3, f.records, f.pools)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)

	f = newFixture()
	_, err = New(7, 3, f.records, f.pools[:1])
	assert.ErrorIs(t, err, reverts.ErrPoolNotFound)

	f = newFixture()
	_, err = New(7, 1, f.records, f.pools)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)
}

func TestState_EncodeDecode(t *testing.T) {
	f := newFixture()
	s, err := New(7, 3, f.records, f.pools)
	require.NoError(t, err)

	data, err := s.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Epoch(), decoded.Epoch())
	assert.Equal(t, s.LastPoolID(), decoded.LastPoolID())
	assert.Equal(t, s.Records(), decoded.Records())
	assert.Equal(t, s.Pools(), decoded.Pools())

	h1, err := s.Hash()
	require.NoError(t, err)
	h2, err := decoded.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	_, err = Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestState_Dump(t *testing.T) {
	f := newFixture()
	s, err := New(7, 3, f.records, f.pools)
	require.NoError(t, err)

	out := s.Dump()
	assert.Contains(t, out, "Epoch: (stakes.Epoch) 7")
	assert.Contains(t, out, "LastPoolID: (stakes.PoolID) 3")
}

func TestStore(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	_, err = store.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(1)
	assert.ErrorIs(t, err, ErrNotFound)

	f := newFixture()
	for _, epoch := range []stakes.Epoch{3, 256, 9} {
		s, err := New(epoch, 3, f.records, f.pools)
		require.NoError(t, err)
		require.NoError(t, store.Save(s))
	}

	loaded, err := store.Load(9)
	require.NoError(t, err)
	assert.Equal(t, stakes.Epoch(9), loaded.Epoch())

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, stakes.Epoch(256), latest.Epoch())

	require.NoError(t, store.Delete(256))
	latest, err = store.Latest()
	require.NoError(t, err)
	assert.Equal(t, stakes.Epoch(9), latest.Epoch())
}
