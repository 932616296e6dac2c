// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/staker/reverts"
)

func TestAddSub(t *testing.T) {
	v, err := Add(uint256.NewInt(2), uint256.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v.Uint64())

	_, err = Add(new(uint256.Int).SetAllOne(), uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmetic)

	v, err = Sub(uint256.NewInt(3), uint256.NewInt(3))
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = Sub(uint256.NewInt(2), uint256.NewInt(3))
	assert.ErrorIs(t, err, reverts.ErrArithmetic)
}

func newRecord() *Record {
	r := NewRecord()
	r.Deposited = uint256.NewInt(1000)
	r.Withdrawn = uint256.NewInt(100)
	r.Active = uint256.NewInt(200)
	r.Inactive = uint256.NewInt(100)
	r.Delegated[2] = uint256.NewInt(250)
	r.Delegated[1] = uint256.NewInt(150)
	r.Delegated[3] = new(uint256.Int)
	r.Timelocks = []Timelock{
		{Amount: uint256.NewInt(120), UnlockEpoch: 5},
		{Amount: uint256.NewInt(80), UnlockEpoch: 9},
	}
	return r
}

func TestRecord_Totals(t *testing.T) {
	r := newRecord()

	delegated, err := r.TotalDelegated()
	require.NoError(t, err)
	assert.Equal(t, uint64(400), delegated.Uint64())

	timelocked, err := r.TotalTimelocked()
	require.NoError(t, err)
	assert.Equal(t, uint64(200), timelocked.Uint64())

	total, err := r.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(900), total.Uint64())

	balanced, err := r.Balanced()
	require.NoError(t, err)
	assert.True(t, balanced)

	assert.Equal(t, []PoolID{1, 2}, r.PoolIDs())
	assert.Equal(t, uint64(250), r.DelegatedTo(2).Uint64())
	assert.True(t, r.DelegatedTo(7).IsZero())
	assert.False(t, r.IsEmpty())
	assert.True(t, NewRecord().IsEmpty())
}

func TestRecord_Withdrawable(t *testing.T) {
	r := newRecord()

	for _, tc := range []struct {
		epoch Epoch
		want  uint64
	}{
		{0, 0},
		{4, 0},
		{5, 120},
		{8, 120},
		{9, 200},
		{100, 200},
	} {
		got, err := r.Withdrawable(tc.epoch)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Uint64(), "epoch %d", tc.epoch)
	}
}

func TestRecord_Clone(t *testing.T) {
	r := newRecord()
	c := r.Clone()
	assert.Equal(t, r, c)

	c.Active.SetUint64(1)
	c.Delegated[1].SetUint64(1)
	c.Timelocks[0].Amount.SetUint64(1)
	c.Delegated[9] = uint256.NewInt(1)

	assert.Equal(t, uint64(200), r.Active.Uint64())
	assert.Equal(t, uint64(150), r.Delegated[1].Uint64())
	assert.Equal(t, uint64(120), r.Timelocks[0].Amount.Uint64())
	assert.NotContains(t, r.Delegated, PoolID(9))
}
