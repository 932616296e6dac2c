// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

var validSig = []byte("ok")

type verifier struct{}

func (verifier) VerifyMakerSignature(_ stakes.PoolID, _ thor.Address, sig []byte) error {
	if !bytes.Equal(sig, validSig) {
		return reverts.New(reverts.InvalidSignature, "bad signature")
	}
	return nil
}

func newService() (*Service, *aggregation.Service) {
	aggs := aggregation.New()
	return New(aggs, verifier{}), aggs
}

func TestService_CreateMonotonic(t *testing.T) {
	svc, _ := newService()
	assert.Equal(t, stakes.PoolID(1), svc.NextID())

	var last stakes.PoolID
	for i := 1; i <= 10; i++ {
		id, err := svc.Create(datagen.RandAddress(), fixedpoint.MustFraction(1, 10))
		require.NoError(t, err)
		assert.Equal(t, stakes.PoolID(i), id)
		assert.Greater(t, id, last)
		last = id
	}
	assert.Equal(t, stakes.PoolID(11), svc.NextID())
	assert.Len(t, svc.All(), 10)
}

func TestService_CreateInvalidShare(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(datagen.RandAddress(), fixedpoint.Fraction{Numerator: 11, Denominator: 10})
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)

	_, err = svc.Create(datagen.RandAddress(), fixedpoint.Fraction{Numerator: 1})
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)

	// failed creations do not consume ids
	assert.Equal(t, stakes.PoolID(1), svc.NextID())
}

func TestService_Get(t *testing.T) {
	svc, aggs := newService()
	operator := datagen.RandAddress()
	id, err := svc.Create(operator, fixedpoint.MustFraction(1, 4))
	require.NoError(t, err)

	agg := aggs.GetAggregation(id)
	require.NoError(t, agg.Add(new(uint256.Int), uint256.NewInt(75)))
	aggs.SetAggregation(id, agg)

	p, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, operator, p.Operator)
	assert.Equal(t, fixedpoint.MustFraction(1, 4), p.OperatorShare)
	assert.Equal(t, uint64(75), p.TotalDelegated.Uint64())
	assert.Empty(t, p.Makers)

	_, err = svc.Get(id + 1)
	assert.ErrorIs(t, err, reverts.ErrPoolNotFound)
	assert.False(t, svc.Exists(id+1))
}

func TestService_Makers(t *testing.T) {
	svc, _ := newService()
	op1, op2 := datagen.RandAddress(), datagen.RandAddress()
	p1, _ := svc.Create(op1, fixedpoint.MustFraction(0, 1))
	p2, _ := svc.Create(op2, fixedpoint.MustFraction(1, 1))
	maker := datagen.RandAddress()

	assert.ErrorIs(t, svc.AddMaker(p1, maker, validSig, op2), reverts.ErrUnauthorized)
	assert.ErrorIs(t, svc.AddMaker(p1, maker, []byte("forged"), op1), reverts.ErrInvalidSignature)
	assert.ErrorIs(t, svc.AddMaker(9, maker, validSig, op1), reverts.ErrPoolNotFound)
	_, ok := svc.MakerPoolID(maker)
	assert.False(t, ok)

	require.NoError(t, svc.AddMaker(p1, maker, validSig, op1))
	require.NoError(t, svc.AddMaker(p1, maker, validSig, op1), "idempotent")
	id, ok := svc.MakerPoolID(maker)
	assert.True(t, ok)
	assert.Equal(t, p1, id)

	makers, err := svc.Makers(p1)
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{maker}, makers)

	// last write wins
	require.NoError(t, svc.AddMaker(p2, maker, validSig, op2))
	id, _ = svc.MakerPoolID(maker)
	assert.Equal(t, p2, id)
	makers, _ = svc.Makers(p1)
	assert.Empty(t, makers)
	pool2, _ := svc.Get(p2)
	assert.True(t, pool2.HasMaker(maker))

	assert.ErrorIs(t, svc.RemoveMaker(p2, maker, op1), reverts.ErrUnauthorized)
	require.NoError(t, svc.RemoveMaker(p1, maker, op1), "absent maker is a no-op")
	id, _ = svc.MakerPoolID(maker)
	assert.Equal(t, p2, id)

	require.NoError(t, svc.RemoveMaker(p2, maker, op2))
	_, ok = svc.MakerPoolID(maker)
	assert.False(t, ok)
	makers, _ = svc.Makers(p2)
	assert.Empty(t, makers)
}

func TestService_MakersSorted(t *testing.T) {
	svc, _ := newService()
	op := datagen.RandAddress()
	id, _ := svc.Create(op, fixedpoint.MustFraction(1, 2))

	for range 5 {
		require.NoError(t, svc.AddMaker(id, datagen.RandAddress(), validSig, op))
	}
	makers, err := svc.Makers(id)
	require.NoError(t, err)
	assert.Len(t, makers, 5)
	assert.IsIncreasing(t, func() []string {
		s := make([]string, len(makers))
		for i, m := range makers {
			s[i] = m.String()
		}
		return s
	}())
}

func TestService_Restore(t *testing.T) {
	svc, _ := newService()
	op := datagen.RandAddress()
	maker := datagen.RandAddress()

	pools := []*Pool{
		{ID: 2, Operator: op, OperatorShare: fixedpoint.MustFraction(1, 3), Makers: []thor.Address{maker}},
	}
	require.NoError(t, svc.Restore(pools, 3))
	assert.Equal(t, stakes.PoolID(4), svc.NextID())
	assert.False(t, svc.Exists(1))
	id, ok := svc.MakerPoolID(maker)
	assert.True(t, ok)
	assert.Equal(t, stakes.PoolID(2), id)

	err := svc.Restore([]*Pool{{ID: 5, OperatorShare: fixedpoint.MustFraction(0, 1)}}, 3)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)
	assert.True(t, svc.Exists(2), "failed restore keeps the registry")
}
