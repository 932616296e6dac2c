// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package fixedpoint

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/staker/reverts"
)

func TestNthRoot(t *testing.T) {
	tests := []struct {
		value uint64
		n     uint64
		want  uint64
	}{
		{27, 3, 3},
		{0, 5, 0},
		{26, 3, 2},
		{28, 3, 3},
		{1, 100, 1},
		{1_000_000, 64, 1},
		{99, 1, 99},
		{1 << 62, 2, 1 << 31},
		{1<<62 - 1, 2, 1<<31 - 1},
		{1024, 10, 2},
		{1023, 10, 1},
	}
	for _, tt := range tests {
		got, err := NthRoot(new(big.Int).SetUint64(tt.value), tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Uint64(), "root %d of %d", tt.n, tt.value)
	}
}

func TestNthRoot_ZeroDegree(t *testing.T) {
	_, err := NthRoot(big.NewInt(8), 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)

	_, err = NthRoot(big.NewInt(-8), 3)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)
}

func TestNthRoot_Floor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	limit := new(big.Int).Lsh(big.NewInt(1), 256)

	for range 200 {
		v := new(big.Int).Rand(rng, limit)
		n := uint64(rng.Intn(12) + 1)

		r, err := NthRoot(v, n)
		require.NoError(t, err)

		e := new(big.Int).SetUint64(n)
		lower := new(big.Int).Exp(r, e, nil)
		upper := new(big.Int).Exp(new(big.Int).Add(r, big.NewInt(1)), e, nil)
		assert.True(t, lower.Cmp(v) <= 0, "r^n > v for v=%s n=%d", v, n)
		assert.True(t, upper.Cmp(v) > 0, "(r+1)^n <= v for v=%s n=%d", v, n)
	}
}

func TestNthRoot_Deterministic(t *testing.T) {
	v, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	a, err := NthRoot(v, 7)
	require.NoError(t, err)
	b, err := NthRoot(v, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
}

func TestNthRootFixedPoint(t *testing.T) {
	got, err := NthRootFixedPoint(big.NewInt(2), 2, 4)
	require.NoError(t, err)
	assert.Equal(t, "14142", got.String())
	assert.Equal(t, "1.4142", FormatFixedPoint(got, 4))

	got, err = NthRootFixedPoint(big.NewInt(27), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, "300", got.String())

	// equal to the plain root of the scaled value by construction
	scaled := new(big.Int).Mul(big.NewInt(5), Pow10(18*3))
	plain, err := NthRoot(scaled, 3)
	require.NoError(t, err)
	fixed, err := NthRootFixedPoint(big.NewInt(5), 3, 18)
	require.NoError(t, err)
	assert.Equal(t, plain, fixed)

	_, err = NthRootFixedPoint(big.NewInt(2), 0, 4)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)

	_, err = NthRootFixedPoint(big.NewInt(2), 100, 100)
	assert.ErrorIs(t, err, reverts.ErrInvalidInput)
}
