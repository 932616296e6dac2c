// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"

	"github.com/vechain/stakepool/staker/reverts"
)

// MaxScaleDigits bounds decimals*n in NthRootFixedPoint.
const MaxScaleDigits = 4096

var (
	big1  = big.NewInt(1)
	big10 = big.NewInt(10)
)

// NthRoot returns floor(value^(1/n)).
func NthRoot(value *big.Int, n uint64) (*big.Int, error) {
	if n == 0 {
		return nil, reverts.New(reverts.InvalidInput, "root degree must be greater than 0")
	}
	if value == nil || value.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidInput, "root of a negative value")
	}
	return nthRoot(value, n), nil
}

// NthRootFixedPoint returns value^(1/n) with decimals fractional digits,
// i.e. NthRoot(value*10^(decimals*n), n). Only the last digit is truncated.
func NthRootFixedPoint(value *big.Int, n uint64, decimals uint64) (*big.Int, error) {
	if n == 0 {
		return nil, reverts.New(reverts.InvalidInput, "root degree must be greater than 0")
	}
	if decimals > 0 && n > MaxScaleDigits/decimals {
		return nil, reverts.Newf(reverts.InvalidInput, "scale 10^(%d*%d) is too large", decimals, n)
	}
	if value == nil || value.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidInput, "root of a negative value")
	}
	scaled := new(big.Int).Mul(value, Pow10(decimals*n))
	return nthRoot(scaled, n), nil
}

// nthRoot runs integer Newton iteration from an initial guess above the root.
// The sequence decreases strictly until it reaches floor(v^(1/n)).
func nthRoot(v *big.Int, n uint64) *big.Int {
	if v.Sign() == 0 {
		return new(big.Int)
	}
	if n == 1 {
		return new(big.Int).Set(v)
	}
	bits := uint64(v.BitLen())
	if bits <= n {
		// v < 2^n, so the root is in [1, 2)
		return big.NewInt(1)
	}

	var (
		x   = new(big.Int).Lsh(big1, uint((bits+n-1)/n))
		nb  = new(big.Int).SetUint64(n)
		nm1 = new(big.Int).SetUint64(n - 1)
		p   = new(big.Int)
		y   = new(big.Int)
		t   = new(big.Int)
	)
	for {
		p.Exp(x, nm1, nil)
		y.Quo(v, p)
		t.Mul(nm1, x)
		y.Add(y, t)
		y.Quo(y, nb)
		if y.Cmp(x) >= 0 {
			return x
		}
		x.Set(y)
	}
}

// Pow10 returns 10^exp.
func Pow10(exp uint64) *big.Int {
	return new(big.Int).Exp(big10, new(big.Int).SetUint64(exp), nil)
}
