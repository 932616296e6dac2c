// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
)

// MaxAlphaDenominator bounds the root degree used by the Cobb-Douglas functions.
const MaxAlphaDenominator = 100

// CobbDouglas computes
//
//	totalRewards * (ownerFees/totalFees)^alpha * (ownerStake/totalStake)^(1-alpha)
//
// with alpha = alphaNumerator/alphaDenominator. The result is the exact floor of
// the real value: both ratios are raised to integer powers over the common root
// degree, divided once, and a single integer root is taken.
func CobbDouglas(
	totalRewards, ownerFees, totalFees, ownerStake, totalStake *uint256.Int,
	alphaNumerator, alphaDenominator uint64,
) (*uint256.Int, error) {
	alpha := Fraction{Numerator: alphaNumerator, Denominator: alphaDenominator}
	if err := alpha.ValidateUnit(); err != nil {
		return nil, err
	}
	alpha = alpha.Reduce()
	if alpha.Denominator > MaxAlphaDenominator {
		return nil, reverts.Newf(reverts.InvalidInput, "alpha denominator %d exceeds %d", alpha.Denominator, MaxAlphaDenominator)
	}

	var (
		a = alpha.Numerator
		b = alpha.Denominator
		// stake exponent
		c = b - a
	)
	if a > 0 {
		if totalFees.IsZero() {
			return nil, reverts.New(reverts.DivisionByZero, "total fees is zero")
		}
		if ownerFees.Gt(totalFees) {
			return nil, reverts.New(reverts.InvalidInput, "owner fees exceed total fees")
		}
	}
	if c > 0 {
		if totalStake.IsZero() {
			return nil, reverts.New(reverts.DivisionByZero, "total stake is zero")
		}
		if ownerStake.Gt(totalStake) {
			return nil, reverts.New(reverts.InvalidInput, "owner stake exceeds total stake")
		}
	}
	if totalRewards.IsZero() {
		return new(uint256.Int), nil
	}

	num := pow(totalRewards, b)
	den := big.NewInt(1)
	if a > 0 {
		num.Mul(num, pow(ownerFees, a))
		den.Mul(den, pow(totalFees, a))
	}
	if c > 0 {
		num.Mul(num, pow(ownerStake, c))
		den.Mul(den, pow(totalStake, c))
	}
	num.Quo(num, den)

	result, overflow := uint256.FromBig(nthRoot(num, b))
	if overflow {
		// unreachable, both ratios are at most 1
		return nil, reverts.New(reverts.Arithmetic, "cobb-douglas result overflows")
	}
	return result, nil
}

// CobbDouglasSimplified is CobbDouglas with alpha = 1/alphaDenominator.
func CobbDouglasSimplified(
	totalRewards, ownerFees, totalFees, ownerStake, totalStake *uint256.Int,
	alphaDenominator uint64,
) (*uint256.Int, error) {
	return CobbDouglas(totalRewards, ownerFees, totalFees, ownerStake, totalStake, 1, alphaDenominator)
}

// CobbDouglasSimplifiedInverse returns the smallest owner stake in [0, totalStake]
// for which CobbDouglasSimplified reaches targetReward. The simplified reward is
// monotone non-decreasing in the owner stake, so bisection finds it in
// O(log totalStake) evaluations.
func CobbDouglasSimplifiedInverse(
	targetReward, totalRewards, ownerFees, totalFees, totalStake *uint256.Int,
	alphaDenominator uint64,
) (*uint256.Int, error) {
	if alphaDenominator == 0 {
		return nil, reverts.New(reverts.InvalidInput, "fraction denominator must be greater than 0")
	}
	if targetReward.Gt(totalRewards) {
		return nil, reverts.Newf(reverts.NotInvertible, "target reward %s exceeds total rewards %s", targetReward.Dec(), totalRewards.Dec())
	}

	reward := func(stake *uint256.Int) (*uint256.Int, error) {
		return CobbDouglasSimplified(totalRewards, ownerFees, totalFees, stake, totalStake, alphaDenominator)
	}

	upper, err := reward(totalStake)
	if err != nil {
		return nil, err
	}
	if targetReward.Gt(upper) {
		return nil, reverts.Newf(reverts.NotInvertible, "target reward %s exceeds achievable reward %s", targetReward.Dec(), upper.Dec())
	}

	var (
		lo  = new(uint256.Int)
		hi  = new(uint256.Int).Set(totalStake)
		mid = new(uint256.Int)
	)
	for lo.Lt(hi) {
		// lo + (hi-lo)/2 never overflows
		mid.Sub(hi, lo)
		mid.Rsh(mid, 1)
		mid.Add(mid, lo)

		r, err := reward(mid)
		if err != nil {
			return nil, err
		}
		if r.Lt(targetReward) {
			lo.AddUint64(mid, 1)
		} else {
			hi.Set(mid)
		}
	}
	return lo, nil
}

func pow(x *uint256.Int, e uint64) *big.Int {
	return new(big.Int).Exp(x.ToBig(), new(big.Int).SetUint64(e), nil)
}
