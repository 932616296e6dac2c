// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
)

// Fraction is a non-negative ratio. It is used for the operator share and the alpha exponent.
type Fraction struct {
	Numerator   uint64 `yaml:"numerator"`
	Denominator uint64 `yaml:"denominator"`
}

func NewFraction(numerator, denominator uint64) (Fraction, error) {
	f := Fraction{Numerator: numerator, Denominator: denominator}
	if err := f.Validate(); err != nil {
		return Fraction{}, err
	}
	return f, nil
}

// MustFraction is NewFraction for constants.
func MustFraction(numerator, denominator uint64) Fraction {
	f, err := NewFraction(numerator, denominator)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return reverts.New(reverts.InvalidInput, "fraction denominator must be greater than 0")
	}
	return nil
}

// ValidateUnit checks the fraction is well formed and within [0, 1].
func (f Fraction) ValidateUnit() error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Numerator > f.Denominator {
		return reverts.Newf(reverts.InvalidInput, "fraction %s is greater than 1", f)
	}
	return nil
}

func (f Fraction) IsZero() bool {
	return f.Numerator == 0
}

func (f Fraction) IsOne() bool {
	return f.Denominator != 0 && f.Numerator == f.Denominator
}

// Reduce divides both terms by their greatest common divisor.
func (f Fraction) Reduce() Fraction {
	a, b := f.Numerator, f.Denominator
	for b != 0 {
		a, b = b, a%b
	}
	if a <= 1 {
		return f
	}
	return Fraction{Numerator: f.Numerator / a, Denominator: f.Denominator / a}
}

// MulAmount returns floor(amount * f).
func (f Fraction) MulAmount(amount *uint256.Int) (*uint256.Int, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulDivOverflow(
		amount,
		uint256.NewInt(f.Numerator),
		uint256.NewInt(f.Denominator),
	)
	if overflow {
		return nil, reverts.Newf(reverts.Arithmetic, "%s * %s overflows", amount.Dec(), f)
	}
	return z, nil
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
