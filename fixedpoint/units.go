// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
)

// Decimals is the base-unit convention of staked amounts.
const Decimals = 18

var baseUnit = uint256.NewInt(1_000_000_000_000_000_000)

// ToBaseUnitAmount converts whole units to base units.
func ToBaseUnitAmount(units uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(units), baseUnit)
}

// ToFixedPoint scales value by 10^decimals.
func ToFixedPoint(value *big.Int, decimals uint64) *big.Int {
	return new(big.Int).Mul(value, Pow10(decimals))
}

// TrimFixedPoint drops fractional digits of a value carrying decimals digits so
// that at most keep remain. The value keeps its original scale.
func TrimFixedPoint(value *big.Int, decimals, keep uint64) *big.Int {
	if keep >= decimals {
		return new(big.Int).Set(value)
	}
	unit := Pow10(decimals - keep)
	trimmed := new(big.Int).Quo(value, unit)
	return trimmed.Mul(trimmed, unit)
}

// ParseFixedPoint parses a decimal string such as "1.25" into a value with the
// given number of fractional digits. Extra digits are truncated.
func ParseFixedPoint(s string, decimals uint64) (*big.Int, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if uint64(len(frac)) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || v.Sign() < 0 {
		return nil, reverts.Newf(reverts.InvalidInput, "invalid fixed point number %q", s)
	}
	return v, nil
}

// FormatFixedPoint renders a value carrying decimals fractional digits,
// without trailing zeros.
func FormatFixedPoint(value *big.Int, decimals uint64) string {
	if decimals == 0 {
		return value.String()
	}
	abs := new(big.Int).Abs(value)
	q, r := new(big.Int).QuoRem(abs, Pow10(decimals), new(big.Int))

	var sb strings.Builder
	if value.Sign() < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(q.String())
	if r.Sign() != 0 {
		frac := r.String()
		frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
		sb.WriteByte('.')
		sb.WriteString(strings.TrimRight(frac, "0"))
	}
	return sb.String()
}
