// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package aggregation

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
)

// Aggregation is the delegated stake of a pool summed over all owners.
type Aggregation struct {
	Delegated *uint256.Int
	// number of owners with a non-zero delegation
	Delegators uint64
}

func newAggregation() *Aggregation {
	return &Aggregation{Delegated: new(uint256.Int)}
}

func (a *Aggregation) Clone() *Aggregation {
	return &Aggregation{Delegated: a.Delegated.Clone(), Delegators: a.Delegators}
}

func (a *Aggregation) IsEmpty() bool {
	return a.Delegated.IsZero() && a.Delegators == 0
}

// Add records amount delegated by an owner whose previous delegation to the pool was prior.
func (a *Aggregation) Add(prior, amount *uint256.Int) error {
	delegated, err := stakes.Add(a.Delegated, amount)
	if err != nil {
		return err
	}
	a.Delegated = delegated
	if prior.IsZero() && !amount.IsZero() {
		a.Delegators++
	}
	return nil
}

// Sub records amount leaving the pool from an owner whose delegation was prior.
func (a *Aggregation) Sub(prior, amount *uint256.Int) error {
	if a.Delegated.Lt(amount) {
		return reverts.Newf(reverts.Arithmetic, "pool delegation %s is less than %s", a.Delegated.Dec(), amount.Dec())
	}
	a.Delegated = new(uint256.Int).Sub(a.Delegated, amount)
	if !amount.IsZero() && prior.Eq(amount) {
		a.Delegators--
	}
	return nil
}
