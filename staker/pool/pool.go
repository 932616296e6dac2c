// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// Pool is a reward-sharing group run by an operator.
type Pool struct {
	ID             stakes.PoolID
	Operator       thor.Address
	OperatorShare  fixedpoint.Fraction
	Makers         []thor.Address // ascending address order
	TotalDelegated *uint256.Int
}

func (p *Pool) HasMaker(maker thor.Address) bool {
	_, found := slices.BinarySearchFunc(p.Makers, maker, thor.Address.Compare)
	return found
}

// entry is the stored form of a pool.
type entry struct {
	operator thor.Address
	share    fixedpoint.Fraction
	makers   map[thor.Address]struct{}
}

func (e *entry) sortedMakers() []thor.Address {
	makers := make([]thor.Address, 0, len(e.makers))
	for m := range e.makers {
		makers = append(makers, m)
	}
	slices.SortFunc(makers, thor.Address.Compare)
	return makers
}
