// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/staker/stakes"
)

// ErrConservation reports ledger state that no sequence of operations can produce.
// It indicates an implementation bug, never a user error.
var ErrConservation = errors.New("stake conservation violated")

// Verify checks that every record adds up to its net deposit, that pool totals
// match the owners' delegations, and that the global totals match the records.
// It returns the amount the custody must hold.
func (s *Service) Verify() (*uint256.Int, error) {
	var (
		held      = new(uint256.Int)
		delegated = make(map[stakes.PoolID]*uint256.Int)
	)
	for _, owner := range s.Owners() {
		r := s.records[owner]
		balanced, err := r.Balanced()
		if err != nil {
			return nil, errors.Wrapf(ErrConservation, "owner %v: %v", owner, err)
		}
		if !balanced {
			return nil, errors.Wrapf(ErrConservation, "owner %v: stake states do not add up to the net deposit", owner)
		}
		net, _ := r.NetDeposited()
		if held, err = stakes.Add(held, net); err != nil {
			return nil, errors.Wrapf(ErrConservation, "total held: %v", err)
		}
		for _, id := range r.PoolIDs() {
			sum, ok := delegated[id]
			if !ok {
				sum = new(uint256.Int)
			}
			if delegated[id], err = stakes.Add(sum, r.Delegated[id]); err != nil {
				return nil, errors.Wrapf(ErrConservation, "pool %d: %v", id, err)
			}
		}
	}

	for _, id := range s.aggregations.PoolIDs() {
		if _, ok := delegated[id]; !ok {
			delegated[id] = new(uint256.Int)
		}
	}
	for id, sum := range delegated {
		if agg := s.aggregations.Delegated(id); !agg.Eq(sum) {
			return nil, errors.Wrapf(ErrConservation, "pool %d: total delegated %s, owners delegated %s", id, agg.Dec(), sum.Dec())
		}
	}

	stats, err := s.stats.Held()
	if err != nil {
		return nil, errors.Wrapf(ErrConservation, "global totals: %v", err)
	}
	if !stats.Eq(held) {
		return nil, errors.Wrapf(ErrConservation, "global totals hold %s, records hold %s", stats.Dec(), held.Dec())
	}
	return held, nil
}
