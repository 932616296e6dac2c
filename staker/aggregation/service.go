// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package aggregation

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/stakes"
)

// Service manages the delegation aggregation of each pool.
type Service struct {
	aggregations map[stakes.PoolID]*Aggregation
}

func New() *Service {
	return &Service{aggregations: make(map[stakes.PoolID]*Aggregation)}
}

// GetAggregation returns a copy of the pool's aggregation.
// Returns a zero-initialized aggregation if none exists.
func (s *Service) GetAggregation(id stakes.PoolID) *Aggregation {
	if agg, ok := s.aggregations[id]; ok {
		return agg.Clone()
	}
	return newAggregation()
}

// SetAggregation stores the aggregation, dropping empty ones.
func (s *Service) SetAggregation(id stakes.PoolID, agg *Aggregation) {
	if agg.IsEmpty() {
		delete(s.aggregations, id)
		return
	}
	s.aggregations[id] = agg.Clone()
}

// Delegated returns the total stake delegated to the pool.
func (s *Service) Delegated(id stakes.PoolID) *uint256.Int {
	return s.GetAggregation(id).Delegated
}

// Total returns the stake delegated across all pools.
func (s *Service) Total() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, id := range s.PoolIDs() {
		var err error
		if total, err = stakes.Add(total, s.aggregations[id].Delegated); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// PoolIDs returns the pools holding delegations, in ascending order.
func (s *Service) PoolIDs() []stakes.PoolID {
	ids := make([]stakes.PoolID, 0, len(s.aggregations))
	for id := range s.aggregations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reset drops every aggregation.
func (s *Service) Reset() {
	clear(s.aggregations)
}
