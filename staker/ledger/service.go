// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/globalstats"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// PoolLookup reports whether a pool exists.
type PoolLookup interface {
	Exists(id stakes.PoolID) bool
}

// Service keeps the stake record of every owner.
type Service struct {
	records      map[thor.Address]*stakes.Record
	aggregations *aggregation.Service
	stats        *globalstats.Service
	pools        PoolLookup
	lockPeriod   stakes.Epoch

	// bumped by every commit, guards against applying a stale transaction
	version uint64
}

func New(
	aggregations *aggregation.Service,
	stats *globalstats.Service,
	pools PoolLookup,
	lockPeriod stakes.Epoch,
) *Service {
	return &Service{
		records:      make(map[thor.Address]*stakes.Record),
		aggregations: aggregations,
		stats:        stats,
		pools:        pools,
		lockPeriod:   lockPeriod,
	}
}

func (s *Service) LockPeriod() stakes.Epoch {
	return s.lockPeriod
}

// GetRecord returns a copy of the owner's record.
// Returns an empty record if the owner never deposited.
func (s *Service) GetRecord(owner thor.Address) *stakes.Record {
	if r, ok := s.records[owner]; ok {
		return r.Clone()
	}
	return stakes.NewRecord()
}

// Owners returns every owner holding a record, in ascending address order.
func (s *Service) Owners() []thor.Address {
	owners := make([]thor.Address, 0, len(s.records))
	for owner := range s.records {
		owners = append(owners, owner)
	}
	slices.SortFunc(owners, thor.Address.Compare)
	return owners
}

// TotalStake is the owner's stake across every state.
func (s *Service) TotalStake(owner thor.Address) (*uint256.Int, error) {
	return s.record(owner).Total()
}

func (s *Service) ActivatedStake(owner thor.Address) *uint256.Int {
	return s.record(owner).Active.Clone()
}

func (s *Service) DeactivatedStake(owner thor.Address) *uint256.Int {
	return s.record(owner).Inactive.Clone()
}

func (s *Service) TimelockedStake(owner thor.Address) (*uint256.Int, error) {
	return s.record(owner).TotalTimelocked()
}

// WithdrawableStake sums the owner's timelocks unlocked at the given epoch.
func (s *Service) WithdrawableStake(owner thor.Address, current stakes.Epoch) (*uint256.Int, error) {
	return s.record(owner).Withdrawable(current)
}

// StakeDelegatedByOwner sums the owner's delegations across all pools.
func (s *Service) StakeDelegatedByOwner(owner thor.Address) (*uint256.Int, error) {
	return s.record(owner).TotalDelegated()
}

func (s *Service) StakeDelegatedToPoolByOwner(owner thor.Address, id stakes.PoolID) *uint256.Int {
	return s.record(owner).DelegatedTo(id)
}

func (s *Service) StakeDelegatedToPool(id stakes.PoolID) *uint256.Int {
	return s.aggregations.Delegated(id)
}

// Delegators returns the owners delegating to the pool, in ascending address order.
func (s *Service) Delegators(id stakes.PoolID) []thor.Address {
	var owners []thor.Address
	for _, owner := range s.Owners() {
		if !s.records[owner].DelegatedTo(id).IsZero() {
			owners = append(owners, owner)
		}
	}
	return owners
}

// Restore replaces every record and rebuilds the derived totals.
func (s *Service) Restore(records map[thor.Address]*stakes.Record) error {
	var (
		rebuilt = make(map[thor.Address]*stakes.Record, len(records))
		stats   = globalstats.New().GetStats()
		aggs    = aggregation.New()
	)
	for owner, record := range records {
		r := record.Clone()
		if err := stats.AddDeposit(r.Deposited); err != nil {
			return err
		}
		if err := stats.AddWithdrawal(r.Withdrawn); err != nil {
			return err
		}
		for _, id := range r.PoolIDs() {
			agg := aggs.GetAggregation(id)
			if err := agg.Add(new(uint256.Int), r.Delegated[id]); err != nil {
				return err
			}
			aggs.SetAggregation(id, agg)
		}
		rebuilt[owner] = r
	}

	s.records = rebuilt
	s.stats.SetStats(stats)
	s.aggregations.Reset()
	for _, id := range aggs.PoolIDs() {
		s.aggregations.SetAggregation(id, aggs.GetAggregation(id))
	}
	s.version++
	return nil
}

func (s *Service) record(owner thor.Address) *stakes.Record {
	if r, ok := s.records[owner]; ok {
		return r
	}
	return stakes.NewRecord()
}
