// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// TotalStake is the owner's stake across every state.
func (s *Staker) TotalStake(owner thor.Address) (*uint256.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.TotalStake(owner)
}

func (s *Staker) ActivatedStake(owner thor.Address) *uint256.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.ActivatedStake(owner)
}

func (s *Staker) DeactivatedStake(owner thor.Address) *uint256.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.DeactivatedStake(owner)
}

// TimelockedStake includes timelocks that are already withdrawable.
func (s *Staker) TimelockedStake(owner thor.Address) (*uint256.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.TimelockedStake(owner)
}

// WithdrawableStake sums the owner's timelocks unlocked at the current epoch.
func (s *Staker) WithdrawableStake(owner thor.Address) (*uint256.Int, error) {
	current := s.clock.CurrentEpoch()

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.WithdrawableStake(owner, current)
}

// StakeDelegatedByOwner is the owner's stake delegated across all pools.
func (s *Staker) StakeDelegatedByOwner(owner thor.Address) (*uint256.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.StakeDelegatedByOwner(owner)
}

func (s *Staker) StakeDelegatedToPoolByOwner(owner thor.Address, id stakes.PoolID) *uint256.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.StakeDelegatedToPoolByOwner(owner, id)
}

func (s *Staker) StakeDelegatedToPool(id stakes.PoolID) *uint256.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.StakeDelegatedToPool(id)
}

// Delegators returns the owners delegating to the pool, in ascending address order.
func (s *Staker) Delegators(id stakes.PoolID) []thor.Address {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.Delegators(id)
}

// Record returns a copy of the owner's stake record.
func (s *Staker) Record(owner thor.Address) *stakes.Record {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ledgerService.GetRecord(owner)
}

// NextPoolID returns the id the next created pool receives.
func (s *Staker) NextPoolID() stakes.PoolID {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.poolService.NextID()
}

func (s *Staker) Pool(id stakes.PoolID) (*pool.Pool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.poolService.Get(id)
}

// MakerPoolID returns the pool the maker is bound to.
func (s *Staker) MakerPoolID(maker thor.Address) (stakes.PoolID, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.poolService.MakerPoolID(maker)
}

// MakerAddressesForPool returns the pool's makers in ascending address order.
func (s *Staker) MakerAddressesForPool(id stakes.PoolID) ([]thor.Address, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.poolService.Makers(id)
}

// TotalDeposited returns the deposits and withdrawals of all owners.
func (s *Staker) TotalDeposited() (deposited, withdrawn *uint256.Int) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stats := s.globalStatsService.GetStats()
	return stats.Deposited, stats.Withdrawn
}
