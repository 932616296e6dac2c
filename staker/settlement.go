// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/globalstats"
	"github.com/vechain/stakepool/staker/ledger"
	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/rewards"
	"github.com/vechain/stakepool/staker/snapshot"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// VerifyConservation checks the ledger's internal totals and that the custody
// holds exactly the net deposits of all owners. A failure is an implementation
// bug.
func (s *Staker) VerifyConservation() error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.verify(s.ledgerService)
}

func (s *Staker) verify(l *ledger.Service) error {
	held, err := l.Verify()
	if err != nil {
		logger.Error("ledger inconsistent", "error", err)
		return err
	}
	if custody := s.vault.TotalHeld(); !custody.Eq(held) {
		err := errors.Wrapf(ErrConservation, "custody holds %s, ledger holds %s", custody.Dec(), held.Dec())
		logger.Error("custody mismatch", "error", err)
		return err
	}
	return nil
}

// Snapshot copies the ledger and the pool registry at the current epoch.
func (s *Staker) Snapshot() (*snapshot.State, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.snapshot()
}

func (s *Staker) snapshot() (*snapshot.State, error) {
	owners := s.ledgerService.Owners()
	records := make(map[thor.Address]*stakes.Record, len(owners))
	for _, owner := range owners {
		records[owner] = s.ledgerService.GetRecord(owner)
	}
	return snapshot.New(s.clock.CurrentEpoch(), s.poolService.NextID()-1, records, s.poolService.All())
}

// Restore replaces the ledger and the pool registry with the state. The
// restored ledger must match what the custody holds.
func (s *Staker) Restore(state *snapshot.State) error {
	logger.Debug("restoring", "epoch", state.Epoch())
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		aggs  = aggregation.New()
		stats = globalstats.New()
		pools = pool.New(aggs, s.verifier)
		l     = ledger.New(aggs, stats, pools, s.config.LockPeriod)
	)
	if err := pools.Restore(state.Pools(), state.LastPoolID()); err != nil {
		logger.Info("restore failed", "epoch", state.Epoch(), "error", err)
		return err
	}
	if err := l.Restore(state.Records()); err != nil {
		logger.Info("restore failed", "epoch", state.Epoch(), "error", err)
		return err
	}
	if err := s.verify(l); err != nil {
		return err
	}

	s.aggregationService = aggs
	s.globalStatsService = stats
	s.poolService = pools
	s.ledgerService = l
	metricPools().Set(int64(state.LastPoolID()))
	logger.Info("restored", "epoch", state.Epoch(), "pools", len(state.Pools()))
	return nil
}

// ComputeRewards splits the pool's share of totalRewards for the current epoch.
func (s *Staker) ComputeRewards(id stakes.PoolID, totalRewards, ownerFees, totalFees *uint256.Int) (*rewards.Settlement, error) {
	state, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.engine.ComputeOperatorAndDelegatorRewards(state, id, totalRewards, ownerFees, totalFees, state.Epoch())
}

// SettleEpoch splits totalRewards between the pools that collected fees in the
// current epoch. The snapshot the rewards were computed on is saved when a
// snapshot directory is configured.
func (s *Staker) SettleEpoch(ctx context.Context, totalRewards *uint256.Int, fees map[stakes.PoolID]*uint256.Int) ([]*rewards.Settlement, error) {
	state, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	logger.Debug("settling epoch", "epoch", state.Epoch(), "pools", len(fees), "rewards", totalRewards)

	settlements, err := s.engine.SettleEpoch(ctx, state, state.Epoch(), totalRewards, fees)
	if err != nil {
		logger.Info("settle epoch failed", "epoch", state.Epoch(), "error", err)
		return nil, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(state); err != nil {
			return nil, err
		}
	}
	logger.Info("settled epoch", "epoch", state.Epoch(), "pools", len(settlements))
	return settlements, nil
}

// LatestSnapshot loads the most recently settled snapshot.
func (s *Staker) LatestSnapshot() (*snapshot.State, error) {
	if s.snapshots == nil {
		return nil, errors.New("snapshot store not configured")
	}
	return s.snapshots.Latest()
}

// LoadSnapshot loads the snapshot settled at epoch.
func (s *Staker) LoadSnapshot(epoch stakes.Epoch) (*snapshot.State, error) {
	if s.snapshots == nil {
		return nil, errors.New("snapshot store not configured")
	}
	return s.snapshots.Load(epoch)
}
