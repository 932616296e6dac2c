// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/globalstats"
	"github.com/vechain/stakepool/staker/ledger"
	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/rewards"
	"github.com/vechain/stakepool/staker/snapshot"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// ErrConservation is returned by VerifyConservation when the ledger and the
// custody disagree.
var ErrConservation = ledger.ErrConservation

// CustodyVault holds the staked asset.
type CustodyVault interface {
	CreditOwner(owner thor.Address, amount *uint256.Int) error
	// DebitOwner fails if the owner's balance is insufficient.
	DebitOwner(owner thor.Address, amount *uint256.Int) error
	TotalHeld() *uint256.Int
}

// SignatureVerifier checks maker to pool binding signatures.
type SignatureVerifier = pool.SignatureVerifier

// EpochClock supplies the current epoch. It never goes backwards.
type EpochClock interface {
	CurrentEpoch() stakes.Epoch
}

// Staker runs the owner-facing stake operations. Operations are serialized,
// each one either applies completely or fails without any state change.
type Staker struct {
	lock   sync.RWMutex
	config Config

	vault    CustodyVault
	verifier SignatureVerifier
	clock    EpochClock

	aggregationService *aggregation.Service
	globalStatsService *globalstats.Service
	poolService        *pool.Service
	ledgerService      *ledger.Service
	engine             *rewards.Engine

	db        *lvldb.LevelDB
	snapshots *snapshot.Store
}

// New creates a staker with an empty ledger.
func New(config Config, vault CustodyVault, verifier SignatureVerifier, clock EpochClock) (*Staker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	engine, err := rewards.New(config.Alpha, config.RewardCacheSize)
	if err != nil {
		return nil, err
	}

	aggs := aggregation.New()
	stats := globalstats.New()
	pools := pool.New(aggs, verifier)
	s := &Staker{
		config:             config,
		vault:              vault,
		verifier:           verifier,
		clock:              clock,
		aggregationService: aggs,
		globalStatsService: stats,
		poolService:        pools,
		ledgerService:      ledger.New(aggs, stats, pools, config.LockPeriod),
		engine:             engine,
	}

	if config.SnapshotDir != "" {
		db, err := lvldb.New(config.SnapshotDir, lvldb.Options{})
		if err != nil {
			return nil, err
		}
		s.db = db
		s.snapshots = snapshot.NewStore(db)
	}
	return s, nil
}

func (s *Staker) Config() Config {
	return s.config
}

// Close releases the snapshot store, if any.
func (s *Staker) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Deposit credits amount received by the custody to the owner's inactive stake.
func (s *Staker) Deposit(owner thor.Address, amount *uint256.Int) error {
	logger.Debug("depositing", "owner", owner, "amount", amount)
	return s.exec("deposit", owner, func() error {
		return s.credit(owner, amount, func(tx *ledger.Tx) error {
			return tx.Deposit(amount)
		})
	})
}

// DepositAndStake deposits amount and activates it.
func (s *Staker) DepositAndStake(owner thor.Address, amount *uint256.Int) error {
	logger.Debug("depositing and staking", "owner", owner, "amount", amount)
	return s.exec("deposit_and_stake", owner, func() error {
		return s.credit(owner, amount, func(tx *ledger.Tx) error {
			if err := tx.Deposit(amount); err != nil {
				return err
			}
			return tx.Activate(amount)
		})
	})
}

// DepositAndDelegate deposits amount and delegates it to the pool.
func (s *Staker) DepositAndDelegate(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	logger.Debug("depositing and delegating", "owner", owner, "pool", id, "amount", amount)
	return s.exec("deposit_and_delegate", owner, func() error {
		return s.credit(owner, amount, func(tx *ledger.Tx) error {
			if err := tx.Deposit(amount); err != nil {
				return err
			}
			return tx.DelegateInactive(id, amount)
		})
	})
}

// ActivateStake moves amount from inactive to active.
func (s *Staker) ActivateStake(owner thor.Address, amount *uint256.Int) error {
	logger.Debug("activating stake", "owner", owner, "amount", amount)
	return s.exec("activate", owner, func() error {
		return s.ledgerService.Activate(owner, amount)
	})
}

// ActivateAndDelegateStake moves amount from inactive directly into the pool.
func (s *Staker) ActivateAndDelegateStake(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	logger.Debug("activating and delegating stake", "owner", owner, "pool", id, "amount", amount)
	return s.exec("activate_and_delegate", owner, func() error {
		return s.ledgerService.Update(owner, func(tx *ledger.Tx) error {
			return tx.DelegateInactive(id, amount)
		})
	})
}

// DeactivateStake moves amount from active back to inactive.
func (s *Staker) DeactivateStake(owner thor.Address, amount *uint256.Int) error {
	logger.Debug("deactivating stake", "owner", owner, "amount", amount)
	return s.exec("deactivate", owner, func() error {
		return s.ledgerService.Deactivate(owner, amount)
	})
}

// DelegateStake moves amount from active into the pool.
func (s *Staker) DelegateStake(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	logger.Debug("delegating stake", "owner", owner, "pool", id, "amount", amount)
	return s.exec("delegate", owner, func() error {
		return s.ledgerService.Delegate(owner, id, amount)
	})
}

// UndelegateStake moves amount from the pool back to active.
func (s *Staker) UndelegateStake(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	logger.Debug("undelegating stake", "owner", owner, "pool", id, "amount", amount)
	return s.exec("undelegate", owner, func() error {
		return s.ledgerService.Undelegate(owner, id, amount)
	})
}

// DeactivateAndTimelockStake moves amount from active into a timelock ending
// LockPeriod epochs from now.
func (s *Staker) DeactivateAndTimelockStake(owner thor.Address, amount *uint256.Int) error {
	current := s.clock.CurrentEpoch()
	logger.Debug("timelocking stake", "owner", owner, "amount", amount, "epoch", current)
	return s.exec("timelock", owner, func() error {
		return s.ledgerService.DeactivateAndTimelock(owner, amount, current)
	})
}

// DeactivateAndTimelockDelegatedStake moves amount from the pool into a timelock.
func (s *Staker) DeactivateAndTimelockDelegatedStake(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	current := s.clock.CurrentEpoch()
	logger.Debug("timelocking delegated stake", "owner", owner, "pool", id, "amount", amount, "epoch", current)
	return s.exec("timelock_delegated", owner, func() error {
		return s.ledgerService.DeactivateAndTimelockDelegated(owner, id, amount, current)
	})
}

// Withdraw consumes unlocked timelocks, oldest first, and releases amount from custody.
func (s *Staker) Withdraw(owner thor.Address, amount *uint256.Int) error {
	current := s.clock.CurrentEpoch()
	logger.Debug("withdrawing", "owner", owner, "amount", amount, "epoch", current)
	return s.exec("withdraw", owner, func() error {
		tx := s.ledgerService.Begin(owner)
		if err := tx.Withdraw(amount, current); err != nil {
			return err
		}
		if err := s.vault.DebitOwner(owner, amount); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			if rerr := s.vault.CreditOwner(owner, amount); rerr != nil {
				logger.Error("failed to return withdrawal to custody", "owner", owner, "amount", amount, "error", rerr)
			}
			return err
		}
		return nil
	})
}

// CreatePool registers a pool run by operator and returns its id.
func (s *Staker) CreatePool(operator thor.Address, share fixedpoint.Fraction) (stakes.PoolID, error) {
	logger.Debug("creating pool", "operator", operator, "share", share)
	var id stakes.PoolID
	err := s.exec("create_pool", operator, func() (err error) {
		id, err = s.poolService.Create(operator, share)
		return err
	})
	if err != nil {
		return 0, err
	}
	metricPools().Add(1)
	logger.Info("created pool", "pool", id, "operator", operator)
	return id, nil
}

// AddMakerToPool binds maker to the pool. The requester must be the pool's
// operator and signature must be the maker's signature of the binding.
func (s *Staker) AddMakerToPool(id stakes.PoolID, maker thor.Address, signature []byte, requester thor.Address) error {
	logger.Debug("adding maker", "pool", id, "maker", maker, "requester", requester)
	return s.exec("add_maker", requester, func() error {
		return s.poolService.AddMaker(id, maker, signature, requester)
	})
}

// RemoveMakerFromPool unbinds maker from the pool. The requester must be the pool's operator.
func (s *Staker) RemoveMakerFromPool(id stakes.PoolID, maker thor.Address, requester thor.Address) error {
	logger.Debug("removing maker", "pool", id, "maker", maker, "requester", requester)
	return s.exec("remove_maker", requester, func() error {
		return s.poolService.RemoveMaker(id, maker, requester)
	})
}

// exec runs a mutation under the write lock and records its outcome.
func (s *Staker) exec(op string, caller thor.Address, fn func() error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := fn()
	observe(op, err)
	if err != nil {
		logger.Info(op+" failed", "caller", caller, "error", err)
		return err
	}
	observeHeld(s.vault.TotalHeld())
	logger.Info(op+" applied", "caller", caller)
	return nil
}

// credit stages fn, takes amount into custody and commits. The custody is
// only called once every ledger check passed.
func (s *Staker) credit(owner thor.Address, amount *uint256.Int, fn func(tx *ledger.Tx) error) error {
	tx := s.ledgerService.Begin(owner)
	if err := fn(tx); err != nil {
		return err
	}
	if err := s.vault.CreditOwner(owner, amount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if rerr := s.vault.DebitOwner(owner, amount); rerr != nil {
			logger.Error("failed to release deposit from custody", "owner", owner, "amount", amount, "error", rerr)
		}
		return err
	}
	return nil
}
