// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/globalstats"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// ErrStaleTx is returned when committing a transaction prepared before another commit.
var ErrStaleTx = errors.New("ledger changed since the transaction began")

// Tx stages mutations of one owner's record on copies of the ledger state.
// Every step validates before it mutates the copies, so a failed step leaves
// the transaction as it was. Nothing is visible until Commit.
type Tx struct {
	svc     *Service
	owner   thor.Address
	version uint64

	record *stakes.Record
	stats  *globalstats.Stats
	aggs   map[stakes.PoolID]*aggregation.Aggregation
}

// Begin starts a transaction for the owner.
func (s *Service) Begin(owner thor.Address) *Tx {
	return &Tx{
		svc:     s,
		owner:   owner,
		version: s.version,
		record:  s.GetRecord(owner),
		stats:   s.stats.GetStats(),
		aggs:    make(map[stakes.PoolID]*aggregation.Aggregation),
	}
}

// Record returns the staged record.
func (tx *Tx) Record() *stakes.Record {
	return tx.record.Clone()
}

// Deposit credits amount to the inactive state.
func (tx *Tx) Deposit(amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	deposited, err := stakes.Add(tx.record.Deposited, amount)
	if err != nil {
		return err
	}
	inactive, err := stakes.Add(tx.record.Inactive, amount)
	if err != nil {
		return err
	}
	stats := tx.stats.Clone()
	if err := stats.AddDeposit(amount); err != nil {
		return err
	}

	tx.record.Deposited = deposited
	tx.record.Inactive = inactive
	tx.stats = stats
	return nil
}

// Activate moves amount from inactive to active.
func (tx *Tx) Activate(amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if tx.record.Inactive.Lt(amount) {
		return insufficient("inactive", tx.record.Inactive, amount)
	}
	active, err := stakes.Add(tx.record.Active, amount)
	if err != nil {
		return err
	}

	tx.record.Inactive = new(uint256.Int).Sub(tx.record.Inactive, amount)
	tx.record.Active = active
	return nil
}

// Deactivate moves amount from active back to inactive.
func (tx *Tx) Deactivate(amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if tx.record.Active.Lt(amount) {
		return insufficient("active", tx.record.Active, amount)
	}
	inactive, err := stakes.Add(tx.record.Inactive, amount)
	if err != nil {
		return err
	}

	tx.record.Active = new(uint256.Int).Sub(tx.record.Active, amount)
	tx.record.Inactive = inactive
	return nil
}

// Delegate moves amount from active into the pool.
func (tx *Tx) Delegate(id stakes.PoolID, amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if _, err := tx.aggregation(id); err != nil {
		return err
	}
	if tx.record.Active.Lt(amount) {
		return insufficient("active", tx.record.Active, amount)
	}
	if err := tx.addDelegation(id, amount); err != nil {
		return err
	}
	tx.record.Active = new(uint256.Int).Sub(tx.record.Active, amount)
	return nil
}

// DelegateInactive moves amount from inactive directly into the pool.
func (tx *Tx) DelegateInactive(id stakes.PoolID, amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if _, err := tx.aggregation(id); err != nil {
		return err
	}
	if tx.record.Inactive.Lt(amount) {
		return insufficient("inactive", tx.record.Inactive, amount)
	}
	if err := tx.addDelegation(id, amount); err != nil {
		return err
	}
	tx.record.Inactive = new(uint256.Int).Sub(tx.record.Inactive, amount)
	return nil
}

// Undelegate moves amount from the pool back to active.
func (tx *Tx) Undelegate(id stakes.PoolID, amount *uint256.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	active, err := stakes.Add(tx.record.Active, amount)
	if err != nil {
		return err
	}
	if err := tx.subDelegation(id, amount); err != nil {
		return err
	}
	tx.record.Active = active
	return nil
}

// DeactivateAndTimelock moves amount from active into a new timelock
// unlocking lock period epochs after current.
func (tx *Tx) DeactivateAndTimelock(amount *uint256.Int, current stakes.Epoch) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if tx.record.Active.Lt(amount) {
		return insufficient("active", tx.record.Active, amount)
	}
	tl, err := tx.newTimelock(amount, current)
	if err != nil {
		return err
	}

	tx.record.Active = new(uint256.Int).Sub(tx.record.Active, amount)
	tx.record.Timelocks = append(tx.record.Timelocks, tl)
	return nil
}

// DeactivateAndTimelockDelegated moves amount from the pool into a new timelock.
func (tx *Tx) DeactivateAndTimelockDelegated(id stakes.PoolID, amount *uint256.Int, current stakes.Epoch) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	tl, err := tx.newTimelock(amount, current)
	if err != nil {
		return err
	}
	if err := tx.subDelegation(id, amount); err != nil {
		return err
	}
	tx.record.Timelocks = append(tx.record.Timelocks, tl)
	return nil
}

// Withdraw consumes unlocked timelocks, oldest first, until amount is covered.
// The last consumed timelock may be partially reduced.
func (tx *Tx) Withdraw(amount *uint256.Int, current stakes.Epoch) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	withdrawable, err := tx.record.Withdrawable(current)
	if err != nil {
		return err
	}
	if withdrawable.Lt(amount) {
		return reverts.Newf(reverts.InsufficientWithdrawable,
			"withdrawable stake %s is less than %s", withdrawable.Dec(), amount.Dec())
	}
	withdrawn, err := stakes.Add(tx.record.Withdrawn, amount)
	if err != nil {
		return err
	}
	stats := tx.stats.Clone()
	if err := stats.AddWithdrawal(amount); err != nil {
		return err
	}

	var (
		remaining = amount.Clone()
		kept      = make([]stakes.Timelock, 0, len(tx.record.Timelocks))
	)
	for _, tl := range tx.record.Timelocks {
		switch {
		case remaining.IsZero() || !tl.Unlocked(current):
			kept = append(kept, tl)
		case tl.Amount.Gt(remaining):
			kept = append(kept, stakes.Timelock{
				Amount:      new(uint256.Int).Sub(tl.Amount, remaining),
				UnlockEpoch: tl.UnlockEpoch,
			})
			remaining.Clear()
		default:
			remaining.Sub(remaining, tl.Amount)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}

	tx.record.Timelocks = kept
	tx.record.Withdrawn = withdrawn
	tx.stats = stats
	return nil
}

// Commit publishes the staged state.
func (tx *Tx) Commit() error {
	s := tx.svc
	if tx.version != s.version {
		return ErrStaleTx
	}
	for id, agg := range tx.aggs {
		s.aggregations.SetAggregation(id, agg)
	}
	s.stats.SetStats(tx.stats)
	if !tx.record.IsEmpty() {
		s.records[tx.owner] = tx.record.Clone()
	}
	s.version++
	return nil
}

func (tx *Tx) aggregation(id stakes.PoolID) (*aggregation.Aggregation, error) {
	if agg, ok := tx.aggs[id]; ok {
		return agg.Clone(), nil
	}
	if !tx.svc.pools.Exists(id) {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", id)
	}
	return tx.svc.aggregations.GetAggregation(id), nil
}

func (tx *Tx) addDelegation(id stakes.PoolID, amount *uint256.Int) error {
	agg, err := tx.aggregation(id)
	if err != nil {
		return err
	}
	prior := tx.record.DelegatedTo(id)
	delegated, err := stakes.Add(prior, amount)
	if err != nil {
		return err
	}
	if err := agg.Add(prior, amount); err != nil {
		return err
	}

	tx.record.Delegated[id] = delegated
	tx.aggs[id] = agg
	return nil
}

func (tx *Tx) subDelegation(id stakes.PoolID, amount *uint256.Int) error {
	agg, err := tx.aggregation(id)
	if err != nil {
		return err
	}
	prior := tx.record.DelegatedTo(id)
	if prior.Lt(amount) {
		return insufficient("delegated", prior, amount)
	}
	if err := agg.Sub(prior, amount); err != nil {
		return err
	}

	if remaining := new(uint256.Int).Sub(prior, amount); remaining.IsZero() {
		delete(tx.record.Delegated, id)
	} else {
		tx.record.Delegated[id] = remaining
	}
	tx.aggs[id] = agg
	return nil
}

func (tx *Tx) newTimelock(amount *uint256.Int, current stakes.Epoch) (stakes.Timelock, error) {
	unlock := current + tx.svc.lockPeriod
	if unlock < current {
		return stakes.Timelock{}, reverts.Newf(reverts.Arithmetic, "unlock epoch %d + %d overflows", current, tx.svc.lockPeriod)
	}
	return stakes.Timelock{Amount: amount.Clone(), UnlockEpoch: unlock}, nil
}

func checkAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.InvalidInput, "amount must be greater than 0")
	}
	return nil
}

func insufficient(state string, available, requested *uint256.Int) error {
	return reverts.Newf(reverts.InsufficientBalance, "%s stake %s is less than %s", state, available.Dec(), requested.Dec())
}
