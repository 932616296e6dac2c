// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/thor"
)

// PoolID identifies a staking pool. Valid ids start at 1.
type PoolID uint64

// Epoch is the discrete time unit gating timelock expiry.
type Epoch uint64

// Add returns a + b, failing on overflow.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, reverts.Newf(reverts.Arithmetic, "%s + %s overflows", a.Dec(), b.Dec())
	}
	return z, nil
}

// Sub returns a - b, failing on underflow.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, reverts.Newf(reverts.Arithmetic, "%s - %s underflows", a.Dec(), b.Dec())
	}
	return z, nil
}

// Sum adds all values, failing on overflow.
func Sum(values ...*uint256.Int) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, v := range values {
		var err error
		if total, err = Add(total, v); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Delegation is an owner's stake in a pool.
type Delegation struct {
	Owner  thor.Address
	Amount *uint256.Int
}

// Timelock is stake waiting for UnlockEpoch before it can be withdrawn.
type Timelock struct {
	Amount      *uint256.Int
	UnlockEpoch Epoch
}

func (t Timelock) Unlocked(current Epoch) bool {
	return current >= t.UnlockEpoch
}

// Record holds an owner's stake across all states, plus running deposit and
// withdrawal totals. Timelocks are kept in creation order.
type Record struct {
	Active    *uint256.Int
	Inactive  *uint256.Int
	Delegated map[PoolID]*uint256.Int
	Timelocks []Timelock

	Deposited *uint256.Int
	Withdrawn *uint256.Int
}

func NewRecord() *Record {
	return &Record{
		Active:    new(uint256.Int),
		Inactive:  new(uint256.Int),
		Delegated: make(map[PoolID]*uint256.Int),
		Deposited: new(uint256.Int),
		Withdrawn: new(uint256.Int),
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := &Record{
		Active:    r.Active.Clone(),
		Inactive:  r.Inactive.Clone(),
		Delegated: make(map[PoolID]*uint256.Int, len(r.Delegated)),
		Deposited: r.Deposited.Clone(),
		Withdrawn: r.Withdrawn.Clone(),
	}
	for id, amount := range r.Delegated {
		c.Delegated[id] = amount.Clone()
	}
	if len(r.Timelocks) > 0 {
		c.Timelocks = make([]Timelock, len(r.Timelocks))
		for i, tl := range r.Timelocks {
			c.Timelocks[i] = Timelock{Amount: tl.Amount.Clone(), UnlockEpoch: tl.UnlockEpoch}
		}
	}
	return c
}

// DelegatedTo returns the stake delegated to the pool, zero if none.
func (r *Record) DelegatedTo(id PoolID) *uint256.Int {
	if amount, ok := r.Delegated[id]; ok {
		return amount.Clone()
	}
	return new(uint256.Int)
}

// PoolIDs returns the pools holding a non-zero delegation, in ascending order.
func (r *Record) PoolIDs() []PoolID {
	ids := make([]PoolID, 0, len(r.Delegated))
	for id, amount := range r.Delegated {
		if !amount.IsZero() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Record) TotalDelegated() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, id := range r.PoolIDs() {
		var err error
		if total, err = Add(total, r.Delegated[id]); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func (r *Record) TotalTimelocked() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, tl := range r.Timelocks {
		var err error
		if total, err = Add(total, tl.Amount); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Withdrawable sums the timelocks unlocked at the given epoch.
func (r *Record) Withdrawable(current Epoch) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, tl := range r.Timelocks {
		if !tl.Unlocked(current) {
			continue
		}
		var err error
		if total, err = Add(total, tl.Amount); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Total is the sum of every stake state.
func (r *Record) Total() (*uint256.Int, error) {
	delegated, err := r.TotalDelegated()
	if err != nil {
		return nil, err
	}
	timelocked, err := r.TotalTimelocked()
	if err != nil {
		return nil, err
	}
	return Sum(r.Active, r.Inactive, delegated, timelocked)
}

// NetDeposited is the amount deposited minus the amount withdrawn.
func (r *Record) NetDeposited() (*uint256.Int, error) {
	return Sub(r.Deposited, r.Withdrawn)
}

// Balanced reports whether the stake states add up to the net deposit.
func (r *Record) Balanced() (bool, error) {
	total, err := r.Total()
	if err != nil {
		return false, err
	}
	net, err := r.NetDeposited()
	if err != nil {
		return false, err
	}
	return total.Eq(net), nil
}

// IsEmpty reports whether the record never received a deposit.
func (r *Record) IsEmpty() bool {
	return r.Deposited.IsZero()
}
