// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

type TestFunc func(t *testing.T)

// TestSequence chains staker operations and assertions, run in order by Run.
type TestSequence struct {
	staker *Staker
	clock  *ManualClock

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staker *Staker, clock *ManualClock) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staker: staker, clock: clock}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) SetEpoch(epoch stakes.Epoch) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.clock.Set(epoch)
		t.Logf("epoch %d", epoch)
	})
}

func (st *TestSequence) Deposit(owner thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.Deposit(owner, uint256.NewInt(amount)), "deposit %d", amount)
	})
}

func (st *TestSequence) Activate(owner thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.ActivateStake(owner, uint256.NewInt(amount)), "activate %d", amount)
	})
}

func (st *TestSequence) Deactivate(owner thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.DeactivateStake(owner, uint256.NewInt(amount)), "deactivate %d", amount)
	})
}

func (st *TestSequence) Delegate(owner thor.Address, id stakes.PoolID, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.DelegateStake(owner, id, uint256.NewInt(amount)), "delegate %d to %d", amount, id)
	})
}

func (st *TestSequence) Undelegate(owner thor.Address, id stakes.PoolID, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.UndelegateStake(owner, id, uint256.NewInt(amount)), "undelegate %d from %d", amount, id)
	})
}

func (st *TestSequence) Timelock(owner thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.DeactivateAndTimelockStake(owner, uint256.NewInt(amount)), "timelock %d", amount)
	})
}

func (st *TestSequence) TimelockDelegated(owner thor.Address, id stakes.PoolID, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.DeactivateAndTimelockDelegatedStake(owner, id, uint256.NewInt(amount)), "timelock %d from %d", amount, id)
	})
}

func (st *TestSequence) Withdraw(owner thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.Withdraw(owner, uint256.NewInt(amount)), "withdraw %d", amount)
	})
}

// ExpectRevert runs the operation and expects it to fail with target, leaving the owner's record untouched.
func (st *TestSequence) ExpectRevert(owner thor.Address, target error, op func(s *Staker) error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		before := st.staker.Record(owner)
		assert.ErrorIs(t, op(st.staker), target)
		assert.Equal(t, before, st.staker.Record(owner), "record changed by a failed operation")
	})
}

func (st *TestSequence) AssertStake(owner thor.Address, active, inactive, delegated, timelocked uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, active, st.staker.ActivatedStake(owner).Uint64(), "active stake mismatch")
		assert.Equal(t, inactive, st.staker.DeactivatedStake(owner).Uint64(), "inactive stake mismatch")

		d, err := st.staker.StakeDelegatedByOwner(owner)
		require.NoError(t, err)
		assert.Equal(t, delegated, d.Uint64(), "delegated stake mismatch")

		tl, err := st.staker.TimelockedStake(owner)
		require.NoError(t, err)
		assert.Equal(t, timelocked, tl.Uint64(), "timelocked stake mismatch")

		total, err := st.staker.TotalStake(owner)
		require.NoError(t, err)
		assert.Equal(t, active+inactive+delegated+timelocked, total.Uint64(), "total stake mismatch")
	})
}

func (st *TestSequence) AssertWithdrawable(owner thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		w, err := st.staker.WithdrawableStake(owner)
		require.NoError(t, err)
		assert.Equal(t, expected, w.Uint64(), "withdrawable stake mismatch")
	})
}

func (st *TestSequence) AssertPoolStake(id stakes.PoolID, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, expected, st.staker.StakeDelegatedToPool(id).Uint64(), "pool %d stake mismatch", id)
	})
}

func (st *TestSequence) AssertConserved() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.VerifyConservation())
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
