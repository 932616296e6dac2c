// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault is an in-memory custody holding the staked asset per owner.
package vault

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// MemVault keeps balances in memory. It is safe for concurrent use.
type MemVault struct {
	lock     sync.RWMutex
	balances map[thor.Address]*uint256.Int
	total    *uint256.Int
}

func NewMem() *MemVault {
	return &MemVault{
		balances: make(map[thor.Address]*uint256.Int),
		total:    new(uint256.Int),
	}
}

// CreditOwner records amount received from the owner.
func (v *MemVault) CreditOwner(owner thor.Address, amount *uint256.Int) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	total, err := stakes.Add(v.total, amount)
	if err != nil {
		return err
	}
	balance, err := stakes.Add(v.balanceOf(owner), amount)
	if err != nil {
		return err
	}
	v.total = total
	v.balances[owner] = balance
	return nil
}

// DebitOwner releases amount to the owner.
func (v *MemVault) DebitOwner(owner thor.Address, amount *uint256.Int) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	balance := v.balanceOf(owner)
	if balance.Lt(amount) {
		return reverts.Newf(reverts.InsufficientBalance, "vault balance %s is less than %s", balance.Dec(), amount.Dec())
	}
	balance.Sub(balance, amount)
	if balance.IsZero() {
		delete(v.balances, owner)
	} else {
		v.balances[owner] = balance
	}
	v.total = new(uint256.Int).Sub(v.total, amount)
	return nil
}

// BalanceOf returns the amount held for the owner.
func (v *MemVault) BalanceOf(owner thor.Address) *uint256.Int {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.balanceOf(owner)
}

// TotalHeld returns the amount held for all owners.
func (v *MemVault) TotalHeld() *uint256.Int {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.total.Clone()
}

func (v *MemVault) balanceOf(owner thor.Address) *uint256.Int {
	if b, ok := v.balances[owner]; ok {
		return b.Clone()
	}
	return new(uint256.Int)
}
