// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// Update runs fn in a transaction for the owner and commits it if fn succeeds.
func (s *Service) Update(owner thor.Address, fn func(tx *Tx) error) error {
	tx := s.Begin(owner)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Service) Deposit(owner thor.Address, amount *uint256.Int) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Deposit(amount)
	})
}

func (s *Service) Activate(owner thor.Address, amount *uint256.Int) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Activate(amount)
	})
}

func (s *Service) Deactivate(owner thor.Address, amount *uint256.Int) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Deactivate(amount)
	})
}

func (s *Service) Delegate(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Delegate(id, amount)
	})
}

func (s *Service) Undelegate(owner thor.Address, id stakes.PoolID, amount *uint256.Int) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Undelegate(id, amount)
	})
}

func (s *Service) DeactivateAndTimelock(owner thor.Address, amount *uint256.Int, current stakes.Epoch) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.DeactivateAndTimelock(amount, current)
	})
}

func (s *Service) DeactivateAndTimelockDelegated(owner thor.Address, id stakes.PoolID, amount *uint256.Int, current stakes.Epoch) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.DeactivateAndTimelockDelegated(id, amount, current)
	})
}

func (s *Service) Withdraw(owner thor.Address, amount *uint256.Int, current stakes.Epoch) error {
	return s.Update(owner, func(tx *Tx) error {
		return tx.Withdraw(amount, current)
	})
}
