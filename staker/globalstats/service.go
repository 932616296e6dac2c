// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/stakes"
)

// Stats are the ledger-wide deposit and withdrawal totals.
type Stats struct {
	Deposited *uint256.Int
	Withdrawn *uint256.Int
}

func newStats() *Stats {
	return &Stats{Deposited: new(uint256.Int), Withdrawn: new(uint256.Int)}
}

func (s *Stats) Clone() *Stats {
	return &Stats{Deposited: s.Deposited.Clone(), Withdrawn: s.Withdrawn.Clone()}
}

func (s *Stats) AddDeposit(amount *uint256.Int) error {
	deposited, err := stakes.Add(s.Deposited, amount)
	if err != nil {
		return err
	}
	s.Deposited = deposited
	return nil
}

func (s *Stats) AddWithdrawal(amount *uint256.Int) error {
	withdrawn, err := stakes.Add(s.Withdrawn, amount)
	if err != nil {
		return err
	}
	if withdrawn.Gt(s.Deposited) {
		_, err := stakes.Sub(s.Deposited, withdrawn)
		return err
	}
	s.Withdrawn = withdrawn
	return nil
}

// Held is the amount the custody must hold for the ledger.
func (s *Stats) Held() (*uint256.Int, error) {
	return stakes.Sub(s.Deposited, s.Withdrawn)
}

// Service manages ledger-wide totals.
type Service struct {
	stats *Stats
}

func New() *Service {
	return &Service{stats: newStats()}
}

// GetStats returns a copy of the current totals.
func (s *Service) GetStats() *Stats {
	return s.stats.Clone()
}

func (s *Service) SetStats(stats *Stats) {
	s.stats = stats.Clone()
}

// Held returns deposited minus withdrawn.
func (s *Service) Held() (*uint256.Int, error) {
	return s.stats.Held()
}
