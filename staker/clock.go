// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync/atomic"

	"github.com/vechain/stakepool/staker/stakes"
)

// ManualClock is an EpochClock advanced by its owner.
type ManualClock struct {
	epoch atomic.Uint64
}

func NewManualClock(epoch stakes.Epoch) *ManualClock {
	c := &ManualClock{}
	c.epoch.Store(uint64(epoch))
	return c
}

func (c *ManualClock) CurrentEpoch() stakes.Epoch {
	return stakes.Epoch(c.epoch.Load())
}

// Advance moves the clock forward by n epochs.
func (c *ManualClock) Advance(n stakes.Epoch) stakes.Epoch {
	return stakes.Epoch(c.epoch.Add(uint64(n)))
}

// Set moves the clock to epoch. The clock never goes backwards.
func (c *ManualClock) Set(epoch stakes.Epoch) {
	for {
		cur := c.epoch.Load()
		if uint64(epoch) <= cur || c.epoch.CompareAndSwap(cur, uint64(epoch)) {
			return
		}
	}
}
