// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// Account is an owner's record at snapshot time.
type Account struct {
	Owner  thor.Address
	Record *stakes.Record
}

// State is an immutable copy of the ledger and pool registry at an epoch.
// Accounts are kept in ascending owner order and pools in ascending id order.
type State struct {
	epoch      stakes.Epoch
	lastPoolID stakes.PoolID
	accounts   []Account
	pools      []*pool.Pool

	index       map[stakes.PoolID]int
	delegations map[stakes.PoolID][]stakes.Delegation
	total       *uint256.Int
}

// New copies the given records and pools. The pool delegated totals must match
// the records.
func New(epoch stakes.Epoch, lastPoolID stakes.PoolID, records map[thor.Address]*stakes.Record, pools []*pool.Pool) (*State, error) {
	accounts := make([]Account, 0, len(records))
	for owner, r := range records {
		accounts = append(accounts, Account{Owner: owner, Record: r.Clone()})
	}
	slices.SortFunc(accounts, func(a, b Account) int { return a.Owner.Compare(b.Owner) })

	copied := make([]*pool.Pool, 0, len(pools))
	for _, p := range pools {
		copied = append(copied, clonePool(p))
	}
	slices.SortFunc(copied, func(a, b *pool.Pool) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return build(epoch, lastPoolID, accounts, copied)
}

func build(epoch stakes.Epoch, lastPoolID stakes.PoolID, accounts []Account, pools []*pool.Pool) (*State, error) {
	s := &State{
		epoch:       epoch,
		lastPoolID:  lastPoolID,
		accounts:    accounts,
		pools:       pools,
		index:       make(map[stakes.PoolID]int, len(pools)),
		delegations: make(map[stakes.PoolID][]stakes.Delegation),
		total:       new(uint256.Int),
	}
	for i, p := range pools {
		if p.ID == 0 || p.ID > lastPoolID {
			return nil, reverts.Newf(reverts.InvalidInput, "pool id %d out of range [1, %d]", p.ID, lastPoolID)
		}
		if i > 0 && pools[i-1].ID == p.ID {
			return nil, reverts.Newf(reverts.InvalidInput, "duplicate pool id %d", p.ID)
		}
		s.index[p.ID] = i
	}

	sums := make(map[stakes.PoolID]*uint256.Int)
	for _, a := range accounts {
		for _, id := range a.Record.PoolIDs() {
			if _, ok := s.index[id]; !ok {
				return nil, reverts.Newf(reverts.PoolNotFound, "owner %v delegates to unknown pool %d", a.Owner, id)
			}
			amount := a.Record.Delegated[id]
			s.delegations[id] = append(s.delegations[id], stakes.Delegation{Owner: a.Owner, Amount: amount.Clone()})

			sum, ok := sums[id]
			if !ok {
				sum = new(uint256.Int)
			}
			var err error
			if sums[id], err = stakes.Add(sum, amount); err != nil {
				return nil, err
			}
			if s.total, err = stakes.Add(s.total, amount); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range pools {
		sum, ok := sums[p.ID]
		if !ok {
			sum = new(uint256.Int)
		}
		if p.TotalDelegated == nil {
			p.TotalDelegated = sum
		} else if !p.TotalDelegated.Eq(sum) {
			return nil, reverts.Newf(reverts.InvalidInput, "pool %d delegated total %s, owners delegated %s", p.ID, p.TotalDelegated.Dec(), sum.Dec())
		}
	}
	return s, nil
}

func (s *State) Epoch() stakes.Epoch {
	return s.epoch
}

func (s *State) LastPoolID() stakes.PoolID {
	return s.lastPoolID
}

// Pool returns a copy of the pool.
func (s *State) Pool(id stakes.PoolID) (*pool.Pool, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", id)
	}
	return clonePool(s.pools[i]), nil
}

// Pools returns copies of every pool in id order.
func (s *State) Pools() []*pool.Pool {
	pools := make([]*pool.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		pools = append(pools, clonePool(p))
	}
	return pools
}

// TotalDelegated is the stake delegated across all pools.
func (s *State) TotalDelegated() (*uint256.Int, error) {
	return s.total.Clone(), nil
}

// Delegations lists the pool's non-zero delegations in ascending owner order.
func (s *State) Delegations(id stakes.PoolID) ([]stakes.Delegation, error) {
	if _, ok := s.index[id]; !ok {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", id)
	}
	src := s.delegations[id]
	out := make([]stakes.Delegation, len(src))
	for i, d := range src {
		out[i] = stakes.Delegation{Owner: d.Owner, Amount: d.Amount.Clone()}
	}
	return out, nil
}

// Records returns copies of every owner record.
func (s *State) Records() map[thor.Address]*stakes.Record {
	records := make(map[thor.Address]*stakes.Record, len(s.accounts))
	for _, a := range s.accounts {
		records[a.Owner] = a.Record.Clone()
	}
	return records
}

// Accounts returns copies of the accounts in ascending owner order.
func (s *State) Accounts() []Account {
	accounts := make([]Account, len(s.accounts))
	for i, a := range s.accounts {
		accounts[i] = Account{Owner: a.Owner, Record: a.Record.Clone()}
	}
	return accounts
}

// Dump renders the state for diagnostics.
func (s *State) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	return cfg.Sdump(struct {
		Epoch      stakes.Epoch
		LastPoolID stakes.PoolID
		Accounts   []Account
		Pools      []*pool.Pool
	}{s.epoch, s.lastPoolID, s.accounts, s.pools})
}

func clonePool(p *pool.Pool) *pool.Pool {
	c := *p
	c.Makers = slices.Clone(p.Makers)
	if p.TotalDelegated != nil {
		c.TotalDelegated = p.TotalDelegated.Clone()
	}
	return &c
}
