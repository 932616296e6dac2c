// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// the rlp forms. maps are flattened into slices ordered by key.
type (
	stateRLP struct {
		Epoch      uint64
		LastPoolID uint64
		Accounts   []accountRLP
		Pools      []poolRLP
	}
	accountRLP struct {
		Owner     thor.Address
		Active    *uint256.Int
		Inactive  *uint256.Int
		Delegated []delegationRLP
		Timelocks []timelockRLP
		Deposited *uint256.Int
		Withdrawn *uint256.Int
	}
	delegationRLP struct {
		PoolID uint64
		Amount *uint256.Int
	}
	timelockRLP struct {
		Amount      *uint256.Int
		UnlockEpoch uint64
	}
	poolRLP struct {
		ID            uint64
		Operator      thor.Address
		ShareNum      uint64
		ShareDen      uint64
		Makers        []thor.Address
		TotalDelegate *uint256.Int
	}
)

// Encode returns the canonical rlp encoding of the state.
func (s *State) Encode() ([]byte, error) {
	enc := stateRLP{
		Epoch:      uint64(s.epoch),
		LastPoolID: uint64(s.lastPoolID),
		Accounts:   make([]accountRLP, 0, len(s.accounts)),
		Pools:      make([]poolRLP, 0, len(s.pools)),
	}
	for _, a := range s.accounts {
		r := a.Record
		acc := accountRLP{
			Owner:     a.Owner,
			Active:    r.Active,
			Inactive:  r.Inactive,
			Deposited: r.Deposited,
			Withdrawn: r.Withdrawn,
		}
		for _, id := range r.PoolIDs() {
			acc.Delegated = append(acc.Delegated, delegationRLP{PoolID: uint64(id), Amount: r.Delegated[id]})
		}
		for _, tl := range r.Timelocks {
			acc.Timelocks = append(acc.Timelocks, timelockRLP{Amount: tl.Amount, UnlockEpoch: uint64(tl.UnlockEpoch)})
		}
		enc.Accounts = append(enc.Accounts, acc)
	}
	for _, p := range s.pools {
		enc.Pools = append(enc.Pools, poolRLP{
			ID:            uint64(p.ID),
			Operator:      p.Operator,
			ShareNum:      p.OperatorShare.Numerator,
			ShareDen:      p.OperatorShare.Denominator,
			Makers:        p.Makers,
			TotalDelegate: p.TotalDelegated,
		})
	}
	return rlp.EncodeToBytes(&enc)
}

// Hash is the blake2b hash of the encoded state.
func (s *State) Hash() (thor.Bytes32, error) {
	data, err := s.Encode()
	if err != nil {
		return thor.Bytes32{}, err
	}
	return thor.Blake2b(data), nil
}

// Decode parses an encoded state and checks its consistency.
func Decode(data []byte) (*State, error) {
	var dec stateRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	accounts := make([]Account, 0, len(dec.Accounts))
	for i, a := range dec.Accounts {
		if i > 0 && dec.Accounts[i-1].Owner.Compare(a.Owner) >= 0 {
			return nil, errors.Errorf("decode snapshot: accounts not in ascending order at %v", a.Owner)
		}
		r := &stakes.Record{
			Active:    orZero(a.Active),
			Inactive:  orZero(a.Inactive),
			Delegated: make(map[stakes.PoolID]*uint256.Int, len(a.Delegated)),
			Deposited: orZero(a.Deposited),
			Withdrawn: orZero(a.Withdrawn),
		}
		for _, d := range a.Delegated {
			r.Delegated[stakes.PoolID(d.PoolID)] = orZero(d.Amount)
		}
		for _, tl := range a.Timelocks {
			r.Timelocks = append(r.Timelocks, stakes.Timelock{Amount: orZero(tl.Amount), UnlockEpoch: stakes.Epoch(tl.UnlockEpoch)})
		}
		accounts = append(accounts, Account{Owner: a.Owner, Record: r})
	}

	pools := make([]*pool.Pool, 0, len(dec.Pools))
	for i, p := range dec.Pools {
		if i > 0 && dec.Pools[i-1].ID >= p.ID {
			return nil, errors.Errorf("decode snapshot: pools not in ascending order at %d", p.ID)
		}
		if !slices.IsSortedFunc(p.Makers, thor.Address.Compare) {
			return nil, errors.Errorf("decode snapshot: makers of pool %d not sorted", p.ID)
		}
		pools = append(pools, &pool.Pool{
			ID:             stakes.PoolID(p.ID),
			Operator:       p.Operator,
			OperatorShare:  fixedpoint.Fraction{Numerator: p.ShareNum, Denominator: p.ShareDen},
			Makers:         p.Makers,
			TotalDelegated: orZero(p.TotalDelegate),
		})
	}

	s, err := build(stakes.Epoch(dec.Epoch), stakes.PoolID(dec.LastPoolID), accounts, pools)
	if err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return s, nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
