// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

type randomOp struct {
	Kind   uint8
	Owner  uint8
	Pool   uint8
	Amount uint16
}

func (ts *StakerTest) apply(op randomOp, owners []thor.Address) error {
	var (
		owner  = owners[int(op.Owner)%len(owners)]
		id     = stakes.PoolID(op.Pool%4) + 1 // pool 4 does not exist
		amount = uint256.NewInt(uint64(op.Amount))
	)
	switch op.Kind % 12 {
	case 0:
		return ts.Deposit(owner, amount)
	case 1:
		return ts.DepositAndStake(owner, amount)
	case 2:
		return ts.DepositAndDelegate(owner, id, amount)
	case 3:
		return ts.ActivateStake(owner, amount)
	case 4:
		return ts.ActivateAndDelegateStake(owner, id, amount)
	case 5:
		return ts.DeactivateStake(owner, amount)
	case 6:
		return ts.DelegateStake(owner, id, amount)
	case 7:
		return ts.UndelegateStake(owner, id, amount)
	case 8:
		return ts.DeactivateAndTimelockStake(owner, amount)
	case 9:
		return ts.DeactivateAndTimelockDelegatedStake(owner, id, amount)
	case 10:
		return ts.Withdraw(owner, amount)
	default:
		ts.clock.Advance(stakes.Epoch(op.Amount % 4))
		return nil
	}
}

func TestStaker_RandomSequences(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		ts := newTest(t)
		for range 3 {
			ts.CreatePool(fixedpoint.MustFraction(1, 10))
		}
		owners := []thor.Address{datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()}

		var ops []randomOp
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(300, 500).Fuzz(&ops)

		applied := 0
		for i, op := range ops {
			if err := ts.apply(op, owners); err != nil {
				require.True(t, reverts.IsRevertErr(err), "seed %d op %d: unexpected error %v", seed, i, err)
				continue
			}
			applied++
			require.NoError(t, ts.VerifyConservation(), "seed %d op %d", seed, i)

			for _, owner := range owners {
				total, err := ts.TotalStake(owner)
				require.NoError(t, err)
				r := ts.Record(owner)
				net, err := r.NetDeposited()
				require.NoError(t, err)
				require.True(t, total.Eq(net), "seed %d op %d: total %s, net deposit %s", seed, i, total.Dec(), net.Dec())
				require.True(t, ts.vault.BalanceOf(owner).Eq(net), "seed %d op %d: custody out of sync", seed, i)
			}
		}
		require.Positive(t, applied, "seed %d applied nothing", seed)
	}
}
