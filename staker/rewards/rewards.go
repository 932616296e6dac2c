// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/pool"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// View is a consistent, read-only view of pools and delegations.
type View interface {
	Pool(id stakes.PoolID) (*pool.Pool, error)
	// TotalDelegated is the stake delegated across all pools.
	TotalDelegated() (*uint256.Int, error)
	// Delegations lists the pool's non-zero delegations in ascending owner order.
	Delegations(id stakes.PoolID) ([]stakes.Delegation, error)
}

// Settlement is the reward split of one pool for an epoch.
type Settlement struct {
	PoolID           stakes.PoolID
	Epoch            stakes.Epoch
	PoolReward       *uint256.Int
	Operator         thor.Address
	OperatorReward   *uint256.Int
	DelegatorRewards map[thor.Address]*uint256.Int
}

// Distributed sums the operator and delegator rewards. It equals PoolReward.
func (s *Settlement) Distributed() (*uint256.Int, error) {
	total := s.OperatorReward.Clone()
	for _, r := range s.DelegatorRewards {
		var err error
		if total, err = stakes.Add(total, r); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// split divides the pool reward. The operator keeps floor(reward*share), each
// delegator receives floor(rest*delegated/total), and the rounding remainder
// goes to the operator.
func split(p *pool.Pool, delegations []stakes.Delegation, poolReward *uint256.Int) (*uint256.Int, map[thor.Address]*uint256.Int, error) {
	operator, err := p.OperatorShare.MulAmount(poolReward)
	if err != nil {
		return nil, nil, err
	}
	var (
		pot        = new(uint256.Int).Sub(poolReward, operator)
		remainder  = pot.Clone()
		delegators = make(map[thor.Address]*uint256.Int, len(delegations))
	)
	if !pot.IsZero() && !p.TotalDelegated.IsZero() {
		for _, d := range delegations {
			share, overflow := new(uint256.Int).MulDivOverflow(pot, d.Amount, p.TotalDelegated)
			if overflow {
				return nil, nil, reverts.Newf(reverts.Arithmetic, "delegator share of %s overflows", pot.Dec())
			}
			if share.Gt(remainder) {
				return nil, nil, reverts.Newf(reverts.Arithmetic, "delegations of pool %d exceed its total", p.ID)
			}
			remainder.Sub(remainder, share)
			delegators[d.Owner] = share
		}
	}
	operator.Add(operator, remainder)
	return operator, delegators, nil
}

// ensure the fraction used as alpha is usable by the cobb-douglas functions
func validateAlpha(alpha fixedpoint.Fraction) error {
	if err := alpha.ValidateUnit(); err != nil {
		return err
	}
	if alpha.Reduce().Denominator > fixedpoint.MaxAlphaDenominator {
		return reverts.Newf(reverts.InvalidInput, "alpha denominator %d exceeds %d", alpha.Reduce().Denominator, fixedpoint.MaxAlphaDenominator)
	}
	return nil
}
