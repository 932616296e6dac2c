// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/staker/stakes"
)

var logger = log.WithContext("pkg", "rewards")

// Engine computes operator and delegator rewards from a View.
type Engine struct {
	alpha fixedpoint.Fraction
	evals *cache.LRU
}

// cobb-douglas inputs, keyed by their big-endian encoding
type evalKey struct {
	totalRewards, ownerFees, totalFees, ownerStake, totalStake [32]byte
	alpha                                                      fixedpoint.Fraction
}

func New(alpha fixedpoint.Fraction, cacheSize int) (*Engine, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	evals, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{alpha: alpha, evals: evals}, nil
}

func (e *Engine) Alpha() fixedpoint.Fraction {
	return e.alpha
}

// ComputeOperatorAndDelegatorRewards splits the pool's share of totalRewards.
// The pool reward is CobbDouglas(totalRewards, ownerFees, totalFees, pool
// delegated, all pools delegated, alpha).
func (e *Engine) ComputeOperatorAndDelegatorRewards(
	view View,
	id stakes.PoolID,
	totalRewards, ownerFees, totalFees *uint256.Int,
	epoch stakes.Epoch,
) (*Settlement, error) {
	p, err := view.Pool(id)
	if err != nil {
		return nil, err
	}
	totalStake, err := view.TotalDelegated()
	if err != nil {
		return nil, err
	}
	poolReward, err := e.cobbDouglas(totalRewards, ownerFees, totalFees, p.TotalDelegated, totalStake)
	if err != nil {
		return nil, err
	}
	delegations, err := view.Delegations(id)
	if err != nil {
		return nil, err
	}
	operator, delegators, err := split(p, delegations, poolReward)
	if err != nil {
		return nil, err
	}
	return &Settlement{
		PoolID:           id,
		Epoch:            epoch,
		PoolReward:       poolReward,
		Operator:         p.Operator,
		OperatorReward:   operator,
		DelegatorRewards: delegators,
	}, nil
}

// SettleEpoch computes the settlement of every pool in fees, in parallel.
// The total fees are the sum of all pool fees. Settlements are returned in pool id order.
func (e *Engine) SettleEpoch(
	ctx context.Context,
	view View,
	epoch stakes.Epoch,
	totalRewards *uint256.Int,
	fees map[stakes.PoolID]*uint256.Int,
) ([]*Settlement, error) {
	start := time.Now()
	ids := make([]stakes.PoolID, 0, len(fees))
	for id := range fees {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	totalFees := new(uint256.Int)
	for _, id := range ids {
		var err error
		if totalFees, err = stakes.Add(totalFees, fees[id]); err != nil {
			return nil, err
		}
	}

	var (
		settlements = make([]*Settlement, len(ids))
		g, gctx     = errgroup.WithContext(ctx)
	)
	g.SetLimit(runtime.NumCPU())
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.ComputeOperatorAndDelegatorRewards(view, id, totalRewards, fees[id], totalFees, epoch)
			if err != nil {
				logger.Info("pool settlement failed", "epoch", epoch, "pool", id, "error", err)
				return err
			}
			settlements[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metricSettlementDuration().Observe(time.Since(start).Milliseconds())
	metricSettledPools().Add(int64(len(settlements)))
	hit, miss := e.evals.Stats()
	logger.Debug("reward evaluation cache", "hit", hit, "miss", miss, "rate", e.evals.HitRate())
	logger.Debug("settled epoch", "epoch", epoch, "pools", len(settlements), "elapsed", time.Since(start))
	return settlements, nil
}

func (e *Engine) cobbDouglas(totalRewards, ownerFees, totalFees, ownerStake, totalStake *uint256.Int) (*uint256.Int, error) {
	key := evalKey{
		totalRewards: totalRewards.Bytes32(),
		ownerFees:    ownerFees.Bytes32(),
		totalFees:    totalFees.Bytes32(),
		ownerStake:   ownerStake.Bytes32(),
		totalStake:   totalStake.Bytes32(),
		alpha:        e.alpha,
	}
	v, err := e.evals.GetOrLoad(key, func(any) (any, error) {
		return fixedpoint.CobbDouglas(totalRewards, ownerFees, totalFees, ownerStake, totalStake, e.alpha.Numerator, e.alpha.Denominator)
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int).Clone(), nil
}
