// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/staker/reverts"
)

var (
	metricOperations = metrics.LazyLoadCounterVec("staker_operations_count", []string{"op", "result"})
	metricHeldUnits  = metrics.LazyLoadGauge("staker_held_units")
	metricPools      = metrics.LazyLoadGauge("staker_pools")
)

var unit = fixedpoint.ToBaseUnitAmount(1)

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if kind := reverts.KindOf(err); kind != 0 {
			result = kind.String()
		}
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

func observeHeld(held *uint256.Int) {
	units := new(uint256.Int).Div(held, unit)
	if units.IsUint64() && units.Uint64() <= 1<<63-1 {
		metricHeldUnits().Set(int64(units.Uint64()))
	}
}
