// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "github.com/vechain/stakepool/metrics"

var (
	metricSettlementDuration = metrics.LazyLoadHistogram("rewards_settlement_duration_ms", metrics.BucketSettlement)
	metricSettledPools       = metrics.LazyLoadCounter("rewards_settled_pools_count")
)
