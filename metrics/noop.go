// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

type noopMetrics struct{}

func (noopMetrics) GetOrCreateCountMeter(string) CountMeter                  { return noopMeter{} }
func (noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter  { return noopMeter{} }
func (noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                  { return noopMeter{} }
func (noopMetrics) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return noopMeter{} }

// noopMeter satisfies every meter interface.
type noopMeter struct{}

func (noopMeter) Add(int64)                             {}
func (noopMeter) Set(int64)                             {}
func (noopMeter) Observe(int64)                         {}
func (noopMeter) AddWithLabel(int64, map[string]string) {}
