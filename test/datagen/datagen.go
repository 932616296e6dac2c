// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b thor.Bytes32) {
	rand.Read(b[:])
	return
}

// RandAmount returns an amount in [1, limit].
func RandAmount(limit uint64) *uint256.Int {
	return uint256.NewInt(mathrand.Uint64N(limit) + 1) //#nosec G404
}
