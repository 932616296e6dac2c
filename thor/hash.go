// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// Bytes32 holds a 256-bit digest: maker binding messages and snapshot hashes.
type Bytes32 [32]byte

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// Blake2b returns the blake2b-256 digest of the concatenated parts.
func Blake2b(parts ...[]byte) (sum Bytes32) {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for oversized keys
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	h.Sum(sum[:0])
	return
}
