// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dsa

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

var makerBindingPrefix = []byte("stakepool:maker-binding")

// Signer extracts signer.
func Signer(msgHash thor.Bytes32, sig []byte) (thor.Address, error) {
	pub, err := crypto.SigToPub(msgHash[:], sig)
	if err != nil {
		return thor.Address{}, err
	}
	addr := crypto.PubkeyToAddress(*pub)
	return thor.Address(addr), nil
}

// Sign sign a signable message.
func Sign(msgHash thor.Bytes32, privateKey []byte) ([]byte, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, err
	}

	return crypto.Sign(msgHash[:], priv)
}

// MakerBindingHash is the message a maker signs to join a pool.
func MakerBindingHash(id stakes.PoolID, maker thor.Address) thor.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return thor.Blake2b(makerBindingPrefix, b[:], maker.Bytes())
}

// SignMakerBinding signs the binding of the key's address to the pool.
func SignMakerBinding(id stakes.PoolID, privateKey []byte) (thor.Address, []byte, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return thor.Address{}, nil, err
	}
	maker := thor.Address(crypto.PubkeyToAddress(priv.PublicKey))
	sig, err := Sign(MakerBindingHash(id, maker), privateKey)
	if err != nil {
		return thor.Address{}, nil, err
	}
	return maker, sig, nil
}

// Verifier checks secp256k1 maker binding signatures.
type Verifier struct{}

// VerifyMakerSignature fails unless sig is the maker's signature of MakerBindingHash.
func (Verifier) VerifyMakerSignature(id stakes.PoolID, maker thor.Address, sig []byte) error {
	signer, err := Signer(MakerBindingHash(id, maker), sig)
	if err != nil {
		return reverts.Newf(reverts.InvalidSignature, "recover maker signature: %v", err)
	}
	if signer != maker {
		return reverts.Newf(reverts.InvalidSignature, "binding signed by %v, not maker %v", signer, maker)
	}
	return nil
}
