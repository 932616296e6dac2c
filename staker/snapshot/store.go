// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/staker/stakes"
)

var logger = log.WithContext("pkg", "snapshot")

const bucket = kv.Bucket("snapshot/")

// ErrNotFound is returned when no snapshot is stored for the epoch.
var ErrNotFound = errors.New("snapshot not found")

// Store persists states keyed by epoch.
type Store struct {
	db kv.Store
}

func NewStore(db kv.Store) *Store {
	return &Store{db: bucket.NewStore(db)}
}

func epochKey(epoch stakes.Epoch) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(epoch))
	return k[:]
}

// Save writes the state under its epoch, replacing any previous one.
func (s *Store) Save(state *State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	if err := s.db.Put(epochKey(state.Epoch()), data); err != nil {
		return errors.Wrapf(err, "save snapshot %d", state.Epoch())
	}
	logger.Debug("saved snapshot", "epoch", state.Epoch(), "size", len(data))
	return nil
}

// Load reads the state saved for the epoch.
func (s *Store) Load(epoch stakes.Epoch) (*State, error) {
	data, err := s.db.Get(epochKey(epoch))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "epoch %d", epoch)
		}
		return nil, errors.Wrapf(err, "load snapshot %d", epoch)
	}
	return Decode(data)
}

// Latest reads the state with the highest epoch.
func (s *Store) Latest() (*State, error) {
	iter := s.db.Iterate(kv.Range{})
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, errors.Wrap(err, "latest snapshot")
		}
		return nil, ErrNotFound
	}
	return Decode(iter.Value())
}

// Delete removes the state saved for the epoch.
func (s *Store) Delete(epoch stakes.Epoch) error {
	return s.db.Delete(epochKey(epoch))
}
