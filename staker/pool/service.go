// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/aggregation"
	"github.com/vechain/stakepool/staker/reverts"
	"github.com/vechain/stakepool/staker/stakes"
	"github.com/vechain/stakepool/thor"
)

// SignatureVerifier checks that a maker signed its binding to a pool.
type SignatureVerifier interface {
	VerifyMakerSignature(id stakes.PoolID, maker thor.Address, signature []byte) error
}

// Service allocates pool ids and manages operator and maker membership.
type Service struct {
	pools        map[stakes.PoolID]*entry
	makerPools   map[thor.Address]stakes.PoolID
	lastID       stakes.PoolID
	aggregations *aggregation.Service
	verifier     SignatureVerifier
}

func New(aggregations *aggregation.Service, verifier SignatureVerifier) *Service {
	return &Service{
		pools:        make(map[stakes.PoolID]*entry),
		makerPools:   make(map[thor.Address]stakes.PoolID),
		aggregations: aggregations,
		verifier:     verifier,
	}
}

// Create registers a pool and returns its id. Ids start at 1 and are never reused.
func (s *Service) Create(operator thor.Address, share fixedpoint.Fraction) (stakes.PoolID, error) {
	if err := share.ValidateUnit(); err != nil {
		return 0, err
	}
	id := s.NextID()
	if id == 0 {
		return 0, reverts.New(reverts.Arithmetic, "pool id overflows")
	}
	s.pools[id] = &entry{
		operator: operator,
		share:    share,
		makers:   make(map[thor.Address]struct{}),
	}
	s.lastID = id
	return id, nil
}

// NextID returns the id the next created pool receives.
func (s *Service) NextID() stakes.PoolID {
	return s.lastID + 1
}

func (s *Service) Exists(id stakes.PoolID) bool {
	_, ok := s.pools[id]
	return ok
}

// Get returns a copy of the pool, with its current delegated total.
func (s *Service) Get(id stakes.PoolID) (*Pool, error) {
	e, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &Pool{
		ID:             id,
		Operator:       e.operator,
		OperatorShare:  e.share,
		Makers:         e.sortedMakers(),
		TotalDelegated: s.aggregations.Delegated(id),
	}, nil
}

// All returns every pool in id order.
func (s *Service) All() []*Pool {
	pools := make([]*Pool, 0, len(s.pools))
	for id := stakes.PoolID(1); id <= s.lastID; id++ {
		if p, err := s.Get(id); err == nil {
			pools = append(pools, p)
		}
	}
	return pools
}

// AddMaker adds maker to the pool. Only the operator may do so, and the maker
// must have signed the binding. A maker belongs to at most one pool, joining a
// pool leaves the previous one.
func (s *Service) AddMaker(id stakes.PoolID, maker thor.Address, signature []byte, requester thor.Address) error {
	e, err := s.authorize(id, requester)
	if err != nil {
		return err
	}
	if err := s.verifier.VerifyMakerSignature(id, maker, signature); err != nil {
		return err
	}

	if prev, ok := s.makerPools[maker]; ok {
		if prev == id {
			return nil
		}
		delete(s.pools[prev].makers, maker)
	}
	e.makers[maker] = struct{}{}
	s.makerPools[maker] = id
	return nil
}

// RemoveMaker removes maker from the pool. It is a no-op if the maker is not a member.
func (s *Service) RemoveMaker(id stakes.PoolID, maker thor.Address, requester thor.Address) error {
	e, err := s.authorize(id, requester)
	if err != nil {
		return err
	}
	if _, ok := e.makers[maker]; !ok {
		return nil
	}
	delete(e.makers, maker)
	delete(s.makerPools, maker)
	return nil
}

// MakerPoolID returns the pool the maker belongs to.
func (s *Service) MakerPoolID(maker thor.Address) (stakes.PoolID, bool) {
	id, ok := s.makerPools[maker]
	return id, ok
}

// Makers returns the pool's makers in ascending address order.
func (s *Service) Makers(id stakes.PoolID) ([]thor.Address, error) {
	e, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return e.sortedMakers(), nil
}

// Restore replaces the registry content. Ids above the highest restored pool
// up to lastID stay allocated.
func (s *Service) Restore(pools []*Pool, lastID stakes.PoolID) error {
	var (
		entries    = make(map[stakes.PoolID]*entry, len(pools))
		makerPools = make(map[thor.Address]stakes.PoolID)
	)
	for _, p := range pools {
		if p.ID == 0 || p.ID > lastID {
			return reverts.Newf(reverts.InvalidInput, "pool id %d out of range [1, %d]", p.ID, lastID)
		}
		if _, dup := entries[p.ID]; dup {
			return reverts.Newf(reverts.InvalidInput, "duplicate pool id %d", p.ID)
		}
		if err := p.OperatorShare.ValidateUnit(); err != nil {
			return err
		}
		e := &entry{operator: p.Operator, share: p.OperatorShare, makers: make(map[thor.Address]struct{})}
		for _, m := range p.Makers {
			if other, ok := makerPools[m]; ok && other != p.ID {
				return reverts.Newf(reverts.InvalidInput, "maker %v belongs to pools %d and %d", m, other, p.ID)
			}
			e.makers[m] = struct{}{}
			makerPools[m] = p.ID
		}
		entries[p.ID] = e
	}

	s.pools = entries
	s.makerPools = makerPools
	s.lastID = lastID
	return nil
}

func (s *Service) get(id stakes.PoolID) (*entry, error) {
	e, ok := s.pools[id]
	if !ok {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", id)
	}
	return e, nil
}

func (s *Service) authorize(id stakes.PoolID, requester thor.Address) (*entry, error) {
	e, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if requester != e.operator {
		return nil, reverts.Newf(reverts.Unauthorized, "%v is not the operator of pool %d", requester, id)
	}
	return e, nil
}
