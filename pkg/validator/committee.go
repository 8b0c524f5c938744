package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Committee is the immutable validator set of one ritual, sorted by address.
//
// A validator's position in the sorted order is its share index: the exponent
// of the evaluation point used for all secret-sharing arithmetic. Because the
// committee sorts exactly once at construction, every participant that builds
// a Committee from the same validator list - in any order - agrees on every
// share index. Sessions never re-sort.
type Committee struct {
	validators []Validator
	indices    map[string]int
}

// NewCommittee sorts the given validators by address and freezes the result.
// The input slice is not modified. Fails on an empty list, a duplicate
// address, or a missing public key.
func NewCommittee(validators []Validator) (*Committee, error) {
	if len(validators) == 0 {
		return nil, errors.New("validator.NewCommittee: empty validator list")
	}

	sorted := make([]Validator, len(validators))
	copy(sorted, validators)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	indices := make(map[string]int, len(sorted))
	for i, v := range sorted {
		if v.PublicKey == nil || v.PublicKey.IsIdentity() {
			return nil, fmt.Errorf("validator.NewCommittee: validator %q has no public key", v.Address)
		}
		if _, ok := indices[v.Address]; ok {
			return nil, fmt.Errorf("validator.NewCommittee: duplicate address %q", v.Address)
		}
		indices[v.Address] = i

		pk := *v.PublicKey
		sorted[i].PublicKey = &pk
	}

	return &Committee{validators: sorted, indices: indices}, nil
}

// Len returns the committee size.
func (c *Committee) Len() int { return len(c.validators) }

// Validator returns a copy of the validator at share index i.
// Panics if i is out of range.
func (c *Committee) Validator(i int) Validator {
	v := c.validators[i]
	pk := *v.PublicKey
	v.PublicKey = &pk
	return v
}

// Index returns the share index of the validator with the given address.
func (c *Committee) Index(address string) (int, bool) {
	i, ok := c.indices[address]
	return i, ok
}

// PublicKey returns a copy of the public key at share index i.
func (c *Committee) PublicKey(i int) *bls.G2 {
	pk := *c.validators[i].PublicKey
	return &pk
}

// Addresses returns the committee addresses in share-index order.
func (c *Committee) Addresses() []string {
	out := make([]string, len(c.validators))
	for i, v := range c.validators {
		out[i] = v.Address
	}
	return out
}

// Equal reports whether both committees contain the same validators in the
// same order with the same keys.
func (c *Committee) Equal(other *Committee) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := range c.validators {
		if !c.validators[i].Equal(&other.validators[i]) {
			return false
		}
	}
	return true
}
