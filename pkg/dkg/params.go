// Package dkg orchestrates one validator's local view of a ritual: transcript
// generation, aggregation of collected messages, and derivation of the group
// public key.
package dkg

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Params are the ritual-wide parameters fixed before any session starts.
type Params struct {
	// Tau identifies the ritual and scopes all domain separation to it.
	Tau uint32
	// SharesNum is the committee size n. It must be a power of two: share
	// evaluation points are the n-th roots of unity.
	SharesNum uint32
	// SecurityThreshold is the minimum number of contributing shares t
	// required to recover the secret, 1 ≤ t ≤ n.
	SecurityThreshold uint32
}

// Validate rejects parameter combinations the protocol cannot run with.
// Bad inputs fail here, explicitly, rather than producing silently wrong
// shares later.
func (p Params) Validate() error {
	if p.SharesNum == 0 || p.SharesNum&(p.SharesNum-1) != 0 {
		return fmt.Errorf("dkg.Params: shares number must be a power of two, got %d", p.SharesNum)
	}
	if p.SecurityThreshold < 1 || p.SecurityThreshold > p.SharesNum {
		return fmt.Errorf("dkg.Params: security threshold %d outside [1, %d]", p.SecurityThreshold, p.SharesNum)
	}
	return nil
}

// PublicParams are the ritual constants a party needs to validate ciphertexts
// and recovered shared secrets outside of any session: the two group
// generators and the group public key.
type PublicParams struct {
	G        bls.G1
	H        bls.G2
	GroupKey bls.G1
}

type publicParamsMarshal struct {
	G        []byte
	H        []byte
	GroupKey []byte
}

// MarshalBinary encodes the public params as CBOR.
func (pp *PublicParams) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicParamsMarshal{
		G:        pp.G.BytesCompressed(),
		H:        pp.H.BytesCompressed(),
		GroupKey: pp.GroupKey.BytesCompressed(),
	})
}

// UnmarshalBinary decodes CBOR public params, checking subgroup membership.
func (pp *PublicParams) UnmarshalBinary(data []byte) error {
	var pm publicParamsMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("dkg.PublicParams: %w", err)
	}

	g, err := bls.G1FromBytes(pm.G)
	if err != nil {
		return fmt.Errorf("dkg.PublicParams: g: %w", err)
	}
	h, err := bls.G2FromBytes(pm.H)
	if err != nil {
		return fmt.Errorf("dkg.PublicParams: h: %w", err)
	}
	groupKey, err := bls.G1FromBytes(pm.GroupKey)
	if err != nil {
		return fmt.Errorf("dkg.PublicParams: group key: %w", err)
	}

	pp.G = *g
	pp.H = *h
	pp.GroupKey = *groupKey
	return nil
}
