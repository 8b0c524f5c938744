package tpke

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

type ciphertextMarshal struct {
	Commitment []byte
	Dem        []byte
	AuthTag    []byte
}

// MarshalBinary encodes the ciphertext as CBOR.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&ciphertextMarshal{
		Commitment: c.commitment.BytesCompressed(),
		Dem:        c.dem,
		AuthTag:    c.authTag.BytesCompressed(),
	})
}

// UnmarshalBinary decodes a CBOR ciphertext, rejecting group elements that
// are not valid points of their subgroup.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	var cm ciphertextMarshal
	if err := cbor.Unmarshal(data, &cm); err != nil {
		return fmt.Errorf("tpke.Ciphertext: %w", err)
	}

	commitment, err := bls.G1FromBytes(cm.Commitment)
	if err != nil {
		return fmt.Errorf("tpke.Ciphertext: commitment: %w", err)
	}
	authTag, err := bls.G2FromBytes(cm.AuthTag)
	if err != nil {
		return fmt.Errorf("tpke.Ciphertext: auth tag: %w", err)
	}

	c.commitment = *commitment
	c.dem = cm.Dem
	c.authTag = *authTag
	return nil
}

type shareSimpleMarshal struct {
	Index       int
	DomainPoint []byte
	Checksum    []byte
	Value       []byte
}

// MarshalBinary encodes the share as CBOR.
func (d *DecryptionShareSimple) MarshalBinary() ([]byte, error) {
	domainPoint, err := bls.ScalarBytes(&d.domainPoint)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptionShareSimple: %w", err)
	}
	value, err := bls.GTBytes(&d.value)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptionShareSimple: %w", err)
	}
	return cbor.Marshal(&shareSimpleMarshal{
		Index:       d.index,
		DomainPoint: domainPoint,
		Checksum:    d.checksum.BytesCompressed(),
		Value:       value,
	})
}

// UnmarshalBinary decodes a CBOR simple share.
func (d *DecryptionShareSimple) UnmarshalBinary(data []byte) error {
	var sm shareSimpleMarshal
	if err := cbor.Unmarshal(data, &sm); err != nil {
		return fmt.Errorf("tpke.DecryptionShareSimple: %w", err)
	}
	if sm.Index < 0 {
		return fmt.Errorf("tpke.DecryptionShareSimple: negative index %d", sm.Index)
	}

	domainPoint, err := bls.ScalarFromBytes(sm.DomainPoint)
	if err != nil {
		return fmt.Errorf("tpke.DecryptionShareSimple: domain point: %w", err)
	}
	checksum, err := bls.G1FromBytes(sm.Checksum)
	if err != nil {
		return fmt.Errorf("tpke.DecryptionShareSimple: checksum: %w", err)
	}
	value, err := bls.GTFromBytes(sm.Value)
	if err != nil {
		return fmt.Errorf("tpke.DecryptionShareSimple: value: %w", err)
	}

	d.index = sm.Index
	d.domainPoint = *domainPoint
	d.checksum = *checksum
	d.value = *value
	return nil
}

type sharePrecomputedMarshal struct {
	Index int
	Value []byte
}

// MarshalBinary encodes the share as CBOR.
func (d *DecryptionSharePrecomputed) MarshalBinary() ([]byte, error) {
	value, err := bls.GTBytes(&d.value)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptionSharePrecomputed: %w", err)
	}
	return cbor.Marshal(&sharePrecomputedMarshal{Index: d.index, Value: value})
}

// UnmarshalBinary decodes a CBOR precomputed share.
func (d *DecryptionSharePrecomputed) UnmarshalBinary(data []byte) error {
	var sm sharePrecomputedMarshal
	if err := cbor.Unmarshal(data, &sm); err != nil {
		return fmt.Errorf("tpke.DecryptionSharePrecomputed: %w", err)
	}
	if sm.Index < 0 {
		return fmt.Errorf("tpke.DecryptionSharePrecomputed: negative index %d", sm.Index)
	}

	value, err := bls.GTFromBytes(sm.Value)
	if err != nil {
		return fmt.Errorf("tpke.DecryptionSharePrecomputed: value: %w", err)
	}

	d.index = sm.Index
	d.value = *value
	return nil
}

// MarshalBinary encodes the shared secret as the fixed-width encoding of its
// target group element.
func (s *SharedSecret) MarshalBinary() ([]byte, error) {
	return bls.GTBytes(&s.value)
}

// UnmarshalBinary decodes a shared secret.
func (s *SharedSecret) UnmarshalBinary(data []byte) error {
	value, err := bls.GTFromBytes(data)
	if err != nil {
		return fmt.Errorf("tpke.SharedSecret: %w", err)
	}
	s.value = *value
	return nil
}
