// Package bls is the narrow arithmetic layer the protocol is built on: the
// scalar field, the two source groups and the target group of the BLS12-381
// pairing, and the radix-2 evaluation domain used for secret sharing.
//
// Everything above this package manipulates shares, commitments and proofs
// purely through these types, so the representation detail stays in one place.
package bls

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/ecc/bls12381"
)

type (
	// Scalar is an element of the scalar field ℤᵣ.
	Scalar = bls12381.Scalar
	// G1 is a point of the first pairing group. Polynomial commitments and
	// KEM commitments live here.
	G1 = bls12381.G1
	// G2 is a point of the second pairing group. Validator public keys,
	// encrypted shares and authentication tags live here.
	G2 = bls12381.G2
	// GT is an element of the target group. Decryption shares and shared
	// secrets live here.
	GT = bls12381.Gt
)

// Fixed widths of the canonical encodings, in bytes. Wire formats depend on
// these being stable across validators.
const (
	ScalarSize = 32
	// G1Size is the size of a compressed G1 point.
	G1Size = 48
	// G2Size is the size of a compressed G2 point.
	G2Size = 96
	// GTSize is the size of a target group element.
	GTSize = 576
)

const maxIterations = 255

// G1Generator returns a fresh copy of the conventional G1 generator g.
func G1Generator() *G1 { return bls12381.G1Generator() }

// G2Generator returns a fresh copy of the conventional G2 generator h.
func G2Generator() *G2 { return bls12381.G2Generator() }

// Pair computes the pairing e(p, q).
func Pair(p *G1, q *G2) *GT { return bls12381.Pair(p, q) }

// Order returns the order r of the three pairing groups as big-endian bytes.
func Order() []byte { return bls12381.Order() }

// RandomScalar samples a uniform field element from rand.
func RandomScalar(rand io.Reader) (*Scalar, error) {
	var s Scalar
	if err := s.Random(rand); err != nil {
		return nil, fmt.Errorf("bls.RandomScalar: %w", err)
	}
	return &s, nil
}

// RandomNonZeroScalar samples a uniform non-zero field element from rand.
// Secrets and blinding factors must be invertible, so zero is rejected.
func RandomNonZeroScalar(rand io.Reader) (*Scalar, error) {
	for i := 0; i < maxIterations; i++ {
		s, err := RandomScalar(rand)
		if err != nil {
			return nil, err
		}
		if s.IsZero() == 0 {
			return s, nil
		}
	}
	return nil, fmt.Errorf("bls.RandomNonZeroScalar: failed after %d iterations", maxIterations)
}

// HashToG2 maps msg to a point of G2 using the given domain separation tag.
func HashToG2(msg, dst []byte) *G2 {
	var p G2
	p.Hash(msg, dst)
	return &p
}

// ScalarsEqual compares two field elements. The underlying field type reports
// equality as an int for constant-time use; this wraps it as a bool.
func ScalarsEqual(a, b *Scalar) bool { return a.IsEqual(b) == 1 }

// ScalarFromBytes decodes a big-endian 32-byte field element. The encoding is
// rejected if it is not canonical.
func ScalarFromBytes(data []byte) (*Scalar, error) {
	var s Scalar
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("bls.ScalarFromBytes: %w", err)
	}
	return &s, nil
}

// ScalarBytes encodes a field element as big-endian 32 bytes.
func ScalarBytes(s *Scalar) ([]byte, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("bls.ScalarBytes: %w", err)
	}
	return data, nil
}

// G1FromBytes decodes a compressed G1 point, checking subgroup membership.
func G1FromBytes(data []byte) (*G1, error) {
	var p G1
	if err := p.SetBytes(data); err != nil {
		return nil, fmt.Errorf("bls.G1FromBytes: %w", err)
	}
	return &p, nil
}

// G2FromBytes decodes a compressed G2 point, checking subgroup membership.
func G2FromBytes(data []byte) (*G2, error) {
	var p G2
	if err := p.SetBytes(data); err != nil {
		return nil, fmt.Errorf("bls.G2FromBytes: %w", err)
	}
	return &p, nil
}

// GTFromBytes decodes a target group element.
func GTFromBytes(data []byte) (*GT, error) {
	var e GT
	if err := e.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("bls.GTFromBytes: %w", err)
	}
	return &e, nil
}

// GTBytes encodes a target group element.
func GTBytes(e *GT) ([]byte, error) {
	data, err := e.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("bls.GTBytes: %w", err)
	}
	return data, nil
}
