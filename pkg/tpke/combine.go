package tpke

import (
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/polynomial"
)

// SharedSecret is the encapsulated value recovered by combining decryption
// shares. When the contributing set satisfies the variant's quorum it equals
// the secret the encryptor derived the symmetric key from.
type SharedSecret struct {
	value bls.GT
}

// CombineDecryptionSharesSimple folds simple shares into a shared secret by
// interpolating at zero over the domain points the shares carry. It accepts
// any set of distinct shares; whether the set was large enough only shows up
// when the result is used to decrypt.
func CombineDecryptionSharesSimple(shares []*DecryptionShareSimple) (*SharedSecret, error) {
	if len(shares) == 0 {
		return nil, errors.New("tpke.CombineDecryptionSharesSimple: no shares")
	}

	points := make([]bls.Scalar, len(shares))
	seen := make(map[int]struct{}, len(shares))
	for i, share := range shares {
		if _, ok := seen[share.index]; ok {
			return nil, fmt.Errorf("tpke.CombineDecryptionSharesSimple: duplicate share for index %d", share.index)
		}
		seen[share.index] = struct{}{}
		points[i] = share.domainPoint
	}

	lagrange, err := polynomial.LagrangeAtZero(points)
	if err != nil {
		return nil, fmt.Errorf("tpke.CombineDecryptionSharesSimple: %w", err)
	}

	secret := &SharedSecret{}
	secret.value.SetIdentity()
	for i, share := range shares {
		var term, acc bls.GT
		term.Exp(&share.value, &lagrange[i])
		acc.Mul(&secret.value, &term)
		secret.value = acc
	}
	return secret, nil
}

// CombineDecryptionSharesPrecomputed folds precomputed shares into a shared
// secret. The Lagrange coefficients were fixed when the shares were made, so
// this is a plain product; a correct result needs every committee member's
// share.
func CombineDecryptionSharesPrecomputed(shares []*DecryptionSharePrecomputed) (*SharedSecret, error) {
	if len(shares) == 0 {
		return nil, errors.New("tpke.CombineDecryptionSharesPrecomputed: no shares")
	}

	seen := make(map[int]struct{}, len(shares))
	secret := &SharedSecret{}
	secret.value.SetIdentity()
	for _, share := range shares {
		if _, ok := seen[share.index]; ok {
			return nil, fmt.Errorf("tpke.CombineDecryptionSharesPrecomputed: duplicate share for index %d", share.index)
		}
		seen[share.index] = struct{}{}
		var acc bls.GT
		acc.Mul(&secret.value, &share.value)
		secret.value = acc
	}
	return secret, nil
}

// Equal reports whether two shared secrets encapsulate the same value.
func (s *SharedSecret) Equal(other *SharedSecret) bool {
	return s.value.IsEqual(&other.value)
}
