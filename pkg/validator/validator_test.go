package validator

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

func testAddress(i int) string {
	return fmt.Sprintf("0x%040x", i)
}

func testValidators(t *testing.T, n int) []Validator {
	t.Helper()
	validators := make([]Validator, n)
	for i := range validators {
		kp, err := RandomKeypair(rand.Reader)
		require.NoError(t, err)
		v, err := New(testAddress(i), kp.PublicKey())
		require.NoError(t, err)
		validators[i] = *v
	}
	return validators
}

func TestKeypairPublicKey(t *testing.T) {
	kp, err := RandomKeypair(rand.Reader)
	require.NoError(t, err)

	// The accessor must be deterministic and never return the identity.
	pk := kp.PublicKey()
	assert.False(t, pk.IsIdentity())
	assert.True(t, pk.IsEqual(kp.PublicKey()))

	other, err := RandomKeypair(rand.Reader)
	require.NoError(t, err)
	assert.False(t, pk.IsEqual(other.PublicKey()))
}

func TestKeypairUnblind(t *testing.T) {
	kp, err := RandomKeypair(rand.Reader)
	require.NoError(t, err)

	// Unblind(g^{b⋅x}) == g^x.
	x, err := bls.RandomNonZeroScalar(rand.Reader)
	require.NoError(t, err)

	var gX bls.G1
	gX.ScalarMult(x, bls.G1Generator())

	// Compute g^{b⋅x} by pairing identities: blinded = (g^x)^b.
	// The secret is not reachable, so derive it via the public key relation:
	// e(Unblind(P), pk) == e(P, h) for any P.
	p := &gX
	lhs := bls.Pair(kp.Unblind(p), kp.PublicKey())
	rhs := bls.Pair(p, bls.G2Generator())
	assert.True(t, lhs.IsEqual(rhs))
}

func TestNewValidatorChecks(t *testing.T) {
	kp, err := RandomKeypair(rand.Reader)
	require.NoError(t, err)

	_, err = New("", kp.PublicKey())
	assert.Error(t, err)

	_, err = New(testAddress(1), nil)
	assert.Error(t, err)

	var identity bls.G2
	identity.SetIdentity()
	_, err = New(testAddress(1), &identity)
	assert.Error(t, err)
}

func TestCommitteeSortsByAddress(t *testing.T) {
	validators := testValidators(t, 4)

	// Feed the validators in reverse order; the committee must still come out
	// sorted by address.
	reversed := make([]Validator, len(validators))
	for i, v := range validators {
		reversed[len(validators)-1-i] = v
	}

	committee, err := NewCommittee(reversed)
	require.NoError(t, err)
	require.Equal(t, 4, committee.Len())

	addresses := committee.Addresses()
	for i := 1; i < len(addresses); i++ {
		assert.Less(t, addresses[i-1], addresses[i])
	}

	for i := 0; i < committee.Len(); i++ {
		idx, ok := committee.Index(committee.Validator(i).Address)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

// Share indices must not depend on the order the caller supplies validators.
func TestCommitteeOrderIsCanonical(t *testing.T) {
	validators := testValidators(t, 8)

	permuted := make([]Validator, len(validators))
	copy(permuted, validators)
	permuted[0], permuted[5] = permuted[5], permuted[0]
	permuted[2], permuted[7] = permuted[7], permuted[2]

	a, err := NewCommittee(validators)
	require.NoError(t, err)
	b, err := NewCommittee(permuted)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestCommitteeRejectsDuplicateAddress(t *testing.T) {
	validators := testValidators(t, 3)
	validators[2].Address = validators[0].Address

	_, err := NewCommittee(validators)
	assert.Error(t, err)
}

func TestCommitteeRejectsEmptyList(t *testing.T) {
	_, err := NewCommittee(nil)
	assert.Error(t, err)
}

func TestCommitteeUnknownAddress(t *testing.T) {
	committee, err := NewCommittee(testValidators(t, 2))
	require.NoError(t, err)

	_, ok := committee.Index("0xdead")
	assert.False(t, ok)
}
