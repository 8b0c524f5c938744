package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

func TestNewPolynomial(t *testing.T) {
	secret, err := bls.RandomScalar(rand.Reader)
	require.NoError(t, err)

	f, err := New(5, secret, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, 5, f.Degree())
	assert.True(t, bls.ScalarsEqual(secret, f.Constant()))

	// nil constant means zero.
	g, err := New(2, nil, rand.Reader)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Constant().IsZero())

	_, err = New(-1, secret, rand.Reader)
	assert.Error(t, err)
}

func TestEvaluateConstantPolynomial(t *testing.T) {
	secret, err := bls.RandomScalar(rand.Reader)
	require.NoError(t, err)

	f, err := New(0, secret, rand.Reader)
	require.NoError(t, err)

	x, err := bls.RandomNonZeroScalar(rand.Reader)
	require.NoError(t, err)
	assert.True(t, bls.ScalarsEqual(secret, f.Evaluate(x)))
}

func TestEvaluateMatchesDirectComputation(t *testing.T) {
	// f(X) = 3 + 2X + X², f(2) = 11.
	var a0, a1, a2, x, want bls.Scalar
	a0.SetUint64(3)
	a1.SetUint64(2)
	a2.SetUint64(1)
	x.SetUint64(2)
	want.SetUint64(11)

	f := &Polynomial{coefficients: []bls.Scalar{a0, a1, a2}}
	assert.True(t, bls.ScalarsEqual(&want, f.Evaluate(&x)))
}

func TestEvaluateAtZeroPanics(t *testing.T) {
	f, err := New(2, nil, rand.Reader)
	require.NoError(t, err)

	var zero bls.Scalar
	assert.Panics(t, func() { f.Evaluate(&zero) })
}

func TestCommitmentEvaluate(t *testing.T) {
	secret, err := bls.RandomScalar(rand.Reader)
	require.NoError(t, err)
	f, err := New(3, secret, rand.Reader)
	require.NoError(t, err)

	commitment := NewCommitment(f)
	require.Equal(t, f.Degree(), commitment.Degree())

	// g^{f(x)} computed from the commitment must match the direct evaluation.
	x, err := bls.RandomNonZeroScalar(rand.Reader)
	require.NoError(t, err)

	var want bls.G1
	want.ScalarMult(f.Evaluate(x), bls.G1Generator())
	assert.True(t, want.IsEqual(commitment.Evaluate(x)))

	var wantConstant bls.G1
	wantConstant.ScalarMult(secret, bls.G1Generator())
	assert.True(t, wantConstant.IsEqual(commitment.Constant()))
}

func TestCommitmentSumIsHomomorphic(t *testing.T) {
	f1, err := New(2, nil, rand.Reader)
	require.NoError(t, err)
	f2, err := New(2, nil, rand.Reader)
	require.NoError(t, err)

	summed, err := Sum([]*Commitment{NewCommitment(f1), NewCommitment(f2)})
	require.NoError(t, err)

	x, err := bls.RandomNonZeroScalar(rand.Reader)
	require.NoError(t, err)

	// g^{f1(x)+f2(x)} == Sum(commitments).Evaluate(x)
	var sumEval bls.Scalar
	sumEval.Add(f1.Evaluate(x), f2.Evaluate(x))
	var want bls.G1
	want.ScalarMult(&sumEval, bls.G1Generator())
	assert.True(t, want.IsEqual(summed.Evaluate(x)))
}

func TestCommitmentSumRejectsMismatchedDegrees(t *testing.T) {
	f1, err := New(2, nil, rand.Reader)
	require.NoError(t, err)
	f2, err := New(3, nil, rand.Reader)
	require.NoError(t, err)

	_, err = Sum([]*Commitment{NewCommitment(f1), NewCommitment(f2)})
	assert.Error(t, err)
}

func TestCommitmentEqual(t *testing.T) {
	f, err := New(2, nil, rand.Reader)
	require.NoError(t, err)

	c := NewCommitment(f)
	assert.True(t, c.Equal(c.Copy()))

	other, err := New(2, nil, rand.Reader)
	require.NoError(t, err)
	assert.False(t, c.Equal(NewCommitment(other)))
}
