// Package pvss implements the publicly verifiable secret sharing layer of the
// DKG: individual dealer transcripts and their homomorphic aggregation.
//
// A transcript carries no secrets. Each share is encrypted to exactly one
// validator's public key, and the committed polynomial together with the
// dealer's proof lets anyone check that commitments and encryptions are
// consistent without decrypting anything.
package pvss

import (
	"fmt"
	"io"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/polynomial"
	"github.com/derekpierre/nucypher-ferveo/pkg/pool"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// Transcript is one dealer's contribution to a ritual:
//
//   - a committed polynomial Fᵢ = g^{aᵢ} of degree t−1,
//   - one encrypted share Ŷⱼ = ekⱼ^{f(ωⱼ)} per validator, decryptable only
//     with validator j's keypair,
//   - a proof σ = h^{f(0)} tying the encrypted shares to the commitment.
//
// Transcripts are immutable once produced.
type Transcript struct {
	commitment *polynomial.Commitment
	shares     []bls.G2
	proof      bls.G2
}

// NewTranscript deals a fresh secret to the committee: it samples a random
// polynomial of degree threshold−1, commits to its coefficients, and encrypts
// the evaluation at validator j's domain point under validator j's public key.
func NewTranscript(committee *validator.Committee, domain *bls.Domain, threshold int, rand io.Reader) (*Transcript, error) {
	if domain.Size() != committee.Len() {
		return nil, fmt.Errorf("pvss.NewTranscript: domain size %d does not match committee size %d", domain.Size(), committee.Len())
	}
	if threshold < 1 || threshold > committee.Len() {
		return nil, fmt.Errorf("pvss.NewTranscript: threshold %d outside [1, %d]", threshold, committee.Len())
	}

	secret, err := bls.RandomNonZeroScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("pvss.NewTranscript: %w", err)
	}
	f, err := polynomial.New(threshold-1, secret, rand)
	if err != nil {
		return nil, fmt.Errorf("pvss.NewTranscript: %w", err)
	}

	t := &Transcript{
		commitment: polynomial.NewCommitment(f),
		shares:     make([]bls.G2, committee.Len()),
	}
	for j := 0; j < committee.Len(); j++ {
		// Ŷⱼ = ekⱼ^{f(ωⱼ)}
		t.shares[j].ScalarMult(f.Evaluate(domain.Point(j)), committee.PublicKey(j))
	}
	// σ = h^{f(0)}
	t.proof.ScalarMult(secret, bls.G2Generator())

	return t, nil
}

// Commitment returns a copy of the committed polynomial.
func (t *Transcript) Commitment() *polynomial.Commitment {
	return t.commitment.Copy()
}

// NumShares returns the number of encrypted shares.
func (t *Transcript) NumShares() int { return len(t.shares) }

// Share returns a copy of the encrypted share for share index i.
// Panics if i is out of range.
func (t *Transcript) Share(i int) *bls.G2 {
	s := t.shares[i]
	return &s
}

// Proof returns a copy of the dealer's proof σ.
func (t *Transcript) Proof() *bls.G2 {
	p := t.proof
	return &p
}

// VerifyOptimistic runs the cheap consistency check e(F₀, h) == e(g, σ).
// It catches a proof that does not match the committed secret without paying
// for the per-share pairings of VerifyFull.
func (t *Transcript) VerifyOptimistic() bool {
	lhs := bls.Pair(t.commitment.Constant(), bls.G2Generator())
	rhs := bls.Pair(bls.G1Generator(), &t.proof)
	return lhs.IsEqual(rhs)
}

// VerifyFull checks every encrypted share against the committed polynomial:
// for each validator j, e(g^{f(ωⱼ)}, ekⱼ) == e(g, Ŷⱼ), where g^{f(ωⱼ)} is
// evaluated from the commitment. A transcript that passes encrypts, for every
// validator, exactly the share the commitment promises.
//
// The per-share checks run on p, which may be nil.
func (t *Transcript) VerifyFull(committee *validator.Committee, domain *bls.Domain, p *pool.Pool) bool {
	if len(t.shares) != committee.Len() || domain.Size() != committee.Len() {
		return false
	}

	g := bls.G1Generator()
	results := p.Parallelize(committee.Len(), func(j int) interface{} {
		evaluated := t.commitment.Evaluate(domain.Point(j))
		lhs := bls.Pair(evaluated, committee.PublicKey(j))
		rhs := bls.Pair(g, &t.shares[j])
		return lhs.IsEqual(rhs)
	})
	for _, ok := range results {
		if !ok.(bool) {
			return false
		}
	}
	return true
}
