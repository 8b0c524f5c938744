package pvss

import (
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/polynomial"
	"github.com/derekpierre/nucypher-ferveo/pkg/pool"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// AggregatedTranscript is the committee-wide combination of dealer
// transcripts: commitments, encrypted shares and proofs added pointwise.
// The sum commits to the joint polynomial f = Σᵢ fᵢ, whose constant term no
// single party knows, and the aggregated share for validator j decrypts to
// h^{f(ωⱼ)} under validator j's keypair alone.
//
// The committee and domain are carried so the object can re-verify itself
// against the Messages it claims to combine.
type AggregatedTranscript struct {
	commitment *polynomial.Commitment
	shares     []bls.G2
	proof      bls.G2

	committee *validator.Committee
	domain    *bls.Domain
}

// Aggregate combines the transcripts of the given messages pointwise. Any
// number of messages can be combined, including fewer than the committee
// during collection. Aggregation performs structural checks only - unknown
// dealers, repeat dealers, mismatched sizes - and no cryptographic
// verification; call Verify for that.
func Aggregate(committee *validator.Committee, domain *bls.Domain, messages []Message) (*AggregatedTranscript, error) {
	if len(messages) == 0 {
		return nil, errors.New("pvss.Aggregate: no messages")
	}

	seen := make(map[int]bool, len(messages))
	commitments := make([]*polynomial.Commitment, len(messages))
	for i, m := range messages {
		idx, ok := committee.Index(m.Sender.Address)
		if !ok {
			return nil, fmt.Errorf("pvss.Aggregate: unknown dealer %q", m.Sender.Address)
		}
		if seen[idx] {
			return nil, fmt.Errorf("pvss.Aggregate: repeat dealer %q", m.Sender.Address)
		}
		seen[idx] = true

		if m.Transcript == nil {
			return nil, fmt.Errorf("pvss.Aggregate: dealer %q sent no transcript", m.Sender.Address)
		}
		if m.Transcript.NumShares() != committee.Len() {
			return nil, fmt.Errorf("pvss.Aggregate: dealer %q dealt %d shares for a committee of %d",
				m.Sender.Address, m.Transcript.NumShares(), committee.Len())
		}
		commitments[i] = m.Transcript.commitment
	}

	summed, err := polynomial.Sum(commitments)
	if err != nil {
		return nil, fmt.Errorf("pvss.Aggregate: %w", err)
	}

	a := &AggregatedTranscript{
		commitment: summed,
		shares:     make([]bls.G2, committee.Len()),
		committee:  committee,
		domain:     domain,
	}
	for j := range a.shares {
		a.shares[j].SetIdentity()
	}
	a.proof.SetIdentity()

	for _, m := range messages {
		for j := range a.shares {
			var sum bls.G2
			sum.Add(&a.shares[j], &m.Transcript.shares[j])
			a.shares[j] = sum
		}
		var proofSum bls.G2
		proofSum.Add(&a.proof, &m.Transcript.proof)
		a.proof = proofSum
	}

	return a, nil
}

// Verify checks this aggregate against the messages that supposedly produced
// it:
//
//  1. the aggregate recomputed from the messages matches this object, which
//     detects tampering or substitution of the aggregate;
//  2. the number of distinct contributing dealers equals expectedSharesNum;
//  3. every individual transcript passes its optimistic and full proof
//     checks.
//
// A false return is a hard stop for callers: no decryption share may be
// produced against an aggregate that failed verification.
func (a *AggregatedTranscript) Verify(expectedSharesNum int, messages []Message) bool {
	// Aggregate rejects repeat dealers, so each message is one distinct
	// contributor.
	recomputed, err := Aggregate(a.committee, a.domain, messages)
	if err != nil {
		return false
	}
	if len(messages) != expectedSharesNum {
		return false
	}
	if !a.Equal(recomputed) {
		return false
	}

	p := pool.NewPool(0)
	defer p.TearDown()

	for _, m := range messages {
		if !m.Transcript.VerifyOptimistic() {
			return false
		}
		if !m.Transcript.VerifyFull(a.committee, a.domain, p) {
			return false
		}
	}
	return true
}

// Equal reports whether both aggregates combine identical commitments,
// shares and proofs.
func (a *AggregatedTranscript) Equal(other *AggregatedTranscript) bool {
	if len(a.shares) != len(other.shares) {
		return false
	}
	if !a.commitment.Equal(other.commitment) {
		return false
	}
	for j := range a.shares {
		if !a.shares[j].IsEqual(&other.shares[j]) {
			return false
		}
	}
	return a.proof.IsEqual(&other.proof)
}

// GroupKey returns the group public key implied by the aggregated
// commitments: the committed joint constant term g^{f(0)}.
func (a *AggregatedTranscript) GroupKey() *bls.G1 {
	return a.commitment.Constant()
}

// ShareEncryption returns a copy of the aggregated encrypted share for share
// index i, the value validator i decrypts with its own keypair when producing
// a decryption share.
func (a *AggregatedTranscript) ShareEncryption(i int) (*bls.G2, error) {
	if i < 0 || i >= len(a.shares) {
		return nil, fmt.Errorf("pvss.ShareEncryption: share index %d outside committee of %d", i, len(a.shares))
	}
	s := a.shares[i]
	return &s, nil
}

// Commitment returns a copy of the aggregated polynomial commitment.
func (a *AggregatedTranscript) Commitment() *polynomial.Commitment {
	return a.commitment.Copy()
}
