package pvss

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/polynomial"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// Group elements travel as their fixed-width compressed encodings so the wire
// format is identical on every validator.
type transcriptMarshal struct {
	Coefficients [][]byte
	Shares       [][]byte
	Proof        []byte
}

func marshalShares(shares []bls.G2) [][]byte {
	out := make([][]byte, len(shares))
	for i := range shares {
		out[i] = shares[i].BytesCompressed()
	}
	return out
}

func unmarshalShares(data [][]byte) ([]bls.G2, error) {
	shares := make([]bls.G2, len(data))
	for i := range data {
		s, err := bls.G2FromBytes(data[i])
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		shares[i] = *s
	}
	return shares, nil
}

func marshalCommitment(c *polynomial.Commitment) [][]byte {
	coefficients := c.Coefficients()
	out := make([][]byte, len(coefficients))
	for i := range coefficients {
		out[i] = coefficients[i].BytesCompressed()
	}
	return out
}

func unmarshalCommitment(data [][]byte) (*polynomial.Commitment, error) {
	points := make([]bls.G1, len(data))
	for i := range data {
		p, err := bls.G1FromBytes(data[i])
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}
		points[i] = *p
	}
	return polynomial.CommitmentFromCoefficients(points)
}

// MarshalBinary encodes the transcript as CBOR.
func (t *Transcript) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&transcriptMarshal{
		Coefficients: marshalCommitment(t.commitment),
		Shares:       marshalShares(t.shares),
		Proof:        t.proof.BytesCompressed(),
	})
}

// UnmarshalBinary decodes a CBOR transcript, rejecting any element that is
// not a valid point of its subgroup.
func (t *Transcript) UnmarshalBinary(data []byte) error {
	var tm transcriptMarshal
	if err := cbor.Unmarshal(data, &tm); err != nil {
		return fmt.Errorf("pvss.Transcript: %w", err)
	}

	commitment, err := unmarshalCommitment(tm.Coefficients)
	if err != nil {
		return fmt.Errorf("pvss.Transcript: %w", err)
	}
	shares, err := unmarshalShares(tm.Shares)
	if err != nil {
		return fmt.Errorf("pvss.Transcript: %w", err)
	}
	proof, err := bls.G2FromBytes(tm.Proof)
	if err != nil {
		return fmt.Errorf("pvss.Transcript: proof: %w", err)
	}

	t.commitment = commitment
	t.shares = shares
	t.proof = *proof
	return nil
}

// EmptyAggregated creates an AggregatedTranscript bound to a committee and
// domain, ready for unmarshalling. The ritual context is not part of the wire
// format, so it has to be supplied before decoding, the same way a session
// supplies it when aggregating.
func EmptyAggregated(committee *validator.Committee, domain *bls.Domain) *AggregatedTranscript {
	return &AggregatedTranscript{committee: committee, domain: domain}
}

// MarshalBinary encodes the aggregate as CBOR.
func (a *AggregatedTranscript) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&transcriptMarshal{
		Coefficients: marshalCommitment(a.commitment),
		Shares:       marshalShares(a.shares),
		Proof:        a.proof.BytesCompressed(),
	})
}

// UnmarshalBinary decodes a CBOR aggregate into a receiver prepared with
// EmptyAggregated. The share count must match the bound committee.
func (a *AggregatedTranscript) UnmarshalBinary(data []byte) error {
	if a.committee == nil || a.domain == nil {
		return fmt.Errorf("pvss.AggregatedTranscript: unmarshalling requires a receiver from EmptyAggregated")
	}

	var tm transcriptMarshal
	if err := cbor.Unmarshal(data, &tm); err != nil {
		return fmt.Errorf("pvss.AggregatedTranscript: %w", err)
	}
	if len(tm.Shares) != a.committee.Len() {
		return fmt.Errorf("pvss.AggregatedTranscript: %d shares for a committee of %d", len(tm.Shares), a.committee.Len())
	}

	commitment, err := unmarshalCommitment(tm.Coefficients)
	if err != nil {
		return fmt.Errorf("pvss.AggregatedTranscript: %w", err)
	}
	shares, err := unmarshalShares(tm.Shares)
	if err != nil {
		return fmt.Errorf("pvss.AggregatedTranscript: %w", err)
	}
	proof, err := bls.G2FromBytes(tm.Proof)
	if err != nil {
		return fmt.Errorf("pvss.AggregatedTranscript: proof: %w", err)
	}

	a.commitment = commitment
	a.shares = shares
	a.proof = *proof
	return nil
}
