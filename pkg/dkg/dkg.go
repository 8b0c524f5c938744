package dkg

import (
	"errors"
	"fmt"
	"io"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/pvss"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// ErrInvalidState is returned when an operation is invoked before the session
// has reached the state that makes it meaningful, e.g. reading the final key
// before any aggregation happened. Hitting it is a programming error in the
// caller, not a recoverable protocol condition.
var ErrInvalidState = errors.New("dkg: session is not in a valid state for this operation")

// Message is the unit broadcast between sessions.
type Message = pvss.Message

// State tracks how far a session has progressed.
type State int

const (
	// Initialized: constructed, nothing exchanged yet.
	Initialized State = iota
	// TranscriptGenerated: this session dealt its own transcript.
	TranscriptGenerated
	// Aggregated: collected messages were combined; the final key exists.
	Aggregated
	// Verified: the aggregate passed public verification.
	Verified
	// Failed: the aggregate failed public verification. Hard stop.
	Failed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case TranscriptGenerated:
		return "TranscriptGenerated"
	case Aggregated:
		return "Aggregated"
	case Verified:
		return "Verified"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one validator's local view of a DKG ritual. It owns no other
// party's secret material: everything it consumes or produces besides its own
// randomness is public.
type Session struct {
	params    Params
	committee *validator.Committee
	domain    *bls.Domain
	me        validator.Validator
	meIndex   int

	state      State
	aggregated *pvss.AggregatedTranscript
}

// NewSession binds a session to the ritual parameters, the committee, and the
// distinguished "self" validator. It fails on malformed parameters, a
// committee of the wrong size, or a self validator that is not a committee
// member with a matching key.
func NewSession(params Params, committee *validator.Committee, me *validator.Validator) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("dkg.NewSession: %w", err)
	}
	if committee.Len() != int(params.SharesNum) {
		return nil, fmt.Errorf("dkg.NewSession: committee of %d for %d shares", committee.Len(), params.SharesNum)
	}

	meIndex, ok := committee.Index(me.Address)
	if !ok {
		return nil, fmt.Errorf("dkg.NewSession: validator %q is not in the committee", me.Address)
	}
	member := committee.Validator(meIndex)
	if !member.Equal(me) {
		return nil, fmt.Errorf("dkg.NewSession: key mismatch for validator %q", me.Address)
	}

	domain, err := bls.NewDomain(int(params.SharesNum))
	if err != nil {
		return nil, fmt.Errorf("dkg.NewSession: %w", err)
	}

	return &Session{
		params:    params,
		committee: committee,
		domain:    domain,
		me:        member,
		meIndex:   meIndex,
		state:     Initialized,
	}, nil
}

// GenerateTranscript deals this validator's contribution to the ritual.
// The result is broadcast as a Message alongside this session's validator.
func (s *Session) GenerateTranscript(rand io.Reader) (*pvss.Transcript, error) {
	if s.state == Failed {
		return nil, fmt.Errorf("dkg.GenerateTranscript: %w: aggregation already failed verification", ErrInvalidState)
	}

	t, err := pvss.NewTranscript(s.committee, s.domain, int(s.params.SecurityThreshold), rand)
	if err != nil {
		return nil, fmt.Errorf("dkg.GenerateTranscript: %w", err)
	}
	if s.state == Initialized {
		s.state = TranscriptGenerated
	}
	return t, nil
}

// AggregateTranscripts combines the collected messages into a single
// aggregated transcript and retains it on the session. Aggregation does not
// verify; call VerifyAggregation, or Verify on the returned aggregate.
func (s *Session) AggregateTranscripts(messages []Message) (*pvss.AggregatedTranscript, error) {
	aggregated, err := pvss.Aggregate(s.committee, s.domain, messages)
	if err != nil {
		return nil, fmt.Errorf("dkg.AggregateTranscripts: %w", err)
	}
	s.aggregated = aggregated
	s.state = Aggregated
	return aggregated, nil
}

// VerifyAggregation runs public verification of the retained aggregate
// against the given messages and records the outcome in the session state.
// A false result is a hard stop: the session refuses to produce anything
// derived from a failed aggregate afterwards.
func (s *Session) VerifyAggregation(expectedSharesNum int, messages []Message) (bool, error) {
	if s.aggregated == nil {
		return false, fmt.Errorf("dkg.VerifyAggregation: %w: no aggregate", ErrInvalidState)
	}

	if s.aggregated.Verify(expectedSharesNum, messages) {
		s.state = Verified
		return true, nil
	}
	s.state = Failed
	return false, nil
}

// FinalKey returns the group public key implied by the aggregated
// commitments: the key ciphertexts for this ritual are encrypted under.
// It is an error to ask before aggregation, or after failed verification.
func (s *Session) FinalKey() (*bls.G1, error) {
	if err := s.requireAggregate("dkg.FinalKey"); err != nil {
		return nil, err
	}
	return s.aggregated.GroupKey(), nil
}

// PublicParams returns the ritual constants needed to validate ciphertexts
// and shared secrets, available once aggregation has occurred.
func (s *Session) PublicParams() (*PublicParams, error) {
	if err := s.requireAggregate("dkg.PublicParams"); err != nil {
		return nil, err
	}
	return &PublicParams{
		G:        *bls.G1Generator(),
		H:        *bls.G2Generator(),
		GroupKey: *s.aggregated.GroupKey(),
	}, nil
}

// AggregatedTranscript returns the aggregate retained by the last successful
// AggregateTranscripts call.
func (s *Session) AggregatedTranscript() (*pvss.AggregatedTranscript, error) {
	if err := s.requireAggregate("dkg.AggregatedTranscript"); err != nil {
		return nil, err
	}
	return s.aggregated, nil
}

func (s *Session) requireAggregate(op string) error {
	switch {
	case s.state == Failed:
		return fmt.Errorf("%s: %w: aggregation failed verification", op, ErrInvalidState)
	case s.aggregated == nil:
		return fmt.Errorf("%s: %w: transcripts have not been aggregated", op, ErrInvalidState)
	}
	return nil
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Params returns the ritual parameters.
func (s *Session) Params() Params { return s.params }

// Committee returns the sorted committee this session is bound to.
func (s *Session) Committee() *validator.Committee { return s.committee }

// Domain returns the share evaluation domain.
func (s *Session) Domain() *bls.Domain { return s.domain }

// Self returns this session's own validator record.
func (s *Session) Self() validator.Validator { return s.me }

// SelfIndex returns this session's share index in the sorted committee.
func (s *Session) SelfIndex() int { return s.meIndex }
