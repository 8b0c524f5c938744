// Package test provides fixtures for running whole rituals inside unit
// tests: committees with fresh keypairs and sessions driven to any point of
// the protocol. Fixtures panic on setup failure so tests stay focused on the
// behavior under test.
package test

import (
	"crypto/rand"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/dkg"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// GenerateKeypairs creates n fresh validator keypairs.
func GenerateKeypairs(n int) []*validator.Keypair {
	keypairs := make([]*validator.Keypair, n)
	for i := range keypairs {
		kp, err := validator.RandomKeypair(rand.Reader)
		if err != nil {
			panic(err)
		}
		keypairs[i] = kp
	}
	return keypairs
}

// GenerateCommittee builds a committee of n validators with deterministic
// addresses and the given keypairs.
func GenerateCommittee(keypairs []*validator.Keypair) *validator.Committee {
	validators := make([]validator.Validator, len(keypairs))
	for i, kp := range keypairs {
		v, err := validator.New(fmt.Sprintf("0x%040x", i), kp.PublicKey())
		if err != nil {
			panic(err)
		}
		validators[i] = *v
	}
	committee, err := validator.NewCommittee(validators)
	if err != nil {
		panic(err)
	}
	return committee
}

// Sessions creates one session per committee member for the given parameters.
// The committee sorts by address, so session i belongs to committee index i.
func Sessions(params dkg.Params, committee *validator.Committee) []*dkg.Session {
	sessions := make([]*dkg.Session, committee.Len())
	for i := range sessions {
		me := committee.Validator(i)
		session, err := dkg.NewSession(params, committee, &me)
		if err != nil {
			panic(err)
		}
		sessions[i] = session
	}
	return sessions
}

// DealMessages has every session deal a transcript and wraps them as signed
// messages in committee order.
func DealMessages(sessions []*dkg.Session) []dkg.Message {
	messages := make([]dkg.Message, len(sessions))
	for i, session := range sessions {
		transcript, err := session.GenerateTranscript(rand.Reader)
		if err != nil {
			panic(err)
		}
		messages[i] = dkg.Message{Sender: session.Self(), Transcript: transcript}
	}
	return messages
}

// VerifiedSessions runs a full ritual for n validators with the given
// threshold: key generation, dealing, aggregation and verification on every
// session. It returns the sessions and keypairs in committee order together
// with the dealt messages.
func VerifiedSessions(tau uint32, sharesNum, threshold int) ([]*dkg.Session, []*validator.Keypair, []dkg.Message) {
	keypairs := GenerateKeypairs(sharesNum)
	committee := GenerateCommittee(keypairs)

	// Committee order is sorted by address; with 0x%040x addresses that is
	// generation order, keeping keypairs aligned with sessions.
	params := dkg.Params{
		Tau:               tau,
		SharesNum:         uint32(sharesNum),
		SecurityThreshold: uint32(threshold),
	}
	sessions := Sessions(params, committee)
	messages := DealMessages(sessions)

	for _, session := range sessions {
		if _, err := session.AggregateTranscripts(messages); err != nil {
			panic(err)
		}
		ok, err := session.VerifyAggregation(sharesNum, messages)
		if err != nil {
			panic(err)
		}
		if !ok {
			panic("test.VerifiedSessions: aggregate failed verification")
		}
	}
	return sessions, keypairs, messages
}
