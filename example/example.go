package main

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/internal/test"
	"github.com/derekpierre/nucypher-ferveo/pkg/dkg"
	"github.com/derekpierre/nucypher-ferveo/pkg/tpke"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// Ritual runs a full DKG: every validator deals a transcript, aggregates the
// broadcast set, and verifies the aggregate before anything is encrypted
// under the final key.
func Ritual(params dkg.Params, committee *validator.Committee) ([]*dkg.Session, []dkg.Message, error) {
	sessions := make([]*dkg.Session, committee.Len())
	messages := make([]dkg.Message, committee.Len())
	for i := range sessions {
		me := committee.Validator(i)
		session, err := dkg.NewSession(params, committee, &me)
		if err != nil {
			return nil, nil, err
		}
		transcript, err := session.GenerateTranscript(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		sessions[i] = session
		messages[i] = dkg.Message{Sender: me, Transcript: transcript}
	}

	for _, session := range sessions {
		if _, err := session.AggregateTranscripts(messages); err != nil {
			return nil, nil, err
		}
		ok, err := session.VerifyAggregation(committee.Len(), messages)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, errors.New("aggregate failed verification")
		}
	}
	return sessions, messages, nil
}

// SimpleDecrypt recovers the plaintext with a threshold-sized subset of
// validators producing simple shares.
func SimpleDecrypt(sessions []*dkg.Session, keypairs []*validator.Keypair, ciphertext *tpke.Ciphertext, aad []byte, threshold int) ([]byte, error) {
	shares := make([]*tpke.DecryptionShareSimple, threshold)
	for i := 0; i < threshold; i++ {
		share, err := tpke.NewDecryptionShareSimple(sessions[i], ciphertext, aad, keypairs[i])
		if err != nil {
			return nil, err
		}
		shares[i] = share
	}

	secret, err := tpke.CombineDecryptionSharesSimple(shares)
	if err != nil {
		return nil, err
	}
	params, err := sessions[0].PublicParams()
	if err != nil {
		return nil, err
	}
	return tpke.DecryptWithSharedSecret(ciphertext, aad, secret, params)
}

// PrecomputedDecrypt recovers the plaintext with every validator producing a
// precomputed share.
func PrecomputedDecrypt(sessions []*dkg.Session, keypairs []*validator.Keypair, ciphertext *tpke.Ciphertext, aad []byte) ([]byte, error) {
	shares := make([]*tpke.DecryptionSharePrecomputed, len(sessions))
	for i, session := range sessions {
		share, err := tpke.NewDecryptionSharePrecomputed(session, ciphertext, aad, keypairs[i])
		if err != nil {
			return nil, err
		}
		shares[i] = share
	}

	secret, err := tpke.CombineDecryptionSharesPrecomputed(shares)
	if err != nil {
		return nil, err
	}
	params, err := sessions[0].PublicParams()
	if err != nil {
		return nil, err
	}
	return tpke.DecryptWithSharedSecret(ciphertext, aad, secret, params)
}

func main() {
	params := dkg.Params{Tau: 1, SharesNum: 8, SecurityThreshold: 5}
	keypairs := test.GenerateKeypairs(int(params.SharesNum))
	committee := test.GenerateCommittee(keypairs)

	sessions, _, err := Ritual(params, committee)
	if err != nil {
		fmt.Println(err)
		return
	}

	finalKey, err := sessions[0].FinalKey()
	if err != nil {
		fmt.Println(err)
		return
	}

	plaintext := []byte("hello")
	aad := []byte("ritual-1")
	ciphertext, err := tpke.Encrypt(plaintext, aad, finalKey, rand.Reader)
	if err != nil {
		fmt.Println(err)
		return
	}

	recovered, err := SimpleDecrypt(sessions, keypairs, ciphertext, aad, int(params.SecurityThreshold))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("simple:      %s\n", recovered)

	recovered, err = PrecomputedDecrypt(sessions, keypairs, ciphertext, aad)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("precomputed: %s\n", recovered)
}
