// Package validator defines the identities taking part in a ritual: the
// decryption keypair a validator holds, the validator record binding an
// address to a public key, and the immutable sorted committee.
package validator

import (
	"fmt"
	"io"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Keypair is a validator's decryption keypair. The private scalar never
// leaves this struct: shares encrypted to the public key are processed
// through Unblind, and no accessor exposes the scalar itself.
type Keypair struct {
	secret bls.Scalar
	public bls.G2
}

// RandomKeypair generates a fresh keypair from rand.
func RandomKeypair(rand io.Reader) (*Keypair, error) {
	secret, err := bls.RandomNonZeroScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("validator.RandomKeypair: %w", err)
	}

	kp := &Keypair{secret: *secret}
	kp.public.ScalarMult(&kp.secret, bls.G2Generator())
	return kp, nil
}

// PublicKey returns a copy of the public half of the keypair.
func (kp *Keypair) PublicKey() *bls.G2 {
	pk := kp.public
	return &pk
}

// Unblind removes this keypair's secret factor from p, computing p^{1/b}.
//
// A share encrypted to this keypair is ek^{f(ω)} = h^{b⋅f(ω)}; pairing the
// unblinded KEM commitment against it strips the factor b without the secret
// ever appearing outside the keypair.
func (kp *Keypair) Unblind(p *bls.G1) *bls.G1 {
	var inv bls.Scalar
	inv.Inv(&kp.secret)

	var out bls.G1
	out.ScalarMult(&inv, p)
	return &out
}
