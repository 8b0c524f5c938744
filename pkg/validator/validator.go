package validator

import (
	"errors"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Validator binds an opaque unique address to a public key. Validators are
// created by the caller before a ritual starts and are immutable thereafter.
type Validator struct {
	Address   string
	PublicKey *bls.G2
}

// New checks and constructs a Validator.
func New(address string, publicKey *bls.G2) (*Validator, error) {
	if address == "" {
		return nil, errors.New("validator.New: empty address")
	}
	if publicKey == nil || publicKey.IsIdentity() {
		return nil, errors.New("validator.New: missing public key")
	}
	pk := *publicKey
	return &Validator{Address: address, PublicKey: &pk}, nil
}

// Equal reports whether both records name the same validator with the same key.
func (v *Validator) Equal(other *Validator) bool {
	return v.Address == other.Address && v.PublicKey.IsEqual(other.PublicKey)
}
