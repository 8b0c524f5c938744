// Package tpke implements the threshold decryption side of the protocol: the
// encryption envelope under the group key, per-validator decryption shares in
// their two variants, and the combiners that fold shares into a shared secret.
package tpke

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/derekpierre/nucypher-ferveo/pkg/dkg"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// tagDST domain-separates the hash-to-G2 used for ciphertext authentication
// tags.
const tagDST = "NUCYPHER-FERVEO-TPKE-TAG-V1"

// demContext domain-separates the symmetric key derived from a shared secret.
const demContext = "NUCYPHER-FERVEO-TPKE-DEM-V1"

var (
	// ErrCiphertextVerification is returned when the public well-formedness
	// check of a ciphertext fails: its tag does not match its commitment,
	// payload and associated data.
	ErrCiphertextVerification = errors.New("tpke: ciphertext verification failed")

	// ErrAuthentication is returned when the symmetric decryption does not
	// authenticate. This is the protocol's only signal for a wrong shared
	// secret, including one combined from too few shares; the cause is
	// deliberately not distinguishable.
	ErrAuthentication = errors.New("tpke: decryption authentication failed")
)

// Ciphertext is the encryption envelope: a KEM commitment tied to the group
// public key, an authenticated symmetric payload over the associated data,
// and a publicly checkable tag binding the two together.
type Ciphertext struct {
	// commitment is U = g^r.
	commitment bls.G1
	// dem is nonce ‖ ChaCha20-Poly1305 output.
	dem []byte
	// authTag is W = H_G2(U ‖ dem ‖ aad)^r.
	authTag bls.G2
}

// Encrypt produces a Ciphertext for plaintext under the group public key,
// bound to the associated data. Anyone holding the group key can encrypt; only
// a threshold of the committee can decrypt.
func Encrypt(plaintext, aad []byte, groupKey *bls.G1, rand io.Reader) (*Ciphertext, error) {
	if groupKey == nil || groupKey.IsIdentity() {
		return nil, errors.New("tpke.Encrypt: missing group public key")
	}

	r, err := bls.RandomNonZeroScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("tpke.Encrypt: %w", err)
	}

	var c Ciphertext
	c.commitment.ScalarMult(r, bls.G1Generator())

	// The encapsulated secret is e(Y, h)^r = e(g, h)^{xr}, the same value the
	// combiner recovers from decryption shares.
	var sharedSecret bls.GT
	sharedSecret.Exp(bls.Pair(groupKey, bls.G2Generator()), r)

	key, err := demKey(&sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("tpke.Encrypt: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("tpke.Encrypt: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand, nonce); err != nil {
		return nil, fmt.Errorf("tpke.Encrypt: sampling nonce: %w", err)
	}
	c.dem = append(nonce, aead.Seal(nil, nonce, plaintext, aad)...)

	c.authTag.ScalarMult(r, tagHash(&c.commitment, c.dem, aad))
	return &c, nil
}

// Check verifies the public well-formedness of the ciphertext against the
// associated data: e(U, H) == e(g, W) for H = H_G2(U ‖ dem ‖ aad). The check
// needs no key material, so validators run it before producing a decryption
// share, and decryption runs it before touching the payload.
func (c *Ciphertext) Check(aad []byte, params *dkg.PublicParams) error {
	h := tagHash(&c.commitment, c.dem, aad)
	lhs := bls.Pair(&c.commitment, h)
	rhs := bls.Pair(&params.G, &c.authTag)
	if !lhs.IsEqual(rhs) {
		return ErrCiphertextVerification
	}
	return nil
}

// Commitment returns a copy of the KEM commitment U.
func (c *Ciphertext) Commitment() *bls.G1 {
	u := c.commitment
	return &u
}

// DecryptWithSharedSecret authenticates and decrypts the envelope's payload
// using a shared secret recovered by a combiner. Any wrong shared secret -
// including one combined from fewer shares than the variant's quorum -
// surfaces as ErrAuthentication.
func DecryptWithSharedSecret(c *Ciphertext, aad []byte, sharedSecret *SharedSecret, params *dkg.PublicParams) ([]byte, error) {
	if err := c.Check(aad, params); err != nil {
		return nil, fmt.Errorf("tpke.DecryptWithSharedSecret: %w", err)
	}

	key, err := demKey(&sharedSecret.value)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptWithSharedSecret: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptWithSharedSecret: %w", err)
	}

	if len(c.dem) < chacha20poly1305.NonceSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("tpke.DecryptWithSharedSecret: %w", ErrAuthentication)
	}
	nonce, sealed := c.dem[:chacha20poly1305.NonceSize], c.dem[chacha20poly1305.NonceSize:]
	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("tpke.DecryptWithSharedSecret: %w", ErrAuthentication)
	}
	return plaintext, nil
}

// tagHash maps the ciphertext header to the G2 point the authentication tag
// is built on. The payload is length-prefixed so the dem/aad boundary is
// unambiguous.
func tagHash(u *bls.G1, dem, aad []byte) *bls.G2 {
	msg := make([]byte, 0, bls.G1Size+8+len(dem)+len(aad))
	msg = append(msg, u.BytesCompressed()...)
	msg = binary.BigEndian.AppendUint64(msg, uint64(len(dem)))
	msg = append(msg, dem...)
	msg = append(msg, aad...)
	return bls.HashToG2(msg, []byte(tagDST))
}

// demKey derives the fixed-size symmetric key from a shared secret.
func demKey(sharedSecret *bls.GT) ([]byte, error) {
	material, err := bls.GTBytes(sharedSecret)
	if err != nil {
		return nil, err
	}
	key := make([]byte, chacha20poly1305.KeySize)
	blake3.DeriveKey(demContext, material, key)
	return key, nil
}
