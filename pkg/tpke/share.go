package tpke

import (
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/dkg"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
	"github.com/derekpierre/nucypher-ferveo/pkg/math/polynomial"
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// DecryptionShareSimple is one validator's contribution towards a shared
// secret in the simple variant. The combiner interpolates over whichever
// threshold-sized subset shows up, so each share carries the domain point it
// was dealt at.
type DecryptionShareSimple struct {
	index       int
	domainPoint bls.Scalar
	// checksum is U^{1/b}, the unblinded KEM commitment.
	checksum bls.G1
	// value is e(checksum, Ŷᵢ).
	value bls.GT
}

// DecryptionSharePrecomputed is one validator's contribution in the
// precomputed variant: the Lagrange coefficient for the full committee is
// already folded into the value, so combining is a plain product but every
// validator must participate.
type DecryptionSharePrecomputed struct {
	index int
	value bls.GT
}

// NewDecryptionShareSimple produces this session's validator's simple
// decryption share for the ciphertext. The session must hold a verified
// aggregate, the keypair must be the one the validator registered with the
// committee, and the ciphertext must pass its public check.
func NewDecryptionShareSimple(session *dkg.Session, ciphertext *Ciphertext, aad []byte, keypair *validator.Keypair) (*DecryptionShareSimple, error) {
	checksum, encryptedShare, err := prepareShare("tpke.NewDecryptionShareSimple", session, ciphertext, aad, keypair)
	if err != nil {
		return nil, err
	}

	share := &DecryptionShareSimple{
		index:       session.SelfIndex(),
		domainPoint: *session.Domain().Point(session.SelfIndex()),
		checksum:    *checksum,
	}
	share.value = *bls.Pair(checksum, encryptedShare)
	return share, nil
}

// NewDecryptionSharePrecomputed produces this session's validator's
// precomputed decryption share, baking in the Lagrange coefficient for the
// full committee. The same preconditions as the simple variant apply.
func NewDecryptionSharePrecomputed(session *dkg.Session, ciphertext *Ciphertext, aad []byte, keypair *validator.Keypair) (*DecryptionSharePrecomputed, error) {
	checksum, encryptedShare, err := prepareShare("tpke.NewDecryptionSharePrecomputed", session, ciphertext, aad, keypair)
	if err != nil {
		return nil, err
	}

	domain := session.Domain()
	lagrange, err := polynomial.LagrangeAtZero(domain.Points())
	if err != nil {
		return nil, fmt.Errorf("tpke.NewDecryptionSharePrecomputed: %w", err)
	}

	share := &DecryptionSharePrecomputed{index: session.SelfIndex()}
	share.value.Exp(bls.Pair(checksum, encryptedShare), &lagrange[session.SelfIndex()])
	return share, nil
}

// prepareShare runs the preconditions common to both share variants and
// returns the unblinded commitment together with the validator's encrypted
// share from the aggregate.
func prepareShare(op string, session *dkg.Session, ciphertext *Ciphertext, aad []byte, keypair *validator.Keypair) (*bls.G1, *bls.G2, error) {
	if session.State() != dkg.Verified {
		return nil, nil, fmt.Errorf("%s: %w: aggregate has not been verified", op, dkg.ErrInvalidState)
	}

	self := session.Self()
	if !keypair.PublicKey().IsEqual(self.PublicKey) {
		return nil, nil, fmt.Errorf("%s: keypair does not match this session's validator %s", op, self.Address)
	}

	params, err := session.PublicParams()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ciphertext.Check(aad, params); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	aggregate, err := session.AggregatedTranscript()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	encryptedShare, err := aggregate.ShareEncryption(session.SelfIndex())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return keypair.Unblind(ciphertext.Commitment()), encryptedShare, nil
}

// Index returns the committee index the share was produced at.
func (d *DecryptionShareSimple) Index() int { return d.index }

// Index returns the committee index the share was produced at.
func (d *DecryptionSharePrecomputed) Index() int { return d.index }

// Verify checks the share against its producer's public key and encrypted
// share from the aggregate: the checksum unblinds the ciphertext's
// commitment, and the value is the pairing of the checksum with the share.
// It lets a combiner discard bad contributions before interpolating.
func (d *DecryptionShareSimple) Verify(ciphertext *Ciphertext, publicKey *bls.G2, encryptedShare *bls.G2) error {
	if publicKey == nil || encryptedShare == nil {
		return errors.New("tpke.DecryptionShareSimple.Verify: missing public key or encrypted share")
	}
	lhs := bls.Pair(&d.checksum, publicKey)
	rhs := bls.Pair(ciphertext.Commitment(), bls.G2Generator())
	if !lhs.IsEqual(rhs) {
		return errors.New("tpke.DecryptionShareSimple.Verify: checksum does not unblind the ciphertext commitment")
	}
	if !d.value.IsEqual(bls.Pair(&d.checksum, encryptedShare)) {
		return errors.New("tpke.DecryptionShareSimple.Verify: value does not match the encrypted share")
	}
	return nil
}
