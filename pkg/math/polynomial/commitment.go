package polynomial

import (
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Commitment is a polynomial committed to coefficient-wise in G1:
// Fᵢ = g^{aᵢ}. It is the publicly verifiable half of a dealt polynomial, and
// commitments from different dealers add homomorphically.
type Commitment struct {
	coefficients []bls.G1
}

// NewCommitment commits to every coefficient of f.
func NewCommitment(f *Polynomial) *Commitment {
	c := &Commitment{coefficients: make([]bls.G1, len(f.coefficients))}
	g := bls.G1Generator()
	for i := range c.coefficients {
		c.coefficients[i].ScalarMult(&f.coefficients[i], g)
	}
	return c
}

// CommitmentFromCoefficients rebuilds a Commitment from decoded points.
// The slice is copied.
func CommitmentFromCoefficients(points []bls.G1) (*Commitment, error) {
	if len(points) == 0 {
		return nil, errors.New("polynomial.CommitmentFromCoefficients: no coefficients")
	}
	c := &Commitment{coefficients: make([]bls.G1, len(points))}
	copy(c.coefficients, points)
	return c, nil
}

// Evaluate computes g^{f(index)} from the committed coefficients, using
// Horner's method in the group.
func (c *Commitment) Evaluate(index *bls.Scalar) *bls.G1 {
	result := new(bls.G1)
	result.SetIdentity()
	for i := len(c.coefficients) - 1; i >= 0; i-- {
		var scaled bls.G1
		scaled.ScalarMult(index, result)
		next := new(bls.G1)
		next.Add(&scaled, &c.coefficients[i])
		result = next
	}
	return result
}

// Constant returns a copy of the committed constant term F₀ = g^{a₀}.
func (c *Commitment) Constant() *bls.G1 {
	p := c.coefficients[0]
	return &p
}

// Degree is the degree of the committed polynomial.
func (c *Commitment) Degree() int {
	return len(c.coefficients) - 1
}

// Coefficients returns a copy of the committed coefficients.
func (c *Commitment) Coefficients() []bls.G1 {
	out := make([]bls.G1, len(c.coefficients))
	copy(out, c.coefficients)
	return out
}

// Copy returns a deep copy of the commitment.
func (c *Commitment) Copy() *Commitment {
	q := &Commitment{coefficients: make([]bls.G1, len(c.coefficients))}
	copy(q.coefficients, c.coefficients)
	return q
}

// Equal reports whether both commitments commit to the same coefficients.
func (c *Commitment) Equal(other *Commitment) bool {
	if len(c.coefficients) != len(other.coefficients) {
		return false
	}
	for i := range c.coefficients {
		if !c.coefficients[i].IsEqual(&other.coefficients[i]) {
			return false
		}
	}
	return true
}

func (c *Commitment) add(q *Commitment) error {
	if len(c.coefficients) != len(q.coefficients) {
		return fmt.Errorf("polynomial: cannot add commitments of degree %d and %d", c.Degree(), q.Degree())
	}
	for i := range c.coefficients {
		var sum bls.G1
		sum.Add(&c.coefficients[i], &q.coefficients[i])
		c.coefficients[i] = sum
	}
	return nil
}

// Sum adds a slice of commitments pointwise. All commitments must have the
// same degree.
func Sum(commitments []*Commitment) (*Commitment, error) {
	if len(commitments) == 0 {
		return nil, errors.New("polynomial.Sum: no commitments")
	}

	summed := commitments[0].Copy()
	for _, c := range commitments[1:] {
		if err := summed.add(c); err != nil {
			return nil, fmt.Errorf("polynomial.Sum: %w", err)
		}
	}
	return summed, nil
}
