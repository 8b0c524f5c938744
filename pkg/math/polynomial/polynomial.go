// Package polynomial implements the secret-sharing side of the protocol:
// polynomials over the scalar field, commitments to their coefficients in G1,
// and Lagrange interpolation at zero.
package polynomial

import (
	"fmt"
	"io"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ over the scalar field.
type Polynomial struct {
	coefficients []bls.Scalar
}

// New generates a Polynomial f(X) = constant + a₁⋅X + … + a_degree⋅X^degree
// with uniformly random coefficients above the constant term.
//
// If constant is nil it is interpreted as zero.
func New(degree int, constant *bls.Scalar, rand io.Reader) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("polynomial.New: negative degree %d", degree)
	}

	p := &Polynomial{coefficients: make([]bls.Scalar, degree+1)}
	if constant != nil {
		p.coefficients[0] = *constant
	}
	for i := 1; i <= degree; i++ {
		if err := p.coefficients[i].Random(rand); err != nil {
			return nil, fmt.Errorf("polynomial.New: sampling coefficient %d: %w", i, err)
		}
	}
	return p, nil
}

// Evaluate computes f(index) using Horner's method.
//
// Evaluating at zero would return the dealer's secret; use Constant for the
// one place that legitimately needs it.
func (p *Polynomial) Evaluate(index *bls.Scalar) *bls.Scalar {
	if index.IsZero() == 1 {
		panic("polynomial: evaluation at zero leaks the secret")
	}

	var result bls.Scalar
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ⋅x + aₙ₋₁
		result.Mul(&result, index)
		result.Add(&result, &p.coefficients[i])
	}
	return &result
}

// Constant returns a copy of the constant coefficient a₀.
func (p *Polynomial) Constant() *bls.Scalar {
	c := p.coefficients[0]
	return &c
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}
