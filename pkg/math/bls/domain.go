package bls

import (
	"fmt"
	"math/big"
)

// fieldGenerator is the smallest generator of the multiplicative group of the
// scalar field, used to derive roots of unity.
var fieldGenerator = big.NewInt(7)

// Domain is the multiplicative subgroup {1, ω, ω², …, ωⁿ⁻¹} of the scalar
// field over which shares are evaluated. The size must be a power of two so
// that a primitive n-th root of unity ω exists; validator j's evaluation point
// is ωʲ, indexed by the committee's sort order.
type Domain struct {
	size      int
	generator Scalar
	points    []Scalar
}

// NewDomain constructs the evaluation domain of the given size.
// Fails if size is not a power of two.
func NewDomain(size int) (*Domain, error) {
	if size < 1 || size&(size-1) != 0 {
		return nil, fmt.Errorf("bls.NewDomain: size must be a power of two, got %d", size)
	}

	// ω = γ^((r−1)/size) mod r. The scalar field has 2-adicity 32, so the
	// division is exact for every power of two a committee can reach.
	r := new(big.Int).SetBytes(Order())
	exponent := new(big.Int).Sub(r, big.NewInt(1))
	exponent.Div(exponent, big.NewInt(int64(size)))
	omega := new(big.Int).Exp(fieldGenerator, exponent, r)

	buf := make([]byte, ScalarSize)
	omega.FillBytes(buf)
	generator, err := ScalarFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("bls.NewDomain: %w", err)
	}

	points := make([]Scalar, size)
	points[0].SetOne()
	for i := 1; i < size; i++ {
		points[i].Mul(&points[i-1], generator)
	}

	return &Domain{
		size:      size,
		generator: *generator,
		points:    points,
	}, nil
}

// Size returns the number of evaluation points.
func (d *Domain) Size() int { return d.size }

// Point returns a copy of the i-th evaluation point ωⁱ.
// Panics if i is out of range.
func (d *Domain) Point(i int) *Scalar {
	p := d.points[i]
	return &p
}

// Points returns a copy of all evaluation points in index order.
func (d *Domain) Points() []Scalar {
	out := make([]Scalar, len(d.points))
	copy(out, d.points)
	return out
}

// Generator returns a copy of the primitive root of unity ω.
func (d *Domain) Generator() *Scalar {
	g := d.generator
	return &g
}
