package polynomial

import (
	"errors"
	"fmt"

	"github.com/derekpierre/nucypher-ferveo/pkg/math/bls"
)

// LagrangeAtZero returns the Lagrange coefficients at zero for the given
// evaluation points, in input order.
//
// The following formula is taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
//	                 x₀ ⋅⋅⋅ xₖ
//	lⱼ(0) = --------------------------------------------------
//	        xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xⱼ₋₁ - xⱼ)⋅(xⱼ₊₁ - xⱼ)⋅⋅⋅(xₖ - xⱼ)
//
// Points must be distinct and non-zero, otherwise a denominator vanishes and
// an error is returned.
func LagrangeAtZero(points []bls.Scalar) ([]bls.Scalar, error) {
	if len(points) == 0 {
		return nil, errors.New("polynomial.LagrangeAtZero: no points")
	}

	// numerator = x₀ ⋅⋅⋅ xₖ
	var numerator bls.Scalar
	numerator.SetOne()
	for i := range points {
		if points[i].IsZero() == 1 {
			return nil, fmt.Errorf("polynomial.LagrangeAtZero: point %d is zero", i)
		}
		numerator.Mul(&numerator, &points[i])
	}

	coefficients := make([]bls.Scalar, len(points))
	var tmp, denominator bls.Scalar
	for j := range points {
		xJ := points[j]

		// denominator = xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xₖ - xⱼ), skipping the j-th factor
		denominator = xJ
		for i := range points {
			if i == j {
				continue
			}
			tmp.Sub(&points[i], &xJ)
			if tmp.IsZero() == 1 {
				return nil, fmt.Errorf("polynomial.LagrangeAtZero: points %d and %d coincide", i, j)
			}
			denominator.Mul(&denominator, &tmp)
		}

		coefficients[j].Inv(&denominator)
		coefficients[j].Mul(&coefficients[j], &numerator)
	}
	return coefficients, nil
}
