// Package fft implements the radix-2 Cooley-Tukey transform over the
// field defined by a config.Config, used to move between a polynomial's
// coefficient representation and its values at the n-th roots of unity.
package fft

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/field"
	"github.com/tuneinsight/prio/internal/farray"
)

// GetRoots returns the nPoints roots used to evaluate a length-nPoints
// transform: roots[i] = g^(i*step) where step = cfg.NRoots/nPoints and g
// is the (inverse, if invert) primitive root baked into cfg.
//
// The returned elements are copies, not views into cfg's table: every
// *field.Elt is independently owned and callers may mutate it freely
// without corrupting the shared config.
func GetRoots(cfg *config.Config, nPoints int, invert bool) ([]*field.Elt, error) {
	if nPoints <= 0 || cfg.NRoots%nPoints != 0 {
		return nil, fmt.Errorf("fft: n_roots (%d) is not a multiple of n_points (%d)", cfg.NRoots, nPoints)
	}
	table := cfg.Roots
	if invert {
		table = cfg.RootsInv
	}
	step := cfg.NRoots / nPoints

	roots := make([]*field.Elt, nPoints)
	for i := 0; i < nPoints; i++ {
		roots[i] = field.FromBigInt(table[i*step], cfg.Modulus)
	}
	return roots, nil
}

// Transform computes the length-n FFT (invert=false) or inverse FFT
// (invert=true) of points over cfg's field, returning a freshly allocated
// FieldArray of the same length. n must be a power of two dividing
// cfg.NRoots.
func Transform(cfg *config.Config, points *farray.FieldArray, invert bool) (*farray.FieldArray, error) {
	n := points.Len()
	if n == 0 || (n&(n-1)) != 0 {
		return nil, fmt.Errorf("fft: n_points (%d) must be a positive power of two", n)
	}

	roots, err := GetRoots(cfg, n, invert)
	if err != nil {
		return nil, err
	}

	out := recurse(cfg.Modulus, roots, points.Slice())

	result := farray.New(n)
	if invert {
		nField := field.NewMod(int64(n), cfg.Modulus)
		invN := field.Zero()
		invN.InvMod(nField, cfg.Modulus)
		for i, v := range out {
			scaled := field.Zero()
			scaled.MulMod(v, invN, cfg.Modulus)
			result.Set(i, scaled)
		}
		return result, nil
	}

	for i, v := range out {
		result.Set(i, v)
	}
	return result, nil
}

// recurse splits the transform in half at each level: the even-indexed
// outputs come from a half-size transform of the folded sums, the
// odd-indexed outputs from a half-size transform of the folded,
// root-twisted differences.
func recurse(modulus *big.Int, roots []*field.Elt, ys []*field.Elt) []*field.Elt {
	n := len(ys)
	if n == 1 {
		return []*field.Elt{ys[0].Copy()}
	}

	half := n / 2
	ySubEven := make([]*field.Elt, half)
	rootsSubEven := make([]*field.Elt, half)
	for i := 0; i < half; i++ {
		ySubEven[i] = field.Zero().AddMod(ys[i], ys[i+half], modulus)
		rootsSubEven[i] = roots[2*i].Copy()
	}
	evenOut := recurse(modulus, rootsSubEven, ySubEven)

	ySubOdd := make([]*field.Elt, half)
	for i := 0; i < half; i++ {
		diff := field.Zero().SubMod(ys[i], ys[i+half], modulus)
		ySubOdd[i] = field.Zero().MulMod(diff, roots[i], modulus)
	}
	oddOut := recurse(modulus, rootsSubEven, ySubOdd)

	out := make([]*field.Elt, n)
	for i := 0; i < half; i++ {
		out[2*i] = evenOut[i]
		out[2*i+1] = oddOut[i]
	}
	return out
}

// EvalPoly evaluates the polynomial with the given coefficients at
// evalAt using Horner's method, working from the highest-degree
// coefficient down.
func EvalPoly(cfg *config.Config, coeffs *farray.FieldArray, evalAt *field.Elt) *field.Elt {
	n := coeffs.Len()
	value := coeffs.At(n - 1).Copy()
	for i := n - 2; i >= 0; i-- {
		value.MulMod(value, evalAt, cfg.Modulus)
		value.AddMod(value, coeffs.At(i), cfg.Modulus)
	}
	return value
}

// InterpEvaluate interpolates the unique degree-(N-1) polynomial passing
// through polyPoints at the N-th roots of unity, then evaluates it at
// evalAt.
func InterpEvaluate(cfg *config.Config, polyPoints *farray.FieldArray, evalAt *field.Elt) (*field.Elt, error) {
	coeffs, err := Transform(cfg, polyPoints, true)
	if err != nil {
		return nil, fmt.Errorf("fft: interpolating: %w", err)
	}
	return EvalPoly(cfg, coeffs, evalAt), nil
}
