// Package config holds the immutable, read-only-after-construction
// parameters shared by a Prio deployment: the field modulus, the
// precomputed table of n-th roots of unity and their inverses, the inverse
// of 2, and the number of Boolean data fields per client submission.
//
// The roots tables are computed once at construction from a primitive
// root with arbitrary-precision math/big arithmetic, since the default
// 87-bit modulus does not fit a machine word.
package config

import (
	"fmt"
	"math/big"
)

// DefaultModulusHex is the hexadecimal modulus used by the reference
// deployment: an 87-bit prime M with M-1 divisible by a large power of
// two, so that 2^DefaultLogNRoots-th roots of unity exist.
const DefaultModulusHex = "8000000000000000080001"

// DefaultLogNRoots is k such that NRoots = 2^k in the default deployment.
const DefaultLogNRoots = 19

// DefaultNumDataFields is the default number of Boolean fields per
// submission.
const DefaultNumDataFields = 128

// Config is immutable after NewConfig returns successfully.
type Config struct {
	NumDataFields int
	Modulus       *big.Int

	// NRoots is 2^k, the order of the multiplicative subgroup generated by
	// the primitive root used for the FFT.
	NRoots int

	// Roots[i] = g^i mod Modulus. Roots has length NRoots+1; the last
	// entry wraps back to 1.
	Roots    []*big.Int
	RootsInv []*big.Int

	// Inv2 = 2^-1 mod Modulus.
	Inv2 *big.Int
}

// NewConfig builds the default deployment's Config scaled to
// numDataFields data fields. numDataFields+1 must not exceed NRoots/2 so
// that the proof polynomials fit below the FFT length.
func NewConfig(numDataFields int) (*Config, error) {
	return NewConfigWithModulus(numDataFields, DefaultModulusHex, DefaultLogNRoots)
}

// NewConfigWithModulus builds a Config from an explicit hex modulus and
// log2(NRoots), letting tests exercise small toy fields without the
// default 87-bit/2^19 parameters.
func NewConfigWithModulus(numDataFields int, modulusHex string, logNRoots int) (*Config, error) {
	if numDataFields < 1 {
		return nil, fmt.Errorf("config: num_data_fields must be >= 1, got %d", numDataFields)
	}
	if logNRoots < 1 {
		return nil, fmt.Errorf("config: log2(n_roots) must be >= 1, got %d", logNRoots)
	}

	modulus, ok := new(big.Int).SetString(modulusHex, 16)
	if !ok {
		return nil, fmt.Errorf("config: invalid modulus hex string %q", modulusHex)
	}
	if !modulus.ProbablyPrime(20) {
		return nil, fmt.Errorf("config: modulus 0x%s is not prime", modulusHex)
	}

	nRoots := 1 << uint(logNRoots)

	if numDataFields+1 > nRoots/2 {
		return nil, fmt.Errorf("config: num_data_fields+1 (%d) exceeds n_roots/2 (%d)", numDataFields+1, nRoots/2)
	}

	mMinus1 := new(big.Int).Sub(modulus, big.NewInt(1))
	nRootsBig := big.NewInt(int64(nRoots))
	rem := new(big.Int).Mod(mMinus1, nRootsBig)
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("config: n_roots (%d) does not divide modulus-1", nRoots)
	}

	g, err := findPrimitiveNthRoot(modulus, mMinus1, nRootsBig, nRoots)
	if err != nil {
		return nil, err
	}

	roots := make([]*big.Int, nRoots+1)
	rootsInv := make([]*big.Int, nRoots+1)

	gInv := new(big.Int).ModInverse(g, modulus)
	if gInv == nil {
		return nil, fmt.Errorf("config: primitive root has no inverse mod M, modulus is malformed")
	}

	acc := big.NewInt(1)
	accInv := big.NewInt(1)
	for i := 0; i <= nRoots; i++ {
		roots[i] = new(big.Int).Set(acc)
		rootsInv[i] = new(big.Int).Set(accInv)
		acc.Mul(acc, g)
		acc.Mod(acc, modulus)
		accInv.Mul(accInv, gInv)
		accInv.Mod(accInv, modulus)
	}

	inv2 := new(big.Int).ModInverse(big.NewInt(2), modulus)
	if inv2 == nil {
		return nil, fmt.Errorf("config: 2 has no inverse mod M, modulus is malformed")
	}

	return &Config{
		NumDataFields: numDataFields,
		Modulus:       modulus,
		NRoots:        nRoots,
		Roots:         roots,
		RootsInv:      rootsInv,
		Inv2:          inv2,
	}, nil
}

// findPrimitiveNthRoot searches for an element of order exactly n in
// (Z/mZ)*, starting from small candidates, rather than requiring the
// caller to supply one.
func findPrimitiveNthRoot(modulus, mMinus1, nBig *big.Int, n int) (*big.Int, error) {
	exp := new(big.Int).Div(mMinus1, nBig)

	for candidate := int64(2); candidate < 1<<20; candidate++ {
		c := big.NewInt(candidate)
		if c.Cmp(modulus) >= 0 {
			break
		}
		g := new(big.Int).Exp(c, exp, modulus)
		if g.Cmp(big.NewInt(1)) == 0 {
			continue
		}
		// Confirm g has order exactly n: g^(n/2) != 1 for n a power of
		// two is sufficient since the only possible proper divisors of a
		// power of two that could yield spurious order are its halves.
		half := new(big.Int).Exp(g, big.NewInt(int64(n/2)), modulus)
		if half.Cmp(big.NewInt(1)) == 0 {
			continue
		}
		return g, nil
	}
	return nil, fmt.Errorf("config: could not find a primitive %d-th root of unity mod M", n)
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
