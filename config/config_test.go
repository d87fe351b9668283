package config

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// bigIntComparer lets go-cmp compare *big.Int by value instead of by its
// unexported internal representation.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	return a.Cmp(b) == 0
})

// toyModulusHex is a small prime p = 97 such that p-1 = 96 = 2^5 * 3, so
// n_roots = 16 (log 4) divides p-1 and the toy field stays intelligible by
// hand for test assertions.
const toyModulusHex = "61" // 97 in hex

func TestNewConfigWithModulusRootsSatisfyOrder(t *testing.T) {
	cfg, err := NewConfigWithModulus(3, toyModulusHex, 4)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.NRoots)

	one := big.NewInt(1)
	require.Zero(t, cfg.Roots[0].Cmp(one))
	require.Zero(t, cfg.Roots[cfg.NRoots].Cmp(one))

	// g must not have order dividing n_roots/2.
	require.NotZero(t, cfg.Roots[cfg.NRoots/2].Cmp(one))

	for i := 0; i <= cfg.NRoots; i++ {
		prod := new(big.Int).Mul(cfg.Roots[i], cfg.RootsInv[i])
		prod.Mod(prod, cfg.Modulus)
		require.Zero(t, prod.Cmp(one))
	}
}

func TestNewConfigWithModulusInv2(t *testing.T) {
	cfg, err := NewConfigWithModulus(3, toyModulusHex, 4)
	require.NoError(t, err)

	prod := new(big.Int).Mul(big.NewInt(2), cfg.Inv2)
	prod.Mod(prod, cfg.Modulus)
	require.Zero(t, prod.Cmp(big.NewInt(1)))
}

func TestNewConfigRejectsOversizedDataFields(t *testing.T) {
	_, err := NewConfigWithModulus(100, toyModulusHex, 4)
	require.Error(t, err)
}

func TestNewConfigRejectsNonDividingNRoots(t *testing.T) {
	// 97 - 1 = 96, which is not divisible by 2^6 = 64.
	_, err := NewConfigWithModulus(1, toyModulusHex, 6)
	require.Error(t, err)
}

func TestNewConfigRejectsZeroDataFields(t *testing.T) {
	_, err := NewConfigWithModulus(0, toyModulusHex, 4)
	require.Error(t, err)
}

func TestNewConfigWithModulusRootsTableMatchesDirectComputation(t *testing.T) {
	cfg, err := NewConfigWithModulus(3, toyModulusHex, 4)
	require.NoError(t, err)

	g := cfg.Roots[1]
	want := make([]*big.Int, cfg.NRoots+1)
	acc := big.NewInt(1)
	for i := range want {
		want[i] = new(big.Int).Set(acc)
		acc.Mul(acc, g)
		acc.Mod(acc, cfg.Modulus)
	}

	if diff := cmp.Diff(want, cfg.Roots, bigIntComparer); diff != "" {
		t.Errorf("roots table mismatch (-want +got):\n%s", diff)
	}
}

func TestNewConfigDefaultParameters(t *testing.T) {
	cfg, err := NewConfig(DefaultNumDataFields)
	require.NoError(t, err)
	require.Equal(t, 1<<DefaultLogNRoots, cfg.NRoots)
	require.Equal(t, DefaultNumDataFields, cfg.NumDataFields)
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 128: 128, 129: 256}
	for in, want := range cases {
		require.Equal(t, want, NextPowerOfTwo(in), "input %d", in)
	}
}
