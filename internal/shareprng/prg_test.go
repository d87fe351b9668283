package shareprng

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/prio/field"
	"github.com/tuneinsight/prio/internal/farray"
)

var mod = big.NewInt(97)

func TestPRGDeterministicInSeed(t *testing.T) {
	var seed Seed
	copy(seed[:], []byte("0123456789abcdef"))

	p1, err := New(seed)
	require.NoError(t, err)
	p2, err := New(seed)
	require.NoError(t, err)

	require.Equal(t, p1.GetBytes(64), p2.GetBytes(64))
}

func TestPRGDifferentSeedsDiverge(t *testing.T) {
	var seedA, seedB Seed
	copy(seedA[:], []byte("0123456789abcdef"))
	copy(seedB[:], []byte("fedcba9876543210"))

	pA, err := New(seedA)
	require.NoError(t, err)
	pB, err := New(seedB)
	require.NoError(t, err)

	require.NotEqual(t, pA.GetBytes(32), pB.GetBytes(32))
}

func TestShareIntRecombines(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	prg, err := New(seed)
	require.NoError(t, err)

	src := big.NewInt(42)
	srcElt := field.FromBigInt(src, mod)

	shareA, err := prg.ShareInt(srcElt, mod)
	require.NoError(t, err)

	prg2, err := New(seed)
	require.NoError(t, err)
	bShare, err := prg2.GetInt(mod)
	require.NoError(t, err)

	sum := new(big.Int).Add(shareA.Big(), bShare.Big())
	sum.Mod(sum, mod)
	require.Zero(t, sum.Cmp(new(big.Int).Mod(src, mod)))
}

func TestGetArrayFillsEveryEntry(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	prg, err := New(seed)
	require.NoError(t, err)

	arr := farray.New(10)
	require.NoError(t, prg.GetArray(arr, mod))
	for i := 0; i < arr.Len(); i++ {
		require.True(t, arr.At(i).Big().Cmp(mod) < 0)
	}
}

func TestShareArrayLengthMismatch(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	prg, err := New(seed)
	require.NoError(t, err)

	shareA := farray.New(2)
	src := farray.New(3)
	require.Error(t, prg.ShareArray(shareA, src, mod))
}
