package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var testMod = big.NewInt(97)

func TestAddSubMulMod(t *testing.T) {
	a := NewMod(50, testMod)
	b := NewMod(60, testMod)

	sum := Zero().AddMod(a, b, testMod)
	require.EqualValues(t, 13, sum.Big().Int64()) // 110 mod 97

	diff := Zero().SubMod(a, b, testMod)
	require.EqualValues(t, 87, diff.Big().Int64()) // (50-60) mod 97

	prod := Zero().MulMod(a, b, testMod)
	want := new(big.Int).Mod(big.NewInt(50*60), testMod)
	require.Zero(t, prod.Big().Cmp(want))
}

func TestInvMod(t *testing.T) {
	a := NewMod(13, testMod)
	inv := Zero().InvMod(a, testMod)
	check := Zero().MulMod(a, inv, testMod)
	require.True(t, check.Equal(NewMod(1, testMod)))
}

func TestInvModZeroPanics(t *testing.T) {
	require.Panics(t, func() {
		Zero().InvMod(Zero(), testMod)
	})
}

func TestExpMod(t *testing.T) {
	a := NewMod(3, testMod)
	got := Zero().ExpMod(a, 4, testMod)
	require.EqualValues(t, 81, got.Big().Int64())
}

func TestExpModBig(t *testing.T) {
	a := NewMod(3, testMod)
	got := Zero().ExpModBig(a, big.NewInt(4), testMod)
	require.EqualValues(t, 81, got.Big().Int64())
}

func TestNegMod(t *testing.T) {
	a := NewMod(5, testMod)
	got := Zero().NegMod(a, testMod)
	require.EqualValues(t, 92, got.Big().Int64()) // 97 - 5

	sum := Zero().AddMod(a, got, testMod)
	require.True(t, sum.IsZero())
}

func TestFixedBytesRoundTrip(t *testing.T) {
	a := NewMod(255, testMod)
	buf := a.FixedBytes(4)
	require.Len(t, buf, 4)
	require.Equal(t, []byte{0, 0, 0, 255 % 97}, buf)
	require.True(t, FromBytes(buf, testMod).Equal(a))
}

func TestCopyIsIndependent(t *testing.T) {
	a := NewMod(5, testMod)
	b := a.Copy()
	b.AddMod(b, NewMod(1, testMod), testMod)
	require.False(t, a.Equal(b))
}
