package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/prio/client"
	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/field"
)

// submitAndAggregate runs one client's submission through both servers'
// full verification and aggregation pipeline, failing the test if the
// submission is rejected.
func submitAndAggregate(t *testing.T, cfg *config.Config, sA, sB *Server, data []bool, secret [20]byte) {
	t.Helper()

	pA, pB, err := client.NewPacketPair(cfg, data)
	require.NoError(t, err)

	vA := NewVerifier(sA)
	vB := NewVerifier(sB)

	require.NoError(t, vA.SetData(pA, secret))
	require.NoError(t, vB.SetData(pB, secret))

	r1A, err := vA.Round1()
	require.NoError(t, err)
	r1B, err := vB.Round1()
	require.NoError(t, err)

	r2A, err := vA.Round2(r1A, r1B)
	require.NoError(t, err)
	r2B, err := vB.Round2(r1A, r1B)
	require.NoError(t, err)

	valid, err := vA.Decide(r2A, r2B)
	require.NoError(t, err)
	require.True(t, valid)

	require.NoError(t, sA.Aggregate(vA))
	require.NoError(t, sB.Aggregate(vB))
}

func distinctSecret(counter uint64) [20]byte {
	var s [20]byte
	s[0] = byte(counter)
	s[19] = byte(counter + 1)
	return s
}

func TestEndToEndSingleClient(t *testing.T) {
	cfg := toyConfig(t, 4, 5) // n_roots = 32, enough room for L=4
	sA, err := NewServer(cfg, client.ServerA, nil)
	require.NoError(t, err)
	sB, err := NewServer(cfg, client.ServerB, nil)
	require.NoError(t, err)

	submitAndAggregate(t, cfg, sA, sB, []bool{true, false, true, true}, distinctSecret(0))

	out, err := TotalShareFinal(cfg, sA.TotalShare(), sB.TotalShare())
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 0, 1, 1}, out)
}

func TestEndToEndTenIdenticalClients(t *testing.T) {
	cfg := toyConfig(t, 4, 5)
	sA, err := NewServer(cfg, client.ServerA, nil)
	require.NoError(t, err)
	sB, err := NewServer(cfg, client.ServerB, nil)
	require.NoError(t, err)

	for c := 0; c < 10; c++ {
		submitAndAggregate(t, cfg, sA, sB, []bool{true, false, true, true}, distinctSecret(uint64(c)))
	}

	out, err := TotalShareFinal(cfg, sA.TotalShare(), sB.TotalShare())
	require.NoError(t, err)
	require.Equal(t, []uint64{10, 0, 10, 10}, out)
}

// TestEndToEndMixedSparsity exercises L=100 across ten clients with
// b[i] = (i%3==1) || (c%5==3), checking per-field aggregation with
// non-uniform client data.
func TestEndToEndMixedSparsity(t *testing.T) {
	const numFields = 100
	cfg, err := config.NewConfig(numFields)
	require.NoError(t, err)

	sA, err := NewServer(cfg, client.ServerA, nil)
	require.NoError(t, err)
	sB, err := NewServer(cfg, client.ServerB, nil)
	require.NoError(t, err)

	sparseClients := 0
	for c := 0; c < 10; c++ {
		if c%5 == 3 {
			sparseClients++
		}
	}

	for c := 0; c < 10; c++ {
		data := make([]bool, numFields)
		for i := 0; i < numFields; i++ {
			data[i] = (i%3 == 1) || (c%5 == 3)
		}
		submitAndAggregate(t, cfg, sA, sB, data, distinctSecret(uint64(c)))
	}

	out, err := TotalShareFinal(cfg, sA.TotalShare(), sB.TotalShare())
	require.NoError(t, err)

	for i := 0; i < numFields; i++ {
		want := uint64(0)
		if i%3 == 1 {
			want = 10
		} else {
			want = uint64(sparseClients)
		}
		require.Equal(t, want, out[i], "field %d", i)
	}
}

// TestTamperScenarios flips a single field of an otherwise well-formed
// exchange — an h-point share, a data share, a round 1 share, a round 2
// share — and checks that each flip independently causes the validity
// check to reject. Tampering escapes detection only when the evaluation
// point lands on a root of the tampered difference polynomial, so with
// the 87-bit modulus a false accept here is a once-in-2^80 event.
func TestTamperScenarios(t *testing.T) {
	cfg := bigConfig(t, 3, 4)
	var secret [20]byte
	copy(secret[:], []byte("0123456789abcdefghij"))
	data := []bool{true, false, true}

	one := func() *field.Elt { return field.NewMod(1, cfg.Modulus) }

	t.Run("h_points[1]", func(t *testing.T) {
		pA, pB, err := client.NewPacketPair(cfg, data)
		require.NoError(t, err)
		pA.HPoints.Set(1, field.Zero().AddMod(pA.HPoints.At(1), one(), cfg.Modulus))

		sA, err := NewServer(cfg, client.ServerA, nil)
		require.NoError(t, err)
		sB, err := NewServer(cfg, client.ServerB, nil)
		require.NoError(t, err)
		vA := NewVerifier(sA)
		vB := NewVerifier(sB)
		require.NoError(t, vA.SetData(pA, secret))
		require.NoError(t, vB.SetData(pB, secret))
		r1A, err := vA.Round1()
		require.NoError(t, err)
		r1B, err := vB.Round1()
		require.NoError(t, err)
		r2A, err := vA.Round2(r1A, r1B)
		require.NoError(t, err)
		r2B, err := vB.Round2(r1A, r1B)
		require.NoError(t, err)
		valid, err := vA.Decide(r2A, r2B)
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("data_shares[1]", func(t *testing.T) {
		pA, pB, err := client.NewPacketPair(cfg, data)
		require.NoError(t, err)
		pA.DataShares.Set(1, field.Zero().AddMod(pA.DataShares.At(1), one(), cfg.Modulus))

		sA, err := NewServer(cfg, client.ServerA, nil)
		require.NoError(t, err)
		sB, err := NewServer(cfg, client.ServerB, nil)
		require.NoError(t, err)
		vA := NewVerifier(sA)
		vB := NewVerifier(sB)
		require.NoError(t, vA.SetData(pA, secret))
		require.NoError(t, vB.SetData(pB, secret))
		r1A, err := vA.Round1()
		require.NoError(t, err)
		r1B, err := vB.Round1()
		require.NoError(t, err)
		r2A, err := vA.Round2(r1A, r1B)
		require.NoError(t, err)
		r2B, err := vB.Round2(r1A, r1B)
		require.NoError(t, err)
		valid, err := vA.Decide(r2A, r2B)
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("m1_B.share_d", func(t *testing.T) {
		pA, pB, err := client.NewPacketPair(cfg, data)
		require.NoError(t, err)

		sA, err := NewServer(cfg, client.ServerA, nil)
		require.NoError(t, err)
		sB, err := NewServer(cfg, client.ServerB, nil)
		require.NoError(t, err)
		vA := NewVerifier(sA)
		vB := NewVerifier(sB)
		require.NoError(t, vA.SetData(pA, secret))
		require.NoError(t, vB.SetData(pB, secret))
		r1A, err := vA.Round1()
		require.NoError(t, err)
		r1B, err := vB.Round1()
		require.NoError(t, err)

		r1B.ShareD = field.Zero().AddMod(r1B.ShareD, one(), cfg.Modulus)

		r2A, err := vA.Round2(r1A, r1B)
		require.NoError(t, err)
		r2B, err := vB.Round2(r1A, r1B)
		require.NoError(t, err)
		valid, err := vA.Decide(r2A, r2B)
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("m2_A.share_out", func(t *testing.T) {
		pA, pB, err := client.NewPacketPair(cfg, data)
		require.NoError(t, err)

		sA, err := NewServer(cfg, client.ServerA, nil)
		require.NoError(t, err)
		sB, err := NewServer(cfg, client.ServerB, nil)
		require.NoError(t, err)
		vA := NewVerifier(sA)
		vB := NewVerifier(sB)
		require.NoError(t, vA.SetData(pA, secret))
		require.NoError(t, vB.SetData(pB, secret))
		r1A, err := vA.Round1()
		require.NoError(t, err)
		r1B, err := vB.Round1()
		require.NoError(t, err)
		r2A, err := vA.Round2(r1A, r1B)
		require.NoError(t, err)
		r2B, err := vB.Round2(r1A, r1B)
		require.NoError(t, err)

		r2A.ShareOut = field.Zero().AddMod(r2A.ShareOut, one(), cfg.Modulus)

		valid, err := vA.Decide(r2A, r2B)
		require.NoError(t, err)
		require.False(t, valid)
	})
}
