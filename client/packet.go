// Package client builds the pair of secret-shared packets a Prio client
// sends to the two non-colluding servers: a share of the raw Boolean
// data plus a share of the SNIP proof polynomials that let the servers
// jointly check the data was well-formed without ever reconstructing it.
package client

import (
	"fmt"

	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/field"
	"github.com/tuneinsight/prio/fft"
	"github.com/tuneinsight/prio/internal/farray"
	"github.com/tuneinsight/prio/internal/shareprng"
	"github.com/tuneinsight/prio/triple"
)

// ServerID identifies which of the two non-colluding servers a packet or
// verifier belongs to. By convention server A is the one that applies the
// -1 shift when rebuilding its share of g(i) = x_i - 1 (see computeShares
// in the server package); only one server may shift or the shares no
// longer sum to the cleartext value.
type ServerID int

const (
	ServerA ServerID = iota
	ServerB
)

func (id ServerID) String() string {
	if id == ServerA {
		return "A"
	}
	return "B"
}

// Packet is one server's share of a client submission. ForServer records
// which server it was built for, so a verifier can refuse a packet meant
// for its peer; the DataShares/HPoints fields are only populated for
// ServerA, and Seed only for ServerB.
type Packet struct {
	ForServer ServerID
	Triple    *triple.Triple

	F0Share *field.Elt
	G0Share *field.Elt
	H0Share *field.Elt

	// DataShares and HPoints are set only when ForServer == ServerA.
	DataShares *farray.FieldArray
	HPoints    *farray.FieldArray

	// Seed is set only when ForServer == ServerB: server B's data and
	// h-point shares are reconstructed by clocking a PRG from this seed
	// instead of being sent explicitly, compressing the wire packet.
	Seed shareprng.Seed
}

// NewPacketPair builds the two servers' packets for one client
// submission of Boolean values. len(dataIn) must equal cfg.NumDataFields.
func NewPacketPair(cfg *config.Config, dataIn []bool) (pA, pB *Packet, err error) {
	if len(dataIn) != cfg.NumDataFields {
		return nil, nil, fmt.Errorf("client: data length %d does not match config (%d fields)", len(dataIn), cfg.NumDataFields)
	}

	tripleA, tripleB, err := triple.SetRand(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("client: generating Beaver triple: %w", err)
	}

	seedB, err := shareprng.NewSeed()
	if err != nil {
		return nil, nil, fmt.Errorf("client: generating server B seed: %w", err)
	}
	prgB, err := shareprng.New(seedB)
	if err != nil {
		return nil, nil, fmt.Errorf("client: constructing server B PRG: %w", err)
	}

	clientData := farray.FromBools(dataIn)

	dataSharesA := farray.New(len(dataIn))
	if err := prgB.ShareArray(dataSharesA, clientData, cfg.Modulus); err != nil {
		return nil, nil, fmt.Errorf("client: sharing data array: %w", err)
	}

	f0A, f0B, g0A, g0B, h0A, h0B, hPointsA, err := sharePolynomials(cfg, clientData, prgB)
	if err != nil {
		return nil, nil, fmt.Errorf("client: sharing SNIP polynomials: %w", err)
	}

	pA = &Packet{
		ForServer:  ServerA,
		Triple:     tripleA,
		F0Share:    f0A,
		G0Share:    g0A,
		H0Share:    h0A,
		DataShares: dataSharesA,
		HPoints:    hPointsA,
	}
	pB = &Packet{
		ForServer: ServerB,
		Triple:    tripleB,
		F0Share:   f0B,
		G0Share:   g0B,
		H0Share:   h0B,
		Seed:      seedB,
	}
	return pA, pB, nil
}

// shareSplit performs the plain (non-PRG) single-element secret split
// used for f(0), g(0) and h(0): share A is uniform, share B is the
// difference.
func shareSplit(cfg *config.Config, v *field.Elt) (shareA, shareB *field.Elt, err error) {
	shareA, err = field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, err
	}
	shareB = field.Zero().SubMod(v, shareA, cfg.Modulus)
	return shareA, shareB, nil
}

// dataPolynomialEvals builds the unique degree-(N-1) polynomial f with
// f(0) chosen at random and f(i) = dataIn[i-1] for i in [1, n), N being
// n rounded up to a power of two, then evaluates f at all 2N-th roots of
// unity.
func dataPolynomialEvals(cfg *config.Config, dataIn *farray.FieldArray) (evals *farray.FieldArray, constTerm *field.Elt, err error) {
	mulGates := cfg.NumDataFields
	n := mulGates + 1
	N := config.NextPowerOfTwo(n)

	pointsF := farray.New(N)

	f0, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("client: sampling constant term: %w", err)
	}
	pointsF.Set(0, f0)

	for i := 1; i < n; i++ {
		pointsF.Set(i, dataIn.At(i-1).Copy())
	}

	polyF, err := fft.Transform(cfg, pointsF, true)
	if err != nil {
		return nil, nil, fmt.Errorf("client: interpolating through N-th roots: %w", err)
	}

	polyF.Resize(2 * N)

	evals, err = fft.Transform(cfg, polyF, false)
	if err != nil {
		return nil, nil, fmt.Errorf("client: evaluating at 2N-th roots: %w", err)
	}
	return evals, f0, nil
}

// sharePolynomials builds the f, g, h proof polynomials from clientData,
// splits their constant terms for both servers, and compresses server
// B's h-point shares via prgB.
func sharePolynomials(cfg *config.Config, clientData *farray.FieldArray, prgB *shareprng.PRG) (f0A, f0B, g0A, g0B, h0A, h0B *field.Elt, hPointsA *farray.FieldArray, err error) {
	m := cfg.Modulus
	one := field.NewMod(1, m)

	pointsG := clientData.Duplicate()
	for i := 0; i < pointsG.Len(); i++ {
		pointsG.Set(i, field.Zero().SubMod(pointsG.At(i), one, m))
	}

	evalsF, f0, err := dataPolynomialEvals(cfg, clientData)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("building f polynomial: %w", err)
	}
	evalsG, g0, err := dataPolynomialEvals(cfg, pointsG)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("building g polynomial: %w", err)
	}

	f0A, f0B, err = shareSplit(cfg, f0)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("sharing f(0): %w", err)
	}
	g0A, g0B, err = shareSplit(cfg, g0)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("sharing g(0): %w", err)
	}

	h0 := field.Zero().MulMod(f0, g0, m)
	h0A, h0B, err = shareSplit(cfg, h0)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("sharing h(0): %w", err)
	}

	lenN := evalsF.Len() / 2
	hPointsA = farray.New(lenN)

	j := 0
	for i := 1; i < evalsF.Len(); i += 2 {
		hVal := field.Zero().MulMod(evalsF.At(i), evalsG.At(i), m)
		share, err := prgB.ShareInt(hVal, m)
		if err != nil {
			return nil, nil, nil, nil, nil, nil, nil, fmt.Errorf("compressing h-point %d: %w", j, err)
		}
		hPointsA.Set(j, share)
		j++
	}

	return f0A, f0B, g0A, g0B, h0A, h0B, hPointsA, nil
}
