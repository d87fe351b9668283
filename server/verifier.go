package server

import (
	"fmt"

	"github.com/tuneinsight/prio/client"
	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/field"
	"github.com/tuneinsight/prio/fft"
	"github.com/tuneinsight/prio/internal/farray"
	"github.com/tuneinsight/prio/internal/shareprng"
)

// verifierState tracks how far a Verifier has progressed through the two
// round SNIP check, rejecting calls made out of order.
type verifierState int

const (
	stateCreated verifierState = iota
	stateDataSet
	stateRound1Sent
	stateRound2Sent
	stateDecided
)

// Verifier drives one server's side of the SNIP validity check for a
// single client submission.
type Verifier struct {
	cfg *config.Config
	idx client.ServerID

	packet *client.Packet

	// dataSharesB and hPointsB are only populated for ServerB, reconstructed
	// from the packet's PRG seed.
	dataSharesB *farray.FieldArray
	hPointsB    *farray.FieldArray

	shareFR *field.Elt
	shareGR *field.Elt
	shareHR *field.Elt

	state verifierState
}

// NewVerifier creates a Verifier bound to server s's role.
func NewVerifier(s *Server) *Verifier {
	return &Verifier{cfg: s.cfg, idx: s.idx}
}

// Verify1 is the first round message a server broadcasts to its peer.
type Verify1 struct {
	ShareD *field.Elt
	ShareE *field.Elt
}

// Verify2 is the second round message a server broadcasts to its peer.
type Verify2 struct {
	ShareOut *field.Elt
}

// SetData binds p to v, checking p was built for v's server role, and
// computes this server's shares of f(r), g(r), h(r) at the point r
// determined by secret.
func (v *Verifier) SetData(p *client.Packet, secret [shareprng.SecretLen]byte) error {
	if v.state != stateCreated {
		return fmt.Errorf("server: verifier already has data set")
	}
	if p.ForServer != v.idx {
		return fmt.Errorf("server: packet built for server %s, verifier is server %s", p.ForServer, v.idx)
	}

	N := config.NextPowerOfTwo(v.cfg.NumDataFields + 1)

	if v.idx == client.ServerA {
		if p.DataShares.Len() != v.cfg.NumDataFields {
			return fmt.Errorf("server: packet data share length %d does not match config (%d)", p.DataShares.Len(), v.cfg.NumDataFields)
		}
		if p.HPoints.Len() != N {
			return fmt.Errorf("server: packet h-point length %d does not match expected %d", p.HPoints.Len(), N)
		}
	} else {
		prgB, err := shareprng.New(p.Seed)
		if err != nil {
			return fmt.Errorf("server: constructing server B PRG: %w", err)
		}
		v.dataSharesB = farray.New(v.cfg.NumDataFields)
		if err := prgB.GetArray(v.dataSharesB, v.cfg.Modulus); err != nil {
			return fmt.Errorf("server: reconstructing data shares: %w", err)
		}
		v.hPointsB = farray.New(N)
		if err := prgB.GetArray(v.hPointsB, v.cfg.Modulus); err != nil {
			return fmt.Errorf("server: reconstructing h-point shares: %w", err)
		}
	}

	v.packet = p
	if err := v.computeShares(secret); err != nil {
		return fmt.Errorf("server: computing SNIP shares: %w", err)
	}
	v.state = stateDataSet
	return nil
}

// dataShare returns this server's share of data field i, whichever of
// the packet's own array or the PRG-reconstructed array backs it.
func (v *Verifier) dataShare(i int) *field.Elt {
	if v.idx == client.ServerA {
		return v.packet.DataShares.At(i)
	}
	return v.dataSharesB.At(i)
}

// hShare returns this server's share of the j-th compressed h-point.
func (v *Verifier) hShare(j int) *field.Elt {
	if v.idx == client.ServerA {
		return v.packet.HPoints.At(j)
	}
	return v.hPointsB.At(j)
}

func (v *Verifier) dataShareArray() (*farray.FieldArray, error) {
	if v.idx == client.ServerA {
		return v.packet.DataShares, nil
	}
	if v.dataSharesB == nil {
		return nil, fmt.Errorf("server: verifier has no data set")
	}
	return v.dataSharesB, nil
}

// computeShares builds this server's share of the points_f, points_g and
// points_h polynomials and evaluates each (via FFT interpolation) at the
// point r derived from secret.
//
// points_h is built with only the odd-indexed entries filled in from the
// client's compressed h-point shares; the even-indexed entries (other
// than index 0, which holds h(0)) are left at zero. Those positions
// correspond to the N-th roots of unity, which the protocol never needs
// an h-share at — only h(0) and h at the 2N-th roots that are not also
// N-th roots. Filling them in would not just be wasted work: it would
// require values the client never sent.
func (v *Verifier) computeShares(secret [shareprng.SecretLen]byte) error {
	n := v.cfg.NumDataFields + 1
	N := config.NextPowerOfTwo(n)

	evalAt := field.FromBytes(secret[:], v.cfg.Modulus)

	pointsF := farray.New(N)
	pointsG := farray.New(N)
	pointsH := farray.New(2 * N)

	pointsF.Set(0, v.packet.F0Share.Copy())
	pointsG.Set(0, v.packet.G0Share.Copy())
	pointsH.Set(0, v.packet.H0Share.Copy())

	for i := 1; i < n; i++ {
		dataI := v.dataShare(i - 1).Copy()
		pointsF.Set(i, dataI)

		g := dataI.Copy()
		if v.idx == client.ServerA {
			g.SubMod(g, field.NewMod(1, v.cfg.Modulus), v.cfg.Modulus)
		}
		pointsG.Set(i, g)
	}

	j := 0
	for i := 1; i < 2*N; i += 2 {
		pointsH.Set(i, v.hShare(j).Copy())
		j++
	}

	var err error
	v.shareFR, err = fft.InterpEvaluate(v.cfg, pointsF, evalAt)
	if err != nil {
		return fmt.Errorf("interpolating f: %w", err)
	}
	v.shareGR, err = fft.InterpEvaluate(v.cfg, pointsG, evalAt)
	if err != nil {
		return fmt.Errorf("interpolating g: %w", err)
	}
	v.shareHR, err = fft.InterpEvaluate(v.cfg, pointsH, evalAt)
	if err != nil {
		return fmt.Errorf("interpolating h: %w", err)
	}
	return nil
}

// Round1 computes this server's share of the Beaver-triple corrections
// d = f(r) - a and e = g(r) - b.
func (v *Verifier) Round1() (*Verify1, error) {
	if v.state != stateDataSet {
		return nil, fmt.Errorf("server: Round1 called out of order")
	}
	m := v.cfg.Modulus
	d := field.Zero().SubMod(v.shareFR, v.packet.Triple.A, m)
	e := field.Zero().SubMod(v.shareGR, v.packet.Triple.B, m)
	v.state = stateRound1Sent
	return &Verify1{ShareD: d, ShareE: e}, nil
}

// Round2 combines both servers' round 1 messages to compute this
// server's share of f(r)*g(r) - h(r) via the Beaver-triple identity
// [f(r)*g(r)] = d*e/2 + d*[b] + e*[a] + [c], where d and e are public
// after round 1 and each server takes half of the d*e term. The two
// output shares sum to zero exactly when f(r)*g(r) == h(r).
func (v *Verifier) Round2(p1A, p1B *Verify1) (*Verify2, error) {
	if v.state != stateRound1Sent {
		return nil, fmt.Errorf("server: Round2 called out of order")
	}
	m := v.cfg.Modulus

	d := field.Zero().AddMod(p1A.ShareD, p1B.ShareD, m)
	e := field.Zero().AddMod(p1A.ShareE, p1B.ShareE, m)

	out := field.Zero().MulMod(d, e, m)
	out.MulMod(out, field.FromBigInt(v.cfg.Inv2, m), m)

	tmp := field.Zero().MulMod(d, v.packet.Triple.B, m)
	out.AddMod(out, tmp, m)

	tmp.MulMod(e, v.packet.Triple.A, m)
	out.AddMod(out, tmp, m)

	out.AddMod(out, v.packet.Triple.C, m)
	out.SubMod(out, v.shareHR, m)

	v.state = stateRound2Sent
	return &Verify2{ShareOut: out}, nil
}

// IsValid reports whether the two servers' round 2 shares sum to zero,
// meaning f(r)*g(r) == h(r) and the submission is well-formed.
func IsValid(cfg *config.Config, pA, pB *Verify2) bool {
	sum := field.Zero().AddMod(pA.ShareOut, pB.ShareOut, cfg.Modulus)
	return sum.IsZero()
}

// Decide is IsValid with the verifier's own state advanced to its
// terminal Decided state, so a verifier cannot be fed into Round1 or
// Round2 again after a validity decision has been made.
func (v *Verifier) Decide(pA, pB *Verify2) (bool, error) {
	if v.state != stateRound2Sent {
		return false, fmt.Errorf("server: Decide called out of order")
	}
	valid := IsValid(v.cfg, pA, pB)
	v.state = stateDecided
	return valid, nil
}
