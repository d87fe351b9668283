// Package server implements the per-server aggregation state and the
// SNIP verification protocol that lets two non-colluding servers reject
// malformed client submissions before folding them into the running sum.
package server

import (
	"fmt"

	"github.com/tuneinsight/prio/client"
	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/internal/farray"
	"github.com/tuneinsight/prio/internal/shareprng"
)

// Server accumulates one server's share of the running sum across many
// verified client submissions.
type Server struct {
	cfg        *config.Config
	idx        client.ServerID
	dataShares *farray.FieldArray

	// masterPRNG derives the per-packet shared secret both servers agree
	// on, given an explicit packet counter. It is nil when the server is
	// constructed without a master seed; that is only valid for callers
	// that drive Verifier with an explicit secret.
	masterPRNG *shareprng.MasterPRNG
}

// NewServer constructs an empty aggregation server for role idx. masterSeed
// is the secret shared out-of-band between servers A and B; pass nil to
// build a Server that cannot derive SecretForPacket itself (callers then
// supply the secret to Verifier.SetData directly).
func NewServer(cfg *config.Config, idx client.ServerID, masterSeed []byte) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		idx:        idx,
		dataShares: farray.New(cfg.NumDataFields),
	}
	if masterSeed != nil {
		m, err := shareprng.NewMasterPRNG(masterSeed)
		if err != nil {
			return nil, fmt.Errorf("server: constructing master PRNG: %w", err)
		}
		s.masterPRNG = m
	}
	return s, nil
}

// SecretForPacket derives the 20-byte shared secret for the client
// submission identified by counter. Both servers must be constructed
// with the same master seed and agree on the counter out of band.
func (s *Server) SecretForPacket(counter uint64) ([shareprng.SecretLen]byte, error) {
	var zero [shareprng.SecretLen]byte
	if s.masterPRNG == nil {
		return zero, fmt.Errorf("server: no master seed configured, cannot derive packet secret")
	}
	return s.masterPRNG.SecretForCounter(counter)
}

// Aggregate folds v's data share into s's running sum. Callers must only
// aggregate verifiers whose IsValid check has already passed.
func (s *Server) Aggregate(v *Verifier) error {
	arr, err := v.dataShareArray()
	if err != nil {
		return fmt.Errorf("server: aggregating: %w", err)
	}
	if err := s.dataShares.AddMod(arr, s.cfg.Modulus); err != nil {
		return fmt.Errorf("server: aggregating: %w", err)
	}
	return nil
}

// TotalShare is a server's share of the final aggregate, ready to be
// combined with the other server's TotalShare by TotalShareFinal.
type TotalShare struct {
	idx        client.ServerID
	dataShares *farray.FieldArray
}

// TotalShare snapshots s's current running sum.
func (s *Server) TotalShare() *TotalShare {
	return &TotalShare{idx: s.idx, dataShares: s.dataShares.Duplicate()}
}

// TotalShareFinal combines both servers' shares into the final per-field
// sums, truncating each reconstructed value to its low machine word.
// The truncation is safe since sums of Boolean values across any
// realistic population never approach the field modulus.
func TotalShareFinal(cfg *config.Config, tA, tB *TotalShare) ([]uint64, error) {
	if tA.idx != client.ServerA || tB.idx != client.ServerB {
		return nil, fmt.Errorf("server: TotalShareFinal requires one share from each server")
	}
	if tA.dataShares.Len() != cfg.NumDataFields || tA.dataShares.Len() != tB.dataShares.Len() {
		return nil, fmt.Errorf("server: TotalShareFinal length mismatch")
	}

	out := make([]uint64, cfg.NumDataFields)
	for i := 0; i < cfg.NumDataFields; i++ {
		sum := tA.dataShares.At(i).Copy()
		sum.AddMod(sum, tB.dataShares.At(i), cfg.Modulus)
		out[i] = sum.Big().Uint64()
	}
	return out, nil
}
