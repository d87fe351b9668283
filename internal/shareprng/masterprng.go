package shareprng

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// SecretLen is SOUNDNESS_PARAM, the length in bytes of the shared secret
// the two servers derive to pick the SNIP evaluation point r.
const SecretLen = 20

// MasterPRNG is a clockable, keyed random generator derived from a
// long-lived master seed shared out-of-band by servers A and B. It is
// clocked forward once per client packet (identified by an explicit
// counter) to derive that packet's 20-byte shared secret; both servers
// derive identical secrets from identical seeds and counters.
type MasterPRNG struct {
	masterSeed []byte
}

// NewMasterPRNG constructs a MasterPRNG from a shared master seed.
func NewMasterPRNG(masterSeed []byte) (*MasterPRNG, error) {
	seedCopy := make([]byte, len(masterSeed))
	copy(seedCopy, masterSeed)
	return &MasterPRNG{masterSeed: seedCopy}, nil
}

// clockTo starts a fresh (unkeyed) blake2b state fed with the master seed and
// advances it counter+1 cycles, each cycle reseeding the state with the
// left half of the digest, and returns the right half of the final
// digest. Replaying from scratch on every call (rather than advancing
// shared mutable state) is what makes SecretForCounter safe to call out
// of order or more than once for the same counter.
func (m *MasterPRNG) clockTo(counter uint64) ([]byte, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, fmt.Errorf("shareprng: constructing master PRNG: %w", err)
	}
	h.Write(m.masterSeed)

	var digest []byte
	for i := uint64(0); i <= counter; i++ {
		digest = h.Sum(nil)
		h.Write(digest[:32])
	}
	return digest[32:], nil
}

// SecretForCounter deterministically derives the 20-byte shared secret
// for the client packet identified by counter. Both servers must agree on
// the counter for a given packet; the counter is supplied by the caller,
// not generated by MasterPRNG itself.
func (m *MasterPRNG) SecretForCounter(counter uint64) ([SecretLen]byte, error) {
	var out [SecretLen]byte

	state, err := m.clockTo(counter)
	if err != nil {
		return out, err
	}

	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)

	domainSeparated := make([]byte, 0, len(state)+len("prio-packet-secret")+len(counterBytes))
	domainSeparated = append(domainSeparated, state...)
	domainSeparated = append(domainSeparated, []byte("prio-packet-secret")...)
	domainSeparated = append(domainSeparated, counterBytes[:]...)

	digest := blake3.Sum256(domainSeparated)
	copy(out[:], digest[:SecretLen])
	return out, nil
}
