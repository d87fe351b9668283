// Package shareprng implements the two pseudorandom generators the Prio
// protocol needs: a client-facing AES-128-CTR keystream (PRG) used to
// compress server B's packet shares into a 16-byte seed, and a
// server-facing clockable generator (MasterPRNG) used to derive
// per-packet shared secrets from a long-lived master seed.
package shareprng

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"math/big"

	"github.com/tuneinsight/prio/field"
)

// SeedLen is the length in bytes of a PRG seed.
const SeedLen = 16

// Seed is an opaque PRG seed: generated freshly per client packet, embedded
// into server B's packet, and re-expanded deterministically at validation
// time.
type Seed [SeedLen]byte

// NewSeed draws a fresh random seed from the system CSPRNG.
func NewSeed() (Seed, error) {
	var s Seed
	if err := field.SystemRNG.ReadBytes(s[:]); err != nil {
		return Seed{}, fmt.Errorf("shareprng: generating seed: %w", err)
	}
	return s, nil
}

// PRG is an AES-128-CTR keystream generator seeded with a 16-byte key and
// a zero IV. Two PRGs built from the same seed produce bit-identical
// output, which is what lets server B reconstruct the shares the client
// derived from the seed embedded in its packet.
type PRG struct {
	stream cipher.Stream
}

// New constructs a PRG from a seed.
func New(seed Seed) (*PRG, error) {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, fmt.Errorf("shareprng: constructing AES cipher: %w", err)
	}
	zeroIV := make([]byte, aes.BlockSize)
	return &PRG{stream: cipher.NewCTR(block, zeroIV)}, nil
}

// ReadBytes fills dst with the next len(dst) bytes of the keystream. PRG
// implements field.ByteSource so it can drive field.RandIntRNG directly.
func (p *PRG) ReadBytes(dst []byte) error {
	for i := range dst {
		dst[i] = 0
	}
	p.stream.XORKeyStream(dst, dst)
	return nil
}

// GetBytes returns the next n bytes of the keystream.
func (p *PRG) GetBytes(n int) []byte {
	buf := make([]byte, n)
	_ = p.ReadBytes(buf)
	return buf
}

// GetInt samples a uniform field element in [0, max) driven by this PRG's
// keystream.
func (p *PRG) GetInt(max *big.Int) (*field.Elt, error) {
	e, err := field.RandIntRNG(max, p)
	if err != nil {
		return nil, fmt.Errorf("shareprng: PRG_get_int: %w", err)
	}
	return e, nil
}

// ShareInt derives server A's additive share of src given that server B's
// share is implicitly this PRG's next sampled value: shareA = (src -
// GetInt(m)) mod m.
func (p *PRG) ShareInt(src *field.Elt, m *big.Int) (*field.Elt, error) {
	bShare, err := p.GetInt(m)
	if err != nil {
		return nil, err
	}
	return field.Zero().SubMod(src, bShare, m), nil
}
