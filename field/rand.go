package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// systemRNG adapts crypto/rand.Reader to the ByteSource capability.
type systemRNG struct{}

func (systemRNG) ReadBytes(dst []byte) error {
	_, err := rand.Read(dst)
	return err
}

// SystemRNG is the default cryptographic byte source, backed by
// crypto/rand.
var SystemRNG ByteSource = systemRNG{}

// msbMask returns the smallest all-ones mask covering every set bit of b,
// i.e. the mask needed to discard the high-order zero bits of a byte when
// rejection-sampling.
func msbMask(b byte) byte {
	var mask byte
	for (b & mask) != b {
		mask = (mask << 1) + 1
	}
	return mask
}

// RandInt samples a uniformly distributed field element in [0, max) using
// the system CSPRNG.
func RandInt(max *big.Int) (*Elt, error) {
	return RandIntRNG(max, SystemRNG)
}

// RandIntRNG is identical to RandInt but draws its randomness from the
// caller-supplied byte source, which lets a seeded PRG drive the same
// rejection-sampling skeleton deterministically.
func RandIntRNG(max *big.Int, src ByteSource) (*Elt, error) {
	if max.Sign() <= 0 {
		return nil, fmt.Errorf("field: rand_int requires a positive modulus, got %s", max.String())
	}

	boundary := new(big.Int).Sub(max, big.NewInt(1))
	nbytes := (boundary.BitLen() + 7) / 8
	if nbytes == 0 {
		nbytes = 1
	}

	boundaryBytes := make([]byte, nbytes)
	b := boundary.Bytes()
	copy(boundaryBytes[nbytes-len(b):], b)
	mask := msbMask(boundaryBytes[0])

	buf := make([]byte, nbytes)
	out := new(big.Int)
	for {
		if err := src.ReadBytes(buf); err != nil {
			return nil, fmt.Errorf("field: reading random bytes: %w", err)
		}
		buf[0] &= mask
		out.SetBytes(buf)
		if out.Cmp(max) < 0 {
			break
		}
	}

	e := new(Elt)
	e.v.Set(out)
	return e, nil
}
