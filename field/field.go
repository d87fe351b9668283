// Package field implements arithmetic on elements of the prime field used by
// the Prio protocol: arbitrary-precision non-negative integers reduced
// modulo a configured prime M.
package field

import (
	"fmt"
	"math/big"
)

// Elt is a field element: a non-negative integer, always kept reduced
// modulo its field's modulus.
type Elt struct {
	v big.Int
}

// New returns the element with value v, unreduced. v must already be a
// canonical field value; callers with arbitrary inputs want NewMod.
func New(v int64) *Elt {
	e := new(Elt)
	e.v.SetInt64(v)
	return e
}

// NewMod returns v reduced modulo m.
func NewMod(v int64, m *big.Int) *Elt {
	e := new(Elt)
	e.v.SetInt64(v)
	e.v.Mod(&e.v, m)
	return e
}

// Zero returns the additive identity.
func Zero() *Elt {
	return new(Elt)
}

// FromBigInt reduces v modulo m and returns it as a field element. v is not
// mutated.
func FromBigInt(v *big.Int, m *big.Int) *Elt {
	e := new(Elt)
	e.v.Mod(v, m)
	return e
}

// FromBytes interprets buf as a big-endian unsigned integer and reduces it
// modulo m.
func FromBytes(buf []byte, m *big.Int) *Elt {
	e := new(Elt)
	e.v.SetBytes(buf)
	e.v.Mod(&e.v, m)
	return e
}

// Copy returns a deep copy of e.
func (e *Elt) Copy() *Elt {
	out := new(Elt)
	out.v.Set(&e.v)
	return out
}

// Set sets the target to the value of src.
func (e *Elt) Set(src *Elt) *Elt {
	e.v.Set(&src.v)
	return e
}

// Big returns the underlying big.Int. Callers must not mutate the result.
func (e *Elt) Big() *big.Int {
	return &e.v
}

// String returns the decimal representation of e.
func (e *Elt) String() string {
	return e.v.String()
}

// IsZero reports whether e is the additive identity.
func (e *Elt) IsZero() bool {
	return e.v.Sign() == 0
}

// Equal reports whether e and o hold the same value.
func (e *Elt) Equal(o *Elt) bool {
	return e.v.Cmp(&o.v) == 0
}

// AddMod sets e = (a + b) mod m and returns e.
func (e *Elt) AddMod(a, b *Elt, m *big.Int) *Elt {
	e.v.Add(&a.v, &b.v)
	e.v.Mod(&e.v, m)
	return e
}

// SubMod sets e = (a - b) mod m and returns e.
func (e *Elt) SubMod(a, b *Elt, m *big.Int) *Elt {
	e.v.Sub(&a.v, &b.v)
	e.v.Mod(&e.v, m)
	return e
}

// MulMod sets e = (a * b) mod m and returns e.
func (e *Elt) MulMod(a, b *Elt, m *big.Int) *Elt {
	e.v.Mul(&a.v, &b.v)
	e.v.Mod(&e.v, m)
	return e
}

// InvMod sets e = a^-1 mod m and returns e. Panics if a is not invertible
// mod m (a is 0, or m is not prime and shares a factor with a) — this is a
// programmer error, not a runtime/input condition, since the field modulus
// is fixed and nonzero field elements are always invertible.
func (e *Elt) InvMod(a *Elt, m *big.Int) *Elt {
	if a.v.Sign() == 0 {
		panic(fmt.Errorf("field: cannot invert zero element"))
	}
	if e.v.ModInverse(&a.v, m) == nil {
		panic(fmt.Errorf("field: %s has no inverse mod %s", a.v.String(), m.String()))
	}
	return e
}

// ExpMod sets e = a^k mod m for a small non-negative exponent k.
func (e *Elt) ExpMod(a *Elt, k int64, m *big.Int) *Elt {
	e.v.Exp(&a.v, big.NewInt(k), m)
	return e
}

// ExpModBig sets e = a^k mod m for an arbitrary exponent k.
func (e *Elt) ExpModBig(a *Elt, k *big.Int, m *big.Int) *Elt {
	e.v.Exp(&a.v, k, m)
	return e
}

// NegMod sets e = (-a) mod m and returns e.
func (e *Elt) NegMod(a *Elt, m *big.Int) *Elt {
	e.v.Neg(&a.v)
	e.v.Mod(&e.v, m)
	return e
}

// FixedBytes returns e as a big-endian unsigned integer padded/truncated to
// exactly n bytes.
func (e *Elt) FixedBytes(n int) []byte {
	out := make([]byte, n)
	b := e.v.Bytes()
	if len(b) > n {
		b = b[len(b)-n:]
	}
	copy(out[n-len(b):], b)
	return out
}
