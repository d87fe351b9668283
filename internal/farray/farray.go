// Package farray implements FieldArray, a dynamically sized, indexable
// sequence of field elements with the add-mod, duplicate, resize, and
// share-split operations the Prio protocol needs.
package farray

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"

	"github.com/tuneinsight/prio/field"
)

// FieldArray is an ordered, mutable, resizable sequence of field elements.
type FieldArray struct {
	data []*field.Elt
}

// New returns a FieldArray of length n, every entry zero-initialised.
func New(n int) *FieldArray {
	a := &FieldArray{data: make([]*field.Elt, n)}
	for i := range a.data {
		a.data[i] = field.Zero()
	}
	return a
}

// FromBools returns a FieldArray of the same length as bits, with each
// entry set to 0 or 1.
func FromBools(bits []bool) *FieldArray {
	a := New(len(bits))
	for i, b := range bits {
		if b {
			a.data[i] = field.New(1)
		}
	}
	return a
}

// FromInts returns a FieldArray holding vals reduced mod m, accepting any
// machine-integer element type.
func FromInts[T constraints.Integer](vals []T, m *big.Int) *FieldArray {
	a := New(len(vals))
	for i, v := range vals {
		a.data[i] = field.NewMod(int64(v), m)
	}
	return a
}

// Len returns the number of elements.
func (a *FieldArray) Len() int {
	return len(a.data)
}

// At returns the element at index i. The caller may mutate it in place.
func (a *FieldArray) At(i int) *field.Elt {
	return a.data[i]
}

// Set replaces the element at index i.
func (a *FieldArray) Set(i int, v *field.Elt) {
	a.data[i] = v
}

// Duplicate returns a deep copy of a.
func (a *FieldArray) Duplicate() *FieldArray {
	out := New(a.Len())
	for i, v := range a.data {
		out.data[i] = v.Copy()
	}
	return out
}

// Resize grows or shrinks a to newLen in place. Growth zero-initialises
// the new entries; shrinking keeps the prefix and drops the tail.
func (a *FieldArray) Resize(newLen int) {
	oldLen := len(a.data)
	if newLen <= oldLen {
		a.data = a.data[:newLen]
		return
	}
	grown := make([]*field.Elt, newLen)
	copy(grown, a.data)
	for i := oldLen; i < newLen; i++ {
		grown[i] = field.Zero()
	}
	a.data = grown
}

// AddMod adds to element-wise into a (mod m): a[i] = (a[i] + other[i]) mod m.
func (a *FieldArray) AddMod(other *FieldArray, m *big.Int) error {
	if a.Len() != other.Len() {
		return fmt.Errorf("farray: length mismatch in AddMod: %d != %d", a.Len(), other.Len())
	}
	for i := range a.data {
		a.data[i].AddMod(a.data[i], other.data[i], m)
	}
	return nil
}

// ShareSplit returns (shareA, shareB) such that shareA[i] + shareB[i] =
// a[i] (mod m) for every i, with shareA sampled uniformly and shareB the
// remainder.
func (a *FieldArray) ShareSplit(m *big.Int) (shareA, shareB *FieldArray, err error) {
	shareA = New(a.Len())
	shareB = New(a.Len())
	for i, v := range a.data {
		sA, err := field.RandInt(m)
		if err != nil {
			return nil, nil, fmt.Errorf("farray: sharing element %d: %w", i, err)
		}
		shareA.data[i] = sA
		shareB.data[i] = field.Zero().SubMod(v, sA, m)
	}
	return shareA, shareB, nil
}

// Slice returns the underlying elements. Callers must not retain the slice
// across a Resize.
func (a *FieldArray) Slice() []*field.Elt {
	return a.data
}
