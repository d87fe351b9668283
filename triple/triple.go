// Package triple constructs Beaver multiplication triples, the
// precomputed correlated randomness the verification protocol consumes
// to check a multiplicative relation without revealing either factor.
package triple

import (
	"fmt"

	"github.com/tuneinsight/prio/config"
	"github.com/tuneinsight/prio/field"
)

// Triple holds one server's share of a Beaver triple: (A, B, C) such
// that, across the two servers' shares, (a1+a2)*(b1+b2) = c1+c2 mod M.
type Triple struct {
	A *field.Elt
	B *field.Elt
	C *field.Elt
}

// SetRand populates tripleA and tripleB, the two servers' shares of a
// fresh random Beaver triple: sample a and b shares for both servers,
// compute the product (a1+a2)*(b1+b2) in the clear, then split that
// product into two new shares to serve as c1 and c2.
func SetRand(cfg *config.Config) (tripleA, tripleB *Triple, err error) {
	aA, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("triple: sampling a-share for server A: %w", err)
	}
	bA, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("triple: sampling b-share for server A: %w", err)
	}
	aB, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("triple: sampling a-share for server B: %w", err)
	}
	bB, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("triple: sampling b-share for server B: %w", err)
	}

	a := field.Zero().AddMod(aA, aB, cfg.Modulus)
	b := field.Zero().AddMod(bA, bB, cfg.Modulus)
	product := field.Zero().MulMod(a, b, cfg.Modulus)

	cB, err := field.RandInt(cfg.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("triple: sampling c-share for server B: %w", err)
	}
	cA := field.Zero().SubMod(product, cB, cfg.Modulus)

	return &Triple{A: aA, B: bA, C: cA}, &Triple{A: aB, B: bB, C: cB}, nil
}
