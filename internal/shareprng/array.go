package shareprng

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/prio/internal/farray"
)

// GetArray fills every entry of dst with a fresh uniform sample in [0, m)
// drawn from the PRG's keystream.
func (p *PRG) GetArray(dst *farray.FieldArray, m *big.Int) error {
	for i := 0; i < dst.Len(); i++ {
		v, err := p.GetInt(m)
		if err != nil {
			return fmt.Errorf("shareprng: PRG_get_array at index %d: %w", i, err)
		}
		dst.Set(i, v)
	}
	return nil
}

// ShareArray computes server A's share array given src's cleartext values
// and this PRG standing in for server B's share generator: shareA[i] =
// (src[i] - GetInt(m)) mod m.
func (p *PRG) ShareArray(shareA, src *farray.FieldArray, m *big.Int) error {
	if shareA.Len() != src.Len() {
		return fmt.Errorf("shareprng: ShareArray length mismatch: %d != %d", shareA.Len(), src.Len())
	}
	for i := 0; i < src.Len(); i++ {
		v, err := p.ShareInt(src.At(i), m)
		if err != nil {
			return fmt.Errorf("shareprng: ShareArray at index %d: %w", i, err)
		}
		shareA.Set(i, v)
	}
	return nil
}
