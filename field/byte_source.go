package field

// ByteSource is the single capability both the system CSPRNG and a seeded
// PRG need to expose so that RandIntRNG can drive rejection sampling from
// either one: fill dst with the next len(dst) pseudo/true-random bytes.
type ByteSource interface {
	ReadBytes(dst []byte) error
}
