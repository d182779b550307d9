package simulation

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"lukechampine.com/blake3"
)

const HashLength = 32

type Hash [HashLength]byte

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

func (h Hash) String() string {
	enc := make([]byte, len(h[:])*2+2)
	copy(enc, "0x")
	hex.Encode(enc[2:], h[:])
	return string(enc)
}

func (h Hash) Bytes() []byte {
	return h[:]
}

// CellKey identifies one (alpha, gamma) cell of a sweep together with
// everything its outcome depends on when the cell is sampled from its own
// stream.
type CellKey struct {
	BaseSeed int64
	Alpha    float64
	Gamma    float64
	Events   int64
}

// Hash digests the key with blake3 over a fixed big endian layout.
func (k CellKey) Hash() (hash Hash) {
	var data [32]byte
	binary.BigEndian.PutUint64(data[0:], uint64(k.BaseSeed))
	binary.BigEndian.PutUint64(data[8:], math.Float64bits(k.Alpha))
	binary.BigEndian.PutUint64(data[16:], math.Float64bits(k.Gamma))
	binary.BigEndian.PutUint64(data[24:], uint64(k.Events))
	sum := blake3.Sum256(data[:])
	hash.SetBytes(sum[:])
	return hash
}

// Seed derives the sampler seed for the cell.
func (k CellKey) Seed() int64 {
	h := k.Hash()
	return int64(binary.BigEndian.Uint64(h[:8]))
}
