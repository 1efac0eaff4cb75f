package codec

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/sandwichlab/evaluator/pkg/types"
)

// FiveByteMetaData represents value = Mantissa << (8 * Exponent) in the
// compact 5-byte (4-byte mantissa, 1-byte exponent) format the production
// sandwich contract expects for general token amounts.
type FiveByteMetaData struct {
	Mantissa uint32
	Exponent uint8
}

// EncodeFiveByte finds the smallest exponent >= minExp such that value,
// right-shifted by 8*exponent bits, fits a uint32 mantissa, and returns the
// resulting metadata. The shift floors, so Decode(Encode(x, e)) <= x.
func EncodeFiveByte(value types.U256, minExp uint8) FiveByteMetaData {
	exp := minExp
	mantissa := shiftRightBytes(value, exp)
	for mantissa.BitLen() > 32 {
		exp++
		mantissa = shiftRightBytes(value, exp)
	}
	return FiveByteMetaData{Mantissa: uint32(mantissa.Uint64()), Exponent: exp}
}

func shiftRightBytes(value types.U256, exp uint8) *uint256.Int {
	return new(uint256.Int).Rsh(value, uint(exp)*8)
}

// Decode reconstructs value = Mantissa << (8 * Exponent).
func (m FiveByteMetaData) Decode() types.U256 {
	return new(uint256.Int).Lsh(uint256.NewInt(uint64(m.Mantissa)), uint(m.Exponent)*8)
}

// DecrementFourBytes subtracts one from the mantissa, saturating at zero.
// Used on V2 backruns to retain a dust safety margin so an off-by-one in
// reserve math cannot underflow the pool's balances.
func (m *FiveByteMetaData) DecrementFourBytes() {
	if m.Mantissa > 0 {
		m.Mantissa--
	}
}

// Bytes packs the metadata into its 5-byte wire form: 4-byte big-endian
// mantissa followed by the 1-byte exponent.
func (m FiveByteMetaData) Bytes() [5]byte {
	var out [5]byte
	binary.BigEndian.PutUint32(out[0:4], m.Mantissa)
	out[4] = m.Exponent
	return out
}

// DecodeFiveByteBytes is the pure decode from wire bytes to U256, built on
// Decode.
func DecodeFiveByteBytes(enc [5]byte) types.U256 {
	meta := FiveByteMetaData{
		Mantissa: binary.BigEndian.Uint32(enc[0:4]),
		Exponent: enc[4],
	}
	return meta.Decode()
}
