package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormByteRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		f := DecodeNorm(b)
		assert.Equal(t, b, EncodeNorm(f), "round trip failed for byte %d (decoded %v)", i, f)
	}
}

func TestNormDecodeMonotonic(t *testing.T) {
	var prev float32
	for i := 1; i < 256; i++ {
		f := DecodeNorm(byte(i))
		assert.GreaterOrEqual(t, f, prev)
		prev = f
	}
}

func TestNormZeroRoundTrips(t *testing.T) {
	assert.Equal(t, float32(0), DecodeNorm(0))
	assert.Equal(t, byte(0), EncodeNorm(0))
}
