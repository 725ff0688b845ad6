package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBCDRoundTrip(t *testing.T) {
	for v := 0; v <= 59; v++ {
		encoded := EncodeBCD(v)
		assert.Equal(t, v, DecodeBCD(encoded), "value %d", v)
	}
}

func TestEncodeBCDKnownValues(t *testing.T) {
	assert.Equal(t, byte(0x00), EncodeBCD(0))
	assert.Equal(t, byte(0x09), EncodeBCD(9))
	assert.Equal(t, byte(0x10), EncodeBCD(10))
	assert.Equal(t, byte(0x59), EncodeBCD(59))
}

func TestDecodeBCDKnownValues(t *testing.T) {
	assert.Equal(t, 0, DecodeBCD(0x00))
	assert.Equal(t, 9, DecodeBCD(0x09))
	assert.Equal(t, 10, DecodeBCD(0x10))
	assert.Equal(t, 59, DecodeBCD(0x59))
}
