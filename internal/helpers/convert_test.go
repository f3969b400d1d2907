package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampIntToUint16(t *testing.T) {
	assert.Equal(t, uint16(0), ClampIntToUint16(-5))
	assert.Equal(t, uint16(0), ClampIntToUint16(0))
	assert.Equal(t, uint16(1234), ClampIntToUint16(1234))
	assert.Equal(t, uint16(math.MaxUint16), ClampIntToUint16(math.MaxUint16))
	assert.Equal(t, uint16(math.MaxUint16), ClampIntToUint16(math.MaxUint16+1))
}

func TestClampInt64ToInt(t *testing.T) {
	assert.Equal(t, 1, ClampInt64ToInt(-10, 1, 100))
	assert.Equal(t, 50, ClampInt64ToInt(50, 1, 100))
	assert.Equal(t, 100, ClampInt64ToInt(math.MaxInt64, 1, 100))
}
