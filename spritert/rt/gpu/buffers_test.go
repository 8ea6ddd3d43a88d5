package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		current, needed, want uint64
	}{
		{0, 0, minBufferSize},
		{0, 72, minBufferSize},
		{0, 300, 512},
		{512, 512, 512},
		{512, 513, 1024},
		{1024, 72 * 100, 8192},
	}
	for _, tt := range tests {
		got := growCapacity(tt.current, tt.needed)
		assert.Equal(t, tt.want, got)
		assert.GreaterOrEqual(t, got, tt.needed)
		assert.Zero(t, got%4)
	}
}

func TestAlign4(t *testing.T) {
	assert.Equal(t, uint64(0), align4(0))
	assert.Equal(t, uint64(4), align4(1))
	assert.Equal(t, uint64(12), align4(12))
}
