package core

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAtlas(t *testing.T) {
	tests := []struct {
		name             string
		w, h, tw, th     uint32
		cols, rows, tile uint32
	}{
		{"square", 512, 512, 32, 32, 16, 16, 256},
		{"wide", 256, 64, 16, 16, 16, 4, 64},
		{"partial tiles dropped", 100, 70, 32, 32, 3, 2, 6},
		{"single", 48, 64, 48, 64, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAtlas(1, tt.w, tt.h, tt.tw, tt.th)
			require.NoError(t, err)
			assert.Equal(t, tt.cols, a.Cols)
			assert.Equal(t, tt.rows, a.Rows)
			assert.Equal(t, tt.tile, a.TileCount())
			assert.Equal(t, uint32(1), a.Index)
		})
	}

	_, err := NewAtlas(0, 64, 64, 0, 16)
	assert.True(t, errors.Is(err, ErrInvalidTileSize))
}

func TestAtlasInfoTable(t *testing.T) {
	table := NewAtlasInfoTable(4, 1024, 1024)
	require.Equal(t, 4, table.Len())

	for i := uint32(0); i < 4; i++ {
		assert.NotZero(t, table.Get(i).TileWidth)
	}

	a, err := NewAtlas(2, 512, 256, 32, 16)
	require.NoError(t, err)
	off := table.Set(a.Index, a.Info(1024, 1024))
	assert.Equal(t, uint64(64), off)

	buf := table.Bytes()
	require.Len(t, buf, 4*AtlasInfoSize)
	slot := buf[off : off+AtlasInfoSize]
	want := []uint32{512, 256, 32, 16, 1024, 1024, 0, 0}
	for i, v := range want {
		assert.Equal(t, v, binary.LittleEndian.Uint32(slot[i*4:]), "word %d", i)
	}
	assert.Equal(t, a.Info(1024, 1024).Bytes(), slot)

	// replacing the layer keeps only the latest record
	b, err := NewAtlas(2, 64, 64, 8, 8)
	require.NoError(t, err)
	table.Set(b.Index, b.Info(1024, 1024))
	assert.Equal(t, uint32(8), table.Get(2).TileWidth)
}
