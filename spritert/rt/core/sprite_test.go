package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAtlas(t *testing.T) Atlas {
	t.Helper()
	// 512x512 sheet of 32px tiles: 16x16 grid
	a, err := NewAtlas(2, 512, 512, 32, 32)
	require.NoError(t, err)
	return a
}

func TestBuildSpriteTexIndices(t *testing.T) {
	atlas := testAtlas(t)

	tests := []struct {
		name string
		rect TileRect
		want []uint32
	}{
		{"single", TileRect{X: 3, Y: 0, W: 1, H: 1}, []uint32{3}},
		{"two by two", TileRect{X: 0, Y: 0, W: 2, H: 2}, []uint32{0, 1, 16, 17}},
		{"row", TileRect{X: 4, Y: 2, W: 3, H: 1}, []uint32{36, 37, 38}},
		{"column", TileRect{X: 15, Y: 13, W: 1, H: 3}, []uint32{223, 239, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := BuildSprite(mgl32.Vec2{0, 0}, atlas, tt.rect, mgl32.Vec2{1, 1})
			require.NoError(t, err)
			require.Len(t, s.Instances, int(tt.rect.W*tt.rect.H))

			got := make([]uint32, len(s.Instances))
			for i, in := range s.Instances {
				got[i] = in.TexIndex
				assert.Equal(t, atlas.Index, in.AtlasIndex)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSpriteRejectsInvalidRect(t *testing.T) {
	atlas := testAtlas(t)

	rects := []TileRect{
		{X: 0, Y: 0, W: 0, H: 1},
		{X: 0, Y: 0, W: 1, H: 0},
		{X: 15, Y: 0, W: 2, H: 1},
		{X: 0, Y: 16, W: 1, H: 1},
		{X: 0xFFFFFFFF, Y: 0, W: 2, H: 1},
	}
	for _, r := range rects {
		s, err := BuildSprite(mgl32.Vec2{}, atlas, r, mgl32.Vec2{1, 1})
		assert.Nil(t, s, r.String())
		assert.True(t, errors.Is(err, ErrInvalidTileRect), r.String())
	}
}

func TestBuildSpritePlacement(t *testing.T) {
	atlas := testAtlas(t)
	s, err := BuildSprite(mgl32.Vec2{100, 50}, atlas, TileRect{X: 0, Y: 0, W: 2, H: 2}, mgl32.Vec2{2, 1})
	require.NoError(t, err)

	// tile centres: x = 100 + (col*32+16)*2, y = -50 - (row*32+16)
	want := []mgl32.Vec2{
		{132, -66}, {196, -66},
		{132, -98}, {196, -98},
	}
	for i, in := range s.Instances {
		c := in.Model.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		assert.InDelta(t, want[i].X(), c.X(), 1e-4, "x of %d", i)
		assert.InDelta(t, want[i].Y(), c.Y(), 1e-4, "y of %d", i)

		// a unit quad corner lands half a scaled tile away
		corner := in.Model.Mul4x1(mgl32.Vec4{0.5, 0.5, 0, 1})
		assert.InDelta(t, c.X()+32, corner.X(), 1e-4)
		assert.InDelta(t, c.Y()+16, corner.Y(), 1e-4)
	}

	// lower tile rows sit lower in world space
	assert.Less(t, s.Instances[2].Model[13], s.Instances[0].Model[13])

	lo, hi := s.Bounds()
	assert.Equal(t, mgl32.Vec2{100, -114}, lo)
	assert.Equal(t, mgl32.Vec2{228, -50}, hi)
	assert.Equal(t, mgl32.Vec2{164, -82}, s.Center())
}

func TestUpdatePositionIdempotent(t *testing.T) {
	atlas := testAtlas(t)
	s, err := BuildSprite(mgl32.Vec2{0, 0}, atlas, TileRect{X: 1, Y: 1, W: 3, H: 2}, mgl32.Vec2{1, 1})
	require.NoError(t, err)
	texBefore := make([]uint32, len(s.Instances))
	for i, in := range s.Instances {
		texBefore[i] = in.TexIndex
	}

	s.UpdatePosition(mgl32.Vec2{40, 12})
	first := EncodeInstances(s.Instances)
	s.UpdatePosition(mgl32.Vec2{40, 12})
	second := EncodeInstances(s.Instances)
	assert.True(t, bytes.Equal(first, second))

	for i, in := range s.Instances {
		assert.Equal(t, texBefore[i], in.TexIndex)
		assert.Equal(t, atlas.Index, in.AtlasIndex)
	}

	// moving back reproduces a freshly built sprite
	fresh, err := BuildSprite(mgl32.Vec2{7, 9}, atlas, s.Rect, s.Scale)
	require.NoError(t, err)
	s.UpdatePosition(mgl32.Vec2{7, 9})
	assert.Equal(t, EncodeInstances(fresh.Instances), EncodeInstances(s.Instances))
}

func TestSpriteSurvivesLayerUpdate(t *testing.T) {
	atlas := testAtlas(t)
	s, err := BuildSprite(mgl32.Vec2{}, atlas, TileRect{X: 0, Y: 0, W: 4, H: 4}, mgl32.Vec2{1, 1})
	require.NoError(t, err)

	// the layer is hot-swapped for a smaller sheet with a different tile size
	swapped, err := NewAtlas(atlas.Index, 128, 64, 16, 16)
	require.NoError(t, err)

	assert.Equal(t, atlas.Index, swapped.Index)
	for _, in := range s.Instances {
		assert.Equal(t, swapped.Index, in.AtlasIndex)
		assert.Less(t, in.TexIndex, atlas.TileCount())
	}
}
