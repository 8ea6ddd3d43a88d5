package gpu

import (
	"errors"
	"testing"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankImage(w, h uint32) *texture.ImageData {
	return &texture.ImageData{Width: w, Height: h, Pixels: make([]byte, w*h*4)}
}

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name   string
		img    *texture.ImageData
		tw, th uint32
		want   error
	}{
		{"fits", blankImage(256, 128), 16, 16, nil},
		{"exact", blankImage(1024, 1024), 32, 32, nil},
		{"too wide", blankImage(1025, 16), 16, 16, core.ErrImageTooLarge},
		{"too tall", blankImage(16, 2048), 16, 16, core.ErrImageTooLarge},
		{"zero tile", blankImage(16, 16), 0, 16, core.ErrInvalidTileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkImage(tt.img, 1024, 1024, tt.tw, tt.th)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), err)
		})
	}

	short := &texture.ImageData{Width: 4, Height: 4, Pixels: make([]byte, 10)}
	assert.Error(t, checkImage(short, 1024, 1024, 1, 1))
	assert.Error(t, checkImage(nil, 1024, 1024, 1, 1))
}

type fakeUploader struct {
	layers  []uint32
	offsets []uint64
	infos   []core.AtlasInfo
	failOn  map[uint32]error
}

func (f *fakeUploader) uploadLayer(layer uint32, img *texture.ImageData) error {
	if err := f.failOn[layer]; err != nil {
		return err
	}
	f.layers = append(f.layers, layer)
	return nil
}

func (f *fakeUploader) uploadInfo(offset uint64, info core.AtlasInfo) {
	f.offsets = append(f.offsets, offset)
	f.infos = append(f.infos, info)
}

// newTestStore builds an AtlasStore whose uploads are recorded instead of
// reaching a device.
func newTestStore(layers uint32) (*AtlasStore, *fakeUploader) {
	up := &fakeUploader{failOn: map[uint32]error{}}
	return &AtlasStore{
		arena:       NewLayerArena(layers),
		infos:       core.NewAtlasInfoTable(layers, 256, 256),
		layerWidth:  256,
		layerHeight: 256,
		uploader:    up,
	}, up
}

func TestAtlasStoreLoadsInLayerOrder(t *testing.T) {
	s, up := newTestStore(4)

	for i, w := range []uint32{64, 128, 32} {
		atlas, err := s.LoadImage(blankImage(w, 64), 16, 16)
		require.NoError(t, err)
		assert.Equal(t, uint32(i), atlas.Index)
		assert.Equal(t, w/16, atlas.Cols)
	}

	assert.Equal(t, []uint32{0, 1, 2}, up.layers)
	assert.Equal(t, []uint64{0, core.AtlasInfoSize, 2 * core.AtlasInfoSize}, up.offsets)
	assert.Equal(t, uint32(3), s.Allocated())
	assert.Equal(t, uint32(128), s.Info(1).AtlasWidth)
	assert.Equal(t, uint32(256), s.Info(1).TextureWidth)
}

func TestAtlasStoreRejectedImageKeepsLayer(t *testing.T) {
	s, up := newTestStore(2)

	_, err := s.LoadImage(blankImage(512, 16), 16, 16)
	assert.True(t, errors.Is(err, core.ErrImageTooLarge), err)
	_, err = s.LoadImage(blankImage(16, 16), 0, 16)
	assert.True(t, errors.Is(err, core.ErrInvalidTileSize), err)
	assert.Equal(t, uint32(0), s.Allocated())
	assert.Empty(t, up.layers)

	atlas, err := s.LoadImage(blankImage(16, 16), 16, 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), atlas.Index)
}

func TestAtlasStoreFailedUploadKeepsLayer(t *testing.T) {
	s, up := newTestStore(2)
	up.failOn[0] = errors.New("queue lost")

	_, err := s.LoadImage(blankImage(16, 16), 16, 16)
	require.Error(t, err)
	assert.Equal(t, uint32(0), s.Allocated())
	assert.Empty(t, up.infos, "no AtlasInfo for a layer that never got pixels")

	delete(up.failOn, 0)
	atlas, err := s.LoadImage(blankImage(16, 16), 16, 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), atlas.Index)
}

func TestAtlasStoreBudgetExhausted(t *testing.T) {
	s, _ := newTestStore(1)
	_, err := s.LoadImage(blankImage(16, 16), 16, 16)
	require.NoError(t, err)

	_, err = s.LoadImage(blankImage(16, 16), 16, 16)
	assert.True(t, errors.Is(err, core.ErrLayerBudgetExhausted), err)
}

func TestAtlasStoreUpdateTexture(t *testing.T) {
	s, up := newTestStore(4)
	_, err := s.UpdateTexture(0, blankImage(16, 16), 16, 16)
	assert.True(t, errors.Is(err, core.ErrLayerNotAllocated), err)

	for i := 0; i < 3; i++ {
		_, err := s.LoadImage(blankImage(64, 64), 16, 16)
		require.NoError(t, err)
	}

	atlas, err := s.UpdateTexture(2, blankImage(128, 32), 8, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), atlas.Index)
	assert.Equal(t, uint32(16), atlas.Cols)
	assert.Equal(t, uint32(4), atlas.Rows)
	assert.Equal(t, uint32(3), s.Allocated(), "update does not allocate")
	assert.Equal(t, uint32(8), s.Info(2).TileWidth)
	assert.Equal(t, uint32(16), s.Info(1).TileWidth, "other layers untouched")
	assert.Equal(t, uint64(2*core.AtlasInfoSize), up.offsets[len(up.offsets)-1])

	_, err = s.UpdateTexture(3, blankImage(16, 16), 16, 16)
	assert.True(t, errors.Is(err, core.ErrLayerNotAllocated), err)
}
