package core

import (
	"encoding/binary"
	"fmt"
)

// Atlas describes one image loaded into a single texture-array layer, cut
// into a grid of fixed-size tiles. It is a value type: hot-swapping a layer
// produces a new Atlas with the same Index.
type Atlas struct {
	Cols          uint32
	Rows          uint32
	TileWidth     uint32
	TileHeight    uint32
	TextureWidth  uint32
	TextureHeight uint32
	Index         uint32
}

// NewAtlas derives the tile grid of an image of the given size.
func NewAtlas(index, width, height, tileWidth, tileHeight uint32) (Atlas, error) {
	if tileWidth == 0 || tileHeight == 0 {
		return Atlas{}, fmt.Errorf("atlas %d: %w", index, ErrInvalidTileSize)
	}
	return Atlas{
		Cols:          width / tileWidth,
		Rows:          height / tileHeight,
		TileWidth:     tileWidth,
		TileHeight:    tileHeight,
		TextureWidth:  width,
		TextureHeight: height,
		Index:         index,
	}, nil
}

func (a Atlas) String() string {
	return fmt.Sprintf("Atlas(cols: %d, rows: %d, tile: %dx%d, texture: %dx%d, index: %d)",
		a.Cols, a.Rows, a.TileWidth, a.TileHeight, a.TextureWidth, a.TextureHeight, a.Index)
}

// TileCount is the number of addressable tiles.
func (a Atlas) TileCount() uint32 {
	return a.Cols * a.Rows
}

// Contains reports whether r lies entirely inside the tile grid.
func (a Atlas) Contains(r TileRect) bool {
	if r.W == 0 || r.H == 0 {
		return false
	}
	// compare in uint64 so X+W cannot wrap
	return uint64(r.X)+uint64(r.W) <= uint64(a.Cols) &&
		uint64(r.Y)+uint64(r.H) <= uint64(a.Rows)
}

// Info returns the shader-side record for this atlas on a layer of the given size.
func (a Atlas) Info(layerWidth, layerHeight uint32) AtlasInfo {
	return AtlasInfo{
		AtlasWidth:    a.TextureWidth,
		AtlasHeight:   a.TextureHeight,
		TileWidth:     a.TileWidth,
		TileHeight:    a.TileHeight,
		TextureWidth:  layerWidth,
		TextureHeight: layerHeight,
	}
}

// AtlasInfoSize is the std140 size of one AtlasInfo entry (six u32 plus two pad words).
const AtlasInfoSize = 32

// AtlasInfo mirrors the WGSL AtlasInfo struct. TextureWidth/TextureHeight are
// the dimensions of a whole array layer, used to normalise UVs.
type AtlasInfo struct {
	AtlasWidth    uint32
	AtlasHeight   uint32
	TileWidth     uint32
	TileHeight    uint32
	TextureWidth  uint32
	TextureHeight uint32
}

// PutBytes writes the 32-byte GPU layout into dst.
func (i AtlasInfo) PutBytes(dst []byte) {
	_ = dst[AtlasInfoSize-1]
	binary.LittleEndian.PutUint32(dst[0:], i.AtlasWidth)
	binary.LittleEndian.PutUint32(dst[4:], i.AtlasHeight)
	binary.LittleEndian.PutUint32(dst[8:], i.TileWidth)
	binary.LittleEndian.PutUint32(dst[12:], i.TileHeight)
	binary.LittleEndian.PutUint32(dst[16:], i.TextureWidth)
	binary.LittleEndian.PutUint32(dst[20:], i.TextureHeight)
	binary.LittleEndian.PutUint32(dst[24:], 0)
	binary.LittleEndian.PutUint32(dst[28:], 0)
}

func (i AtlasInfo) Bytes() []byte {
	buf := make([]byte, AtlasInfoSize)
	i.PutBytes(buf)
	return buf
}

// AtlasInfoTable is the fixed-length array uploaded as one uniform buffer.
type AtlasInfoTable struct {
	infos []AtlasInfo
}

// NewAtlasInfoTable creates a table with one zeroed slot per layer.
// Unused slots carry the layer size so the shader never divides by zero.
func NewAtlasInfoTable(layers, layerWidth, layerHeight uint32) *AtlasInfoTable {
	infos := make([]AtlasInfo, layers)
	for i := range infos {
		infos[i] = AtlasInfo{
			TileWidth:     layerWidth,
			TileHeight:    layerHeight,
			TextureWidth:  layerWidth,
			TextureHeight: layerHeight,
		}
	}
	return &AtlasInfoTable{infos: infos}
}

func (t *AtlasInfoTable) Len() int { return len(t.infos) }

func (t *AtlasInfoTable) Get(layer uint32) AtlasInfo {
	return t.infos[layer]
}

// Set records info for a layer and returns the byte offset of its slot.
func (t *AtlasInfoTable) Set(layer uint32, info AtlasInfo) uint64 {
	t.infos[layer] = info
	return uint64(layer) * AtlasInfoSize
}

// Bytes encodes the whole table.
func (t *AtlasInfoTable) Bytes() []byte {
	buf := make([]byte, len(t.infos)*AtlasInfoSize)
	for i, info := range t.infos {
		info.PutBytes(buf[i*AtlasInfoSize:])
	}
	return buf
}
