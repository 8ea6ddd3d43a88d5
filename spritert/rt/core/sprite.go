package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TileRect is a selection in tile-grid coordinates.
type TileRect struct {
	X, Y, W, H uint32
}

func (r TileRect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Sprite is a block of tiles cut from one atlas. Instances are stored
// row-major: index i covers cell (Rect.X + i%W, Rect.Y + i/W).
type Sprite struct {
	Origin     mgl32.Vec2
	Rect       TileRect
	Scale      mgl32.Vec2
	AtlasIndex uint32
	TileWidth  uint32
	TileHeight uint32
	Instances  []Instance
}

// BuildSprite selects rect from atlas and places it at origin. Tile row 0 is
// drawn topmost: screen-down tile rows map to decreasing world Y.
func BuildSprite(origin mgl32.Vec2, atlas Atlas, rect TileRect, scale mgl32.Vec2) (*Sprite, error) {
	if !atlas.Contains(rect) {
		return nil, fmt.Errorf("rect %s in %dx%d grid of atlas %d: %w",
			rect, atlas.Cols, atlas.Rows, atlas.Index, ErrInvalidTileRect)
	}

	s := &Sprite{
		Origin:     origin,
		Rect:       rect,
		Scale:      scale,
		AtlasIndex: atlas.Index,
		TileWidth:  atlas.TileWidth,
		TileHeight: atlas.TileHeight,
		Instances:  make([]Instance, 0, rect.W*rect.H),
	}

	for ty := rect.Y; ty < rect.Y+rect.H; ty++ {
		for tx := rect.X; tx < rect.X+rect.W; tx++ {
			s.Instances = append(s.Instances, Instance{
				Model:      s.model(tx-rect.X, ty-rect.Y),
				TexIndex:   tx + ty*atlas.Cols,
				AtlasIndex: atlas.Index,
			})
		}
	}
	return s, nil
}

// UpdatePosition moves the sprite, rewriting only the model matrices.
func (s *Sprite) UpdatePosition(origin mgl32.Vec2) {
	s.Origin = origin
	for i := range s.Instances {
		col := uint32(i) % s.Rect.W
		row := uint32(i) / s.Rect.W
		s.Instances[i].Model = s.model(col, row)
	}
}

// model builds the transform of the tile at (col, row) relative to Rect.
func (s *Sprite) model(col, row uint32) mgl32.Mat4 {
	tw := float32(s.TileWidth)
	th := float32(s.TileHeight)

	ox := float32(col)*tw + tw/2
	oy := float32(row)*th + th/2

	x := s.Origin.X() + ox*s.Scale.X()
	y := -s.Origin.Y() - oy*s.Scale.Y()

	return mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(s.Scale.X()*tw, s.Scale.Y()*th, 1))
}

// Bounds returns the world-space min and max corners.
func (s *Sprite) Bounds() (mgl32.Vec2, mgl32.Vec2) {
	w := float32(s.Rect.W*s.TileWidth) * s.Scale.X()
	h := float32(s.Rect.H*s.TileHeight) * s.Scale.Y()
	lo := mgl32.Vec2{s.Origin.X(), -s.Origin.Y() - h}
	hi := mgl32.Vec2{s.Origin.X() + w, -s.Origin.Y()}
	return lo, hi
}

// Center is the world-space midpoint of Bounds.
func (s *Sprite) Center() mgl32.Vec2 {
	lo, hi := s.Bounds()
	return lo.Add(hi).Mul(0.5)
}
