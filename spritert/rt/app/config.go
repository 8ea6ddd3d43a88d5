package app

import (
	"fmt"
)

// Config sizes the window, the atlas array and the camera.
type Config struct {
	Title  string
	Width  int
	Height int

	// MaxLayers is clamped to the adapter's texture array limit at Init.
	MaxLayers   uint32
	LayerWidth  uint32
	LayerHeight uint32

	// StaticCapacity is the initial size of the static buffer, in instances.
	StaticCapacity uint32

	ClearColor [4]float64

	// Camera extents are in world units; the horizontal ones are scaled by CameraAspect.
	CameraHalfWidth  float32
	CameraHalfHeight float32
	CameraEyeZ       float32
	CameraAspect     float32

	Debug bool
}

func DefaultConfig() Config {
	return Config{
		Title:            "gekko2d",
		Width:            960,
		Height:           640,
		MaxLayers:        16,
		LayerWidth:       1024,
		LayerHeight:      1024,
		StaticCapacity:   4096,
		ClearColor:       [4]float64{0.1, 0.2, 0.3, 1.0},
		CameraHalfWidth:  5,
		CameraHalfHeight: 5,
		CameraEyeZ:       10,
		CameraAspect:     240.0 / 160.0,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Width, c.Height)
	case c.MaxLayers == 0:
		return fmt.Errorf("config: max layers must be positive")
	case c.LayerWidth == 0 || c.LayerHeight == 0:
		return fmt.Errorf("config: layer size %dx%d", c.LayerWidth, c.LayerHeight)
	case c.CameraHalfWidth <= 0 || c.CameraHalfHeight <= 0 || c.CameraAspect <= 0:
		return fmt.Errorf("config: camera extents %gx%g aspect %g", c.CameraHalfWidth, c.CameraHalfHeight, c.CameraAspect)
	case c.CameraEyeZ <= 0:
		return fmt.Errorf("config: camera eye height %g", c.CameraEyeZ)
	}
	return nil
}

// clampLayers fits the requested layer count to the device limit.
func clampLayers(requested, limit uint32) uint32 {
	if limit > 0 && requested > limit {
		return limit
	}
	return requested
}
