package core

import "errors"

var (
	// ErrAtlasNotFound is returned when no atlas is registered under a name.
	// Callers are expected to skip the sprite and carry on.
	ErrAtlasNotFound = errors.New("atlas not found")

	// ErrInvalidTileRect is returned when a tile selection is empty or extends
	// past the atlas grid.
	ErrInvalidTileRect = errors.New("tile rect outside atlas grid")

	ErrInvalidTileSize = errors.New("tile size must be non-zero")

	ErrLayerBudgetExhausted = errors.New("texture array layer budget exhausted")
	ErrLayerNotAllocated    = errors.New("texture array layer not allocated")
	ErrImageTooLarge        = errors.New("image does not fit in a texture array layer")

	// ErrSurfaceUnavailable wraps a failed swapchain acquisition. The frame is
	// skipped and the next one retried.
	ErrSurfaceUnavailable = errors.New("surface texture unavailable")

	ErrInstanceData = errors.New("instance data is not a whole number of instances")
)
