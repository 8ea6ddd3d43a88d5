package gpu

import (
	"fmt"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

// LayerArena hands out texture-array layers in order. Layers are never freed;
// a layer is reused only by updating it in place.
type LayerArena struct {
	next     uint32
	capacity uint32
}

func NewLayerArena(capacity uint32) *LayerArena {
	return &LayerArena{capacity: capacity}
}

func (a *LayerArena) Allocate() (uint32, error) {
	layer, err := a.Peek()
	if err != nil {
		return 0, err
	}
	a.next++
	return layer, nil
}

// Peek returns the layer the next Allocate will hand out, without taking it.
func (a *LayerArena) Peek() (uint32, error) {
	if a.next >= a.capacity {
		return 0, fmt.Errorf("%d of %d layers in use: %w", a.next, a.capacity, core.ErrLayerBudgetExhausted)
	}
	return a.next, nil
}

func (a *LayerArena) IsAllocated(layer uint32) bool {
	return layer < a.next
}

func (a *LayerArena) Allocated() uint32 { return a.next }
func (a *LayerArena) Capacity() uint32  { return a.capacity }
