package gpu

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend serves static instances from memory and logs each step
// together with the compositor state it was called in.
type recordingBackend struct {
	c       *FrameCompositor
	static  []byte
	steps   []string
	states  []FrameState
	camera  bool
	drawn   []core.Instance
	drawErr error
	copyErr error
}

func (b *recordingBackend) log(step string) {
	b.steps = append(b.steps, step)
	b.states = append(b.states, b.c.State())
}

func (b *recordingBackend) setApplyCamera(apply bool) { b.camera = apply }
func (b *recordingBackend) staticSize() uint64        { return uint64(len(b.static)) }

func (b *recordingBackend) copyStatic(size uint64) error {
	b.log("copy")
	return b.copyErr
}

func (b *recordingBackend) mapStatic(size uint64) []byte {
	b.log("map")
	return b.static[:size]
}

func (b *recordingBackend) unmapStatic() { b.log("unmap") }

func (b *recordingBackend) draw(target *wgpu.TextureView, combined []core.Instance) error {
	b.log("draw")
	b.drawn = combined
	return b.drawErr
}

func newTestCompositor(static []core.Instance) (*FrameCompositor, *recordingBackend) {
	c := &FrameCompositor{}
	b := &recordingBackend{c: c, static: core.EncodeInstances(static)}
	c.backend = b
	return c, b
}

func TestCompositorComposesStaticThenDynamic(t *testing.T) {
	static := []core.Instance{core.NewInstance(0, 0, 1, 0), core.NewInstance(1, 0, 2, 0)}
	dynamic := []core.Instance{core.NewInstance(5, 5, 9, 1)}
	c, b := newTestCompositor(static)

	stats, err := c.Render(nil, dynamic, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"copy", "map", "draw", "unmap"}, b.steps)
	assert.Equal(t, []FrameState{FrameIdle, FrameCopyRequested, FrameComposed, FrameSubmitted}, b.states)
	assert.Equal(t, FrameIdle, c.State())
	assert.False(t, b.camera)

	require.Len(t, b.drawn, 3)
	assert.Equal(t, []uint32{1, 2, 9}, []uint32{b.drawn[0].TexIndex, b.drawn[1].TexIndex, b.drawn[2].TexIndex})
	assert.Equal(t, 2, stats.Static)
	assert.Equal(t, 1, stats.Dynamic)
	assert.Equal(t, stats.Static+stats.Dynamic, stats.Combined)
}

func TestCompositorEmptyStaticSkipsReadback(t *testing.T) {
	c, b := newTestCompositor(nil)
	dynamic := []core.Instance{core.NewInstance(0, 0, 3, 0)}

	for frame := 0; frame < 2; frame++ {
		b.steps, b.states = nil, nil
		stats, err := c.Render(nil, dynamic, true)
		require.NoError(t, err)

		assert.Equal(t, []string{"draw"}, b.steps)
		assert.Equal(t, []FrameState{FrameComposed}, b.states, "states before draw are still walked")
		assert.Equal(t, FrameIdle, c.State())
		assert.Equal(t, 0, stats.Static)
		assert.Equal(t, 1, stats.Combined)
	}
	assert.True(t, b.camera)
}

func TestCompositorDrawErrorUnmapsAndResets(t *testing.T) {
	c, b := newTestCompositor([]core.Instance{core.NewInstance(0, 0, 1, 0)})
	b.drawErr = errors.New("pass failed")

	_, err := c.Render(nil, nil, true)
	require.Error(t, err)
	assert.Equal(t, []string{"copy", "map", "draw", "unmap"}, b.steps)
	assert.Equal(t, FrameIdle, c.State())

	// the next frame starts cleanly
	b.drawErr = nil
	_, err = c.Render(nil, nil, true)
	assert.NoError(t, err)
}

func TestCompositorCopyErrorSkipsMap(t *testing.T) {
	c, b := newTestCompositor([]core.Instance{core.NewInstance(0, 0, 1, 0)})
	b.copyErr = errors.New("encoder")

	_, err := c.Render(nil, nil, true)
	require.Error(t, err)
	assert.Equal(t, []string{"copy"}, b.steps)
	assert.Equal(t, FrameIdle, c.State())
}

func TestCompositorCorruptReadback(t *testing.T) {
	c, b := newTestCompositor(nil)
	b.static = make([]byte, core.InstanceSize+4)

	_, err := c.Render(nil, nil, true)
	assert.True(t, errors.Is(err, core.ErrInstanceData), err)
	assert.Equal(t, []string{"copy", "map", "unmap"}, b.steps)
	assert.Equal(t, FrameIdle, c.State())
}
