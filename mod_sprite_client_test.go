package gekko2d

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

type fakeRenderer struct {
	follows  []mgl32.Vec3
	rendered [][]core.Instance
	camera   []bool
	err      error
}

func (f *fakeRenderer) Update(follow mgl32.Vec3) {
	f.follows = append(f.follows, follow)
}

func (f *fakeRenderer) Render(dynamic []core.Instance, applyCamera bool) error {
	f.rendered = append(f.rendered, append([]core.Instance(nil), dynamic...))
	f.camera = append(f.camera, applyCamera)
	return f.err
}

// newSpriteTestApp wires the sprite systems around a fake renderer.
func newSpriteTestApp(r *fakeRenderer) (*App, *DrawList, *Follow) {
	app := NewApp()
	list := &DrawList{ApplyCamera: true}
	follow := &Follow{}
	app.Commands().AddResources(&SpriteRtState{renderer: r}, list, follow)
	app.UseSystem(System(spriteRtUpdateSystem).InStage(PostUpdate))
	app.UseSystem(System(spriteRtRenderSystem).InStage(Render))
	return app, list, follow
}

func TestDrawList(t *testing.T) {
	atlas, err := core.NewAtlas(1, 64, 64, 16, 16)
	require.NoError(t, err)
	sprite, err := core.BuildSprite(mgl32.Vec2{}, atlas, core.TileRect{W: 2, H: 1}, mgl32.Vec2{1, 1})
	require.NoError(t, err)

	var l DrawList
	l.AddSprite(sprite, nil)
	l.Add(core.Instance{AtlasIndex: 1, TexIndex: 3})
	assert.Equal(t, 3, l.Len())

	l.ApplyCamera = true
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.ApplyCamera)
}

func TestSpriteSystemsSubmitAndReset(t *testing.T) {
	r := &fakeRenderer{}
	app, list, follow := newSpriteTestApp(r)

	app.UseSystem(System(func(l *DrawList, f *Follow) {
		l.Add(core.Instance{TexIndex: 7})
		f.Position = mgl32.Vec2{2, 3}
	}))
	app.RunFrames(2)

	require.Len(t, r.rendered, 2)
	assert.Len(t, r.rendered[0], 1, "draw list is emptied after each frame")
	assert.Len(t, r.rendered[1], 1)
	assert.Equal(t, uint32(7), r.rendered[1][0].TexIndex)
	assert.Equal(t, []bool{true, true}, r.camera)
	assert.Equal(t, mgl32.Vec3{2, 3, 0}, r.follows[1])
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, mgl32.Vec2{2, 3}, follow.Position)

	state, _ := Resource[SpriteRtState](app)
	assert.Equal(t, uint64(2), state.Frames)
}

func TestSpriteRenderSkipsLostSurface(t *testing.T) {
	r := &fakeRenderer{err: fmt.Errorf("frame: %w", core.ErrSurfaceUnavailable)}
	app, _, _ := newSpriteTestApp(r)

	app.RunFrames(3)

	assert.Len(t, r.rendered, 3, "surface loss does not stop the app")
	state, _ := Resource[SpriteRtState](app)
	assert.Equal(t, uint64(0), state.Frames)
}

func TestSpriteRenderErrorQuits(t *testing.T) {
	r := &fakeRenderer{err: errors.New("device lost")}
	app, list, _ := newSpriteTestApp(r)
	list.Add(core.Instance{})

	app.RunFrames(5)

	assert.Len(t, r.rendered, 1)
	assert.Equal(t, 0, list.Len())
}

func TestSpriteRtStateNilSafe(t *testing.T) {
	var s *SpriteRtState
	assert.Zero(t, s.FPS())
	assert.Empty(t, s.ProfilerStats())
	s.Release()
}

func TestEnsureSingleRenderer(t *testing.T) {
	app := &App{resources: make(map[reflect.Type]any)}
	ensureSingleRenderer(app, string(RendererSpriteRT))
	ensureSingleRenderer(app, string(RendererSpriteRT))

	tag, ok := Resource[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "spritert", tag.Name)

	assert.PanicsWithValue(t, "Multiple renderers installed: spritert and other", func() {
		ensureSingleRenderer(app, "other")
	})
}

func TestWindowCloseSystemHeadless(t *testing.T) {
	app := NewApp()
	app.Commands().AddResources(&WindowState{})
	app.UseSystem(System(windowCloseSystem).InStage(PreUpdate))
	app.RunFrames(2)
	assert.Equal(t, uint64(2), app.Frame(), "a headless window never requests close")
}

func TestWindowDefaults(t *testing.T) {
	w, h, title := windowDefaults(0, -1, "")
	assert.Equal(t, 960, w)
	assert.Equal(t, 640, h)
	assert.Equal(t, "Gekko2D", title)

	m := NewPlatformWindow(320, 200, "x")
	assert.Equal(t, PlatformWindowModule{Width: 320, Height: 200, Title: "x"}, *m)
}
