package gekko2d

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	app_rt "github.com/gekko3d/gekko2d/spritert/rt/app"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
)

type SpriteRtModule struct {
	Config       app_rt.Config
	ManifestPath string
}

type spriteRenderer interface {
	Update(follow mgl32.Vec3)
	Render(dynamic []core.Instance, applyCamera bool) error
}

type SpriteRtState struct {
	RtApp    *app_rt.App
	Manifest *texture.Manifest
	Frames   uint64

	renderer spriteRenderer
}

func (s *SpriteRtState) FPS() float64 {
	if s == nil || s.RtApp == nil {
		return 0
	}
	return s.RtApp.FPS()
}

func (s *SpriteRtState) ProfilerStats() string {
	if s == nil || s.RtApp == nil {
		return ""
	}
	return s.RtApp.Profiler.GetStatsString()
}

func (s *SpriteRtState) Release() {
	if s != nil && s.RtApp != nil {
		s.RtApp.Release()
		s.RtApp = nil
		s.renderer = nil
	}
}

// DrawList collects the dynamic instances of one frame. The render system
// submits it and empties it, so systems append every frame.
type DrawList struct {
	Instances   []core.Instance
	ApplyCamera bool
}

func (l *DrawList) Add(instances ...core.Instance) {
	l.Instances = append(l.Instances, instances...)
}

func (l *DrawList) AddSprite(sprites ...*core.Sprite) {
	for _, s := range sprites {
		if s != nil {
			l.Instances = append(l.Instances, s.Instances...)
		}
	}
}

func (l *DrawList) Len() int { return len(l.Instances) }

// Reset drops the instances but keeps the backing array and ApplyCamera.
func (l *DrawList) Reset() {
	clear(l.Instances)
	l.Instances = l.Instances[:0]
}

// Follow is the world position the camera tracks.
type Follow struct {
	Position mgl32.Vec2
}

func (mod SpriteRtModule) Install(app *App, cmd *Commands) {
	ensureWindowResource(app, mod.Config.Width, mod.Config.Height, mod.Config.Title)
	windowState, _ := Resource[WindowState](app)

	rtApp := app_rt.NewApp(windowState.Window(), mod.Config, app.Logger())
	if err := rtApp.Init(); err != nil {
		panic(err)
	}
	windowState.Window().SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		windowState.WindowWidth, windowState.WindowHeight = width, height
		rtApp.Resize(width, height)
	})

	state := &SpriteRtState{
		RtApp:    rtApp,
		renderer: rtApp,
	}
	if mod.ManifestPath != "" {
		m, err := texture.LoadManifest(mod.ManifestPath)
		if err != nil {
			panic(err)
		}
		if err := rtApp.LoadManifest(m); err != nil {
			panic(err)
		}
		state.Manifest = m
	}

	cmd.AddResources(state, &DrawList{ApplyCamera: true}, &Follow{})

	app.UseSystem(
		System(spriteRtUpdateSystem).
			InStage(PostUpdate),
	)
	app.UseSystem(
		System(spriteRtRenderSystem).
			InStage(Render),
	)
}

func spriteRtUpdateSystem(state *SpriteRtState, follow *Follow) {
	if state.renderer == nil {
		return
	}
	state.renderer.Update(mgl32.Vec3{follow.Position.X(), follow.Position.Y(), 0})
}

func spriteRtRenderSystem(state *SpriteRtState, list *DrawList, cmd *Commands) {
	if err := state.render(list); err != nil {
		cmd.Logger().Errorf("sprite render: %v", err)
		cmd.Quit()
	}
}

// render submits and resets the draw list. A lost surface skips the frame.
func (s *SpriteRtState) render(list *DrawList) error {
	if s.renderer == nil {
		list.Reset()
		return nil
	}
	err := s.renderer.Render(list.Instances, list.ApplyCamera)
	list.Reset()
	if err != nil {
		if app_rt.IsSurfaceError(err) {
			return nil
		}
		return err
	}
	s.Frames++
	return nil
}
