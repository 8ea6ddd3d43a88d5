package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/gpu"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// App is the sprite renderer bound to one window. Update and Render are
// called once per frame from the thread that owns the window.
type App struct {
	Window        *glfw.Window
	Instance      *wgpu.Instance
	Adapter       *wgpu.Adapter
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	Surface       *wgpu.Surface
	SurfaceConfig *wgpu.SurfaceConfiguration

	Config Config
	Logger core.Logger

	Atlases    *gpu.AtlasStore
	Pipeline   *gpu.SpritePipeline
	Uniforms   *gpu.Uniforms
	Static     *gpu.StaticInstances
	Compositor *gpu.FrameCompositor

	Camera   *core.Camera
	Images   *texture.ImageLibrary
	Profiler *Profiler

	LastStats gpu.FrameStats

	registry *atlasRegistry
	frames   frameCompositor
	fps      fpsCounter
}

func NewApp(window *glfw.Window, cfg Config, logger core.Logger) *App {
	logger = core.OrNop(logger)
	return &App{
		Window:   window,
		Config:   cfg,
		Logger:   logger,
		Camera:   core.NewCamera(cfg.CameraHalfWidth, cfg.CameraHalfHeight, cfg.CameraEyeZ, cfg.CameraAspect),
		Images:   texture.NewImageLibrary(".", logger),
		Profiler: NewProfiler(),
		registry: newAtlasRegistry(),
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}

func (a *App) Init() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	limits := adapter.GetLimits().Limits
	maxLayers := clampLayers(a.Config.MaxLayers, limits.MaxTextureArrayLayers)
	a.Logger.Infof("adapter supports %d texture array layers, using %d", limits.MaxTextureArrayLayers, maxLayers)
	if maxLayers < a.Config.MaxLayers {
		a.Logger.Warnf("requested %d atlas layers, clamped to %d", a.Config.MaxLayers, maxLayers)
	}
	a.Config.MaxLayers = maxLayers

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := surfaceFormat(caps.Formats)

	a.SurfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.SurfaceConfig)

	a.Atlases, err = gpu.NewAtlasStore(a.Device, maxLayers, a.Config.LayerWidth, a.Config.LayerHeight)
	if err != nil {
		return err
	}
	a.Pipeline, err = gpu.NewSpritePipeline(a.Device, format, a.Atlases.Layout, maxLayers)
	if err != nil {
		return err
	}
	a.Uniforms, err = gpu.NewUniforms(a.Device, a.Pipeline, float32(width), float32(height))
	if err != nil {
		return err
	}
	a.Static, err = gpu.NewStaticInstances(a.Device, a.Config.StaticCapacity)
	if err != nil {
		return err
	}

	c := a.Config.ClearColor
	a.Compositor = gpu.NewFrameCompositor(a.Device, a.Pipeline, a.Uniforms, a.Atlases, a.Static,
		wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]})
	a.frames = a.Compositor

	a.Logger.Infof("sprite renderer ready: %dx%d surface, %d layers of %dx%d",
		width, height, maxLayers, a.Config.LayerWidth, a.Config.LayerHeight)
	return nil
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.SurfaceConfig.Width = uint32(w)
	a.SurfaceConfig.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.SurfaceConfig)
	a.Uniforms.Resize(float32(w), float32(h))
	a.Logger.Debugf("surface resized to %dx%d", w, h)
}

// Update moves the camera to follow and uploads the camera and window uniforms.
func (a *App) Update(follow mgl32.Vec3) {
	a.Camera.Update(follow)
	a.Uniforms.UpdateCamera(a.Camera)
	a.Uniforms.Resize(float32(a.SurfaceConfig.Width), float32(a.SurfaceConfig.Height))
}

// Render draws the static instances followed by dynamic. When applyCamera is
// false instances are placed in window pixel space instead of world space.
// A missing surface texture skips the frame and returns ErrSurfaceUnavailable.
func (a *App) Render(dynamic []core.Instance, applyCamera bool) error {
	next, err := a.Surface.GetCurrentTexture()
	if err != nil {
		err = fmt.Errorf("%w: %v", core.ErrSurfaceUnavailable, err)
		a.Logger.Warnf("frame skipped: %v", err)
		return err
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		err = fmt.Errorf("%w: create view: %v", core.ErrSurfaceUnavailable, err)
		a.Logger.Warnf("frame skipped: %v", err)
		return err
	}
	defer view.Release()

	if err := a.drawFrame(view, dynamic, applyCamera); err != nil {
		return err
	}
	a.Surface.Present()

	a.fps.tick(glfw.GetTime())
	return nil
}

// frameCompositor is the part of gpu.FrameCompositor a frame needs.
type frameCompositor interface {
	Render(target *wgpu.TextureView, dynamic []core.Instance, applyCamera bool) (gpu.FrameStats, error)
}

// drawFrame composes one frame into view and profiles it.
func (a *App) drawFrame(view *wgpu.TextureView, dynamic []core.Instance, applyCamera bool) error {
	a.Profiler.BeginScope("Frame")
	defer a.Profiler.EndScope("Frame")
	stats, err := a.frames.Render(view, dynamic, applyCamera)
	if err != nil {
		a.Logger.Errorf("render: %v", err)
		return err
	}

	a.LastStats = stats
	a.Profiler.Record("Readback", stats.Readback)
	a.Profiler.Record("Compose", stats.Compose)
	a.Profiler.Record("Draw", stats.Draw)
	a.Profiler.SetCount("StaticInstances", stats.Static)
	a.Profiler.SetCount("DynamicInstances", stats.Dynamic)
	return nil
}

// FPS is the frame rate averaged over the last second.
func (a *App) FPS() float64 { return a.fps.FPS }

// surfaceFormat picks the first sRGB format so atlas colours, stored as
// RGBA8UnormSrgb, come out with the same gamma. Otherwise the first format.
func surfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8UnormSrgb
	}
	return formats[0]
}

// IsSurfaceError reports whether err only cost a frame.
func IsSurfaceError(err error) bool {
	return errors.Is(err, core.ErrSurfaceUnavailable)
}

func (a *App) Release() {
	if a.Compositor != nil {
		a.Compositor.Release()
	}
	if a.Static != nil {
		a.Static.Release()
	}
	if a.Uniforms != nil {
		a.Uniforms.Release()
	}
	if a.Pipeline != nil {
		a.Pipeline.Release()
	}
	if a.Atlases != nil {
		a.Atlases.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
