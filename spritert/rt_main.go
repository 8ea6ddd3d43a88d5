package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/gekko3d/gekko2d"
	"github.com/gekko3d/gekko2d/spritert/rt/app"
	"github.com/gekko3d/gekko2d/spritert/rt/core"
	"github.com/gekko3d/gekko2d/spritert/rt/texture"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := app.DefaultConfig()
	manifestPath := flag.String("manifest", "", "JSON atlas manifest; a generated checker atlas is used when empty")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	layers := flag.Uint("layers", uint(cfg.MaxLayers), "atlas texture array layers")
	layerSize := flag.Uint("layer-size", uint(cfg.LayerWidth), "atlas layer width and height in pixels")
	flag.BoolVar(&cfg.Debug, "debug", false, "debug logging and per-second stats")
	flag.Parse()

	cfg.MaxLayers = uint32(*layers)
	cfg.LayerWidth = uint32(*layerSize)
	cfg.LayerHeight = uint32(*layerSize)

	host := gekko2d.NewAppBuilder().
		UseModule(
			gekko2d.LoggingModule{Prefix: "spritert", Debug: cfg.Debug},
			gekko2d.TimeModule{},
			gekko2d.NewPlatformWindow(cfg.Width, cfg.Height, cfg.Title),
		).
		Build()
	host.UseSpriteRT(gekko2d.SpriteRtModule{Config: cfg, ManifestPath: *manifestPath})
	host.UseModules(gekko2d.InputModule{})

	window, _ := gekko2d.Resource[gekko2d.WindowState](host)
	defer window.Destroy()
	state, _ := gekko2d.Resource[gekko2d.SpriteRtState](host)
	defer state.Release()

	scene, err := loadScene(state)
	if err != nil {
		panic(err)
	}
	host.UseSystem(gekko2d.System(scene.update))

	host.Run()
}

type scene struct {
	player      *core.Sprite
	follow      mgl32.Vec2
	applyCamera bool

	swapLayer  uint32
	swapTile   [2]uint32
	swapImages []string
	swapNext   int

	sinceStats time.Duration
}

// loadScene lays out a ground sprite (static) and a player sprite (dynamic)
// from the first atlas, generating a checker atlas when none was loaded.
func loadScene(state *gekko2d.SpriteRtState) (*scene, error) {
	a := state.RtApp
	s := &scene{applyCamera: true}

	if state.Manifest != nil {
		s.swapImages = state.Manifest.Images
	} else {
		if _, err := a.LoadImage("checker", checkerImage(128, 16), 16, 16); err != nil {
			return nil, err
		}
	}

	names := a.AtlasNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no atlases loaded")
	}
	atlas, err := a.GetAtlas(names[0])
	if err != nil {
		return nil, err
	}
	s.swapLayer = atlas.Index
	s.swapTile = [2]uint32{atlas.TileWidth, atlas.TileHeight}

	// one world unit per tile
	scale := mgl32.Vec2{1 / float32(atlas.TileWidth), 1 / float32(atlas.TileHeight)}
	cols, rows := min(atlas.Cols, 16), min(atlas.Rows, 16)

	ground, err := a.CreateSprite(-float32(cols)/2, -float32(rows)/2, 0, 0, cols, rows, names[0], scale.X(), scale.Y())
	if err != nil {
		return nil, err
	}
	if _, err := a.AddStatic(ground.Instances); err != nil {
		return nil, err
	}

	s.player, err = a.CreateSprite(0, 0, 0, 0, 1, 1, names[0], scale.X(), scale.Y())
	if err != nil {
		return nil, err
	}
	s.follow = s.player.Center()
	return s, nil
}

const playerSpeed = 4

func (s *scene) update(input *gekko2d.Input, t *gekko2d.Time, state *gekko2d.SpriteRtState,
	list *gekko2d.DrawList, follow *gekko2d.Follow, cmd *gekko2d.Commands) {
	switch {
	case input.JustPressed[gekko2d.KeyEscape]:
		cmd.Quit()
	case input.JustPressed[gekko2d.KeyTab]:
		s.applyCamera = !s.applyCamera
	case input.JustPressed[gekko2d.KeyU]:
		s.swap(state.RtApp, cmd.Logger())
	case input.JustPressed[gekko2d.KeyD]:
		logger := cmd.Logger()
		logger.SetDebug(!logger.DebugEnabled())
		logger.Infof("debug logging %v", logger.DebugEnabled())
	case input.JustPressed[gekko2d.KeyF]:
		fmt.Print(state.ProfilerStats())
		state.RtApp.Profiler.Reset()
	}

	// sprite origins grow downwards
	dx := input.Axis(gekko2d.KeyLeft, gekko2d.KeyRight)
	dy := input.Axis(gekko2d.KeyUp, gekko2d.KeyDown)
	if dx != 0 || dy != 0 {
		origin := s.player.Origin.Add(mgl32.Vec2{dx, dy}.Mul(playerSpeed * t.Seconds()))
		s.player.UpdatePosition(origin)
		s.follow = s.player.Center()
	}

	follow.Position = s.follow
	list.ApplyCamera = s.applyCamera
	list.AddSprite(s.player)

	if cmd.Logger().DebugEnabled() {
		s.sinceStats += t.Dt
		if s.sinceStats >= time.Second {
			stats := state.RtApp.LastStats
			cmd.Logger().Debugf("%.1f fps, %d static + %d dynamic instances", state.FPS(), stats.Static, stats.Dynamic)
			s.sinceStats = 0
		}
	}
}

// swap cycles the manifest's library images through the first atlas layer.
func (s *scene) swap(a *app.App, logger gekko2d.Logger) {
	if len(s.swapImages) == 0 {
		logger.Infof("no library images to swap in")
		return
	}
	name := s.swapImages[s.swapNext%len(s.swapImages)]
	s.swapNext++
	if _, err := a.UpdateTexture(s.swapLayer, name, s.swapTile[0], s.swapTile[1]); err != nil {
		logger.Errorf("swap %q: %v", name, err)
	}
}

// checkerImage draws a size x size sheet of tile x tile squares in distinct colours.
func checkerImage(size, tile int) *texture.ImageData {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			tx, ty := x/tile, y/tile
			c := color.RGBA{R: uint8(tx * 255 / (size / tile)), G: uint8(ty * 255 / (size / tile)), B: 96, A: 255}
			if (x%tile == 0) || (y%tile == 0) {
				c = color.RGBA{A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return texture.FromImage(img)
}

