package gekko2d

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyD int = iota
	KeyF
	KeyU
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	keyCount
)

type InputModule struct{}

type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	WindowWidth, WindowHeight int
}

// Axis is -1, 0 or 1 depending on which of neg and pos are held.
func (input *Input) Axis(neg, pos int) float32 {
	var v float32
	if input.Pressed[neg] {
		v--
	}
	if input.Pressed[pos] {
		v++
	}
	return v
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	cmd.UseSystem(System(inputSystem).InStage(PreUpdate))
}

func inputSystem(s *WindowState, input *Input) {
	if s.windowGlfw == nil {
		return
	}
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.setKey(key, s.windowGlfw.GetKey(glfwKey))
	}

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

func (input *Input) setKey(key int, action glfw.Action) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false

	if glfw.Press == action || glfw.Repeat == action {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else if glfw.Release == action {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyD:      glfw.KeyD,
	KeyF:      glfw.KeyF,
	KeyU:      glfw.KeyU,
	KeyEscape: glfw.KeyEscape,
	KeyTab:    glfw.KeyTab,
	KeyRight:  glfw.KeyRight,
	KeyLeft:   glfw.KeyLeft,
	KeyDown:   glfw.KeyDown,
	KeyUp:     glfw.KeyUp,
}
