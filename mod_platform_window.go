package gekko2d

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// Window is the underlying GLFW window, nil for a headless state.
func (s *WindowState) Window() *glfw.Window {
	return s.windowGlfw
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw != nil && s.windowGlfw.ShouldClose()
}

// Destroy closes the window and terminates GLFW.
func (s *WindowState) Destroy() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // no OpenGL context, wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for the renderer and input modules.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	width, height, title = windowDefaults(width, height, title)
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func windowDefaults(width, height int, title string) (int, int, string) {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 640
	}
	if title == "" {
		title = "Gekko2D"
	}
	return width, height, title
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	ensureWindowResource(app, m.Width, m.Height, m.Title)
}

// windowCloseSystem stops the app once the user closes the window.
func windowCloseSystem(s *WindowState, cmd *Commands) {
	if s.ShouldClose() {
		cmd.Quit()
	}
}
