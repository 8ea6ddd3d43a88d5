package gekko2d

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererSpriteRT RendererName = "spritert"
)

// ensureWindowResource guarantees a single shared WindowState resource exists,
// together with the system that quits when it is closed.
func ensureWindowResource(app *App, width, height int, title string) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}
	width, height, title = windowDefaults(width, height, title)
	ws := createWindowState(width, height, title)
	app.addResources(ws)
	app.UseSystem(System(windowCloseSystem).InStage(PreUpdate))
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
}

// UseRendererWithWindow installs exactly one renderer module and ensures a
// shared window with the given size and title.
func (app *App) UseRendererWithWindow(name RendererName, mod Module, width, height int, title string) *App {
	ensureSingleRenderer(app, string(name))
	ensureWindowResource(app, width, height, title)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseSpriteRT selects the sprite renderer, sized from mod.Config.
func (app *App) UseSpriteRT(mod SpriteRtModule) *App {
	return app.UseRendererWithWindow(RendererSpriteRT, mod, mod.Config.Width, mod.Config.Height, mod.Config.Title)
}
