package gekko2d

// Commands is handed to modules and systems to change the App.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Quit stops the App after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.Quit()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
