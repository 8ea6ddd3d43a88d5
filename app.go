package gekko2d

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App runs its stages in order once per frame until Quit is called.
type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	quit      bool
	frame     uint64
}

// NewApp returns an App with the default stage order.
func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, s := range defaultStages {
		app.stages = append(app.stages, s)
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules immediately, in order.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, m := range modules {
		app.modules = append(app.modules, m)
		m.Install(app, cmd)
	}
	return app
}

// Run executes frames until a system calls Quit.
func (app *App) Run() {
	app.Logger().Infof("running %d stages", len(app.stages))
	for !app.quit {
		app.runFrame()
	}
}

// RunFrames executes at most n frames, stopping early on Quit.
func (app *App) RunFrames(n int) {
	for i := 0; i < n && !app.quit; i++ {
		app.runFrame()
	}
}

func (app *App) Quit() {
	app.quit = true
}

// Frame is the number of frames executed so far.
func (app *App) Frame() uint64 { return app.frame }

func (app *App) runFrame() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T, if one was added.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves each pointer argument of system from the resources
// and calls it. *Commands is always available.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			resourceVal := reflect.ValueOf(resource)
			typedResourceVal := reflect.NewAt(underlyingType, resourceVal.UnsafePointer())

			args[i] = typedResourceVal
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
