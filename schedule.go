package gekko2d

import (
	"fmt"
	"slices"
)

type Stage struct {
	Name string
}

var (
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	Render     = Stage{Name: "Render"}
)

var defaultStages = []Stage{PreUpdate, Update, PostUpdate, Render}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

// System schedules fn in the Update stage unless InStage says otherwise.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageBefore,
		target:   s,
	}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageAfter,
		target:   s,
	}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	if _, ok := app.systems[stage.Name]; ok {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	var stageIdx int = -1
	for i, s := range app.stages {
		if s.Name == where.target.Name {
			stageIdx = i
			break
		}
	}
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}

	var insertAt int
	if stageBefore == where.position {
		insertAt = stageIdx
	} else {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = make([]systemFn, 0)

	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	systems, ok := app.systems[system.inStage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(systems, system.system)
	return app
}

// Stages returns the stage names in execution order.
func (app *App) Stages() []string {
	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	return names
}
