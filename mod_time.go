package gekko2d

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// Seconds is Dt as float seconds, the unit movement code works in.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	cmd.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
