package gpu

import "fmt"

// FrameState is the phase of the compositor's readback protocol.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameCopyRequested
	FrameMapped
	FrameComposed
	FrameSubmitted
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "Idle"
	case FrameCopyRequested:
		return "CopyRequested"
	case FrameMapped:
		return "Mapped"
	case FrameComposed:
		return "Composed"
	case FrameSubmitted:
		return "Submitted"
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// Next is the only state reachable from s.
func (s FrameState) Next() FrameState {
	if s == FrameSubmitted {
		return FrameIdle
	}
	return s + 1
}

// frameMachine enforces the state order. Skipping or repeating a state is a
// bug in the caller and panics.
type frameMachine struct {
	state FrameState
}

func (m *frameMachine) advance(to FrameState) {
	if want := m.state.Next(); to != want {
		panic(fmt.Sprintf("frame compositor: transition %s -> %s, expected %s", m.state, to, want))
	}
	m.state = to
}

// abort returns to Idle after a failed frame.
func (m *frameMachine) abort() {
	m.state = FrameIdle
}
