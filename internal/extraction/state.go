package extraction

// State is a video's position in the batch pipeline.
type State string

const (
	StatePending    State = "pending"
	StateInspecting State = "inspecting"
	StatePlanning   State = "planning"
	StateInvoking   State = "invoking"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Terminal reports whether the state ends a video's pipeline.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
