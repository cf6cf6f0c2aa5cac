package sceneflow

// Operation identifies a stack mutation.
type Operation int

const (
	OpPush Operation = iota
	OpReplace
	OpPop
)

func (o Operation) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpReplace:
		return "replace"
	case OpPop:
		return "pop"
	default:
		return "unknown"
	}
}

// State is the manager's position in the navigation state machine.
//
//	Idle -> [AsyncLoading ->] ExitTransitionPlaying -> Mutating -> EnterTransitionPlaying -> Idle
//	AsyncLoading -> RolledBack -> Idle   (failed or cancelled load, nothing applied)
type State int

const (
	StateIdle State = iota
	StateAsyncLoading
	StateExitTransitionPlaying
	StateMutating
	StateEnterTransitionPlaying
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAsyncLoading:
		return "async_loading"
	case StateExitTransitionPlaying:
		return "exit_transition_playing"
	case StateMutating:
		return "mutating"
	case StateEnterTransitionPlaying:
		return "enter_transition_playing"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}
