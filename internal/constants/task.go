package constants

type TaskState string

const (
	StateNew        TaskState = "NEW"
	StateInProgress TaskState = "IN_PROGRESS"
	StateDone       TaskState = "DONE"
	StateCancelled  TaskState = "CANCELLED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type Role string

const (
	RoleAgent   Role = "agent"
	RoleManager Role = "manager"
)

type EventType string

const (
	EventTaskCreated      EventType = "TASK_CREATED"
	EventTaskAssigned     EventType = "TASK_ASSIGNED"
	EventTaskStateChanged EventType = "TASK_STATE_CHANGED"
)

// validTransitions is the task state machine. DONE and CANCELLED are terminal.
var validTransitions = map[TaskState][]TaskState{
	StateNew:        {StateInProgress, StateCancelled},
	StateInProgress: {StateDone, StateCancelled},
	StateDone:       {},
	StateCancelled:  {},
}

func CanTransition(from, to TaskState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidState(s TaskState) bool {
	_, ok := validTransitions[s]
	return ok
}

func ValidPriority(p TaskPriority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ValidRole(r Role) bool {
	return r == RoleAgent || r == RoleManager
}
