package reservation

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true when no further transition is allowed out of the
// state, except CONFIRMED which may still move to CANCELLED.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFailed
}

// CanTransitionTo enforces the reservation state machine. PENDING may
// resolve to CONFIRMED or FAILED; CONFIRMED may only move to CANCELLED.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusFailed
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// GetAllStatuses returns all valid reservation statuses
func GetAllStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusFailed}
}
