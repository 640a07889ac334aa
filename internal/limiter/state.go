package limiter

// State is the lifecycle state of a limiter.
type State int

const (
	// Idle means no emission is scheduled.
	Idle State = iota
	// Pending means a timer is armed and will emit on fire.
	Pending
	// Disposed is terminal.
	Disposed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

// Stats counts what a limiter has done since activation.
type Stats struct {
	Observed    uint64 // Observe calls accepted
	Emitted     uint64 // values emitted, including activation
	Dropped     uint64 // observations superseded before they were emitted
	Rescheduled uint64 // armed timers cancelled in favor of a new one
}
