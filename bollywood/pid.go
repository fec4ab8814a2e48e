package bollywood

import "github.com/google/uuid"

// PID identifies a running actor instance. It is cheap to copy and safe to
// share across goroutines; it carries no behavior of its own, only identity.
type PID struct {
	ID string
}

func newPID() *PID {
	return &PID{ID: uuid.NewString()}
}

// String returns the string representation of the PID.
func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return pid.ID
}

// Equal reports whether two PIDs name the same actor.
func (pid *PID) Equal(other *PID) bool {
	if pid == nil || other == nil {
		return pid == other
	}
	return pid.ID == other.ID
}
