package supervisor

// State is the lifecycle state of a Server.
type State string

const (
	StateIdle     State = "idle"     // nothing started
	StateRunning  State = "running"  // spawned, not yet reachable
	StateReady    State = "ready"    // accepting TCP connections
	StateStopping State = "stopping" // interrupt loop in progress
	StateStopped  State = "stopped"
	StateStuck    State = "stuck" // handle dropped while the process may still run
)

func (s State) String() string {
	return string(s)
}
