package port

// Port is a TCP port number.
type Port uint16

// DefaultPort is checked when no port is given.
const DefaultPort Port = 8080

// ProcessInfo identifies the process listening on a port.
type ProcessInfo struct {
	PID  uint32
	Name string // short process name as reported by the lookup utility
	User string // owner
}
