//go:build !darwin && !linux

package port

// NewDefault returns the lookup for this platform. There is no lsof
// integration here, so every port reports as free.
func NewDefault(_ CmdRunner, _ string) Lookup {
	return Unsupported{}
}
