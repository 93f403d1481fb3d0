//go:build darwin || linux

package port

// NewDefault returns the lookup for this platform, backed by lsof.
func NewDefault(runner CmdRunner, bin string) Lookup {
	return NewLsofLookup(runner, bin)
}
