package port

import "context"

// Lookup finds the process listening on a TCP port.
//
// A nil *ProcessInfo with a nil error means nothing is listening. An error
// means the lookup itself failed and no result should be reported.
type Lookup interface {
	Lookup(ctx context.Context, p Port) (*ProcessInfo, error)
}

// Unsupported is the Lookup for platforms without a port-to-process
// mechanism. It never finds a listener.
type Unsupported struct{}

// Lookup always reports no listener.
func (Unsupported) Lookup(_ context.Context, _ Port) (*ProcessInfo, error) {
	return nil, nil
}
