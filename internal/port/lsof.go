package port

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPID is returned when the PID column is not an unsigned integer.
	ErrInvalidPID = errors.New("invalid pid")
	// ErrMalformedRow is returned when a data row has fewer than three columns.
	ErrMalformedRow = errors.New("malformed lsof row")
)

// LsofLookup implements Lookup using lsof.
type LsofLookup struct {
	runner CmdRunner
	bin    string
}

// NewLsofLookup creates a lookup that runs bin (or "lsof" when empty).
func NewLsofLookup(runner CmdRunner, bin string) *LsofLookup {
	if bin == "" {
		bin = "lsof"
	}
	return &LsofLookup{runner: runner, bin: bin}
}

// args returns the lsof arguments used to find TCP listeners on p.
func (l *LsofLookup) args(p Port) []string {
	return []string{"-nP", fmt.Sprintf("-iTCP:%d", p), "-sTCP:LISTEN"}
}

// Lookup returns the first process listening on p.
func (l *LsofLookup) Lookup(ctx context.Context, p Port) (*ProcessInfo, error) {
	out, err := l.runner.Run(ctx, l.bin, l.args(p)...)
	if err != nil {
		// lsof exits 1 when nothing matches the selection.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to run %s for port %d: %w", l.bin, p, err)
	}

	info, err := ParseLsofOutput(string(out))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output for port %d: %w", l.bin, p, err)
	}
	return info, nil
}

// ParseLsofOutput parses the columnar output of lsof and returns the
// process on the first data row, or nil if there is none.
// The first line is the header: COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME
func ParseLsofOutput(output string) (*ProcessInfo, error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return nil, nil
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return parseLsofLine(line)
	}
	return nil, nil
}

// parseLsofLine reads COMMAND, PID and USER from a single lsof row.
func parseLsofLine(line string) (*ProcessInfo, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRow, line)
	}

	pid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPID, fields[1], err)
	}

	return &ProcessInfo{
		PID:  uint32(pid),
		Name: fields[0],
		User: fields[2],
	}, nil
}
