package process

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lu-zhengda/portcheck/internal/port"
)

// Details holds extra information about a listening process.
type Details struct {
	PID       uint32
	PPID      int
	StartTime time.Time
	Command   string // full command line
}

// InfoFetcher retrieves process details with ps.
type InfoFetcher struct {
	runner port.CmdRunner
}

// NewInfoFetcher creates a new InfoFetcher.
func NewInfoFetcher(runner port.CmdRunner) *InfoFetcher {
	return &InfoFetcher{runner: runner}
}

// GetDetails retrieves parent pid, start time and command line for pid.
func (f *InfoFetcher) GetDetails(ctx context.Context, pid uint32) (*Details, error) {
	out, err := f.runner.Run(ctx, "ps", "-p", strconv.FormatUint(uint64(pid), 10), "-o", "ppid=,lstart=,command=")
	if err != nil {
		return nil, fmt.Errorf("failed to get process info for PID %d: %w", pid, err)
	}

	line := strings.TrimSpace(string(out))
	if line == "" {
		return nil, fmt.Errorf("process %d not found", pid)
	}

	d, err := parsePsOutput(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse process info: %w", err)
	}
	d.PID = pid
	return d, nil
}

// parsePsOutput parses the output of ps -o ppid=,lstart=,command=
func parsePsOutput(line string) (*Details, error) {
	// lstart format: "Day Mon DD HH:MM:SS YYYY" (5 tokens)
	// Layout: PPID <lstart 5 tokens> COMMAND...
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return nil, fmt.Errorf("unexpected ps output format: %q", line)
	}

	ppid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse PPID: %w", err)
	}

	startTime, err := time.ParseInLocation("Mon Jan 2 15:04:05 2006", strings.Join(fields[1:6], " "), time.Local)
	if err != nil {
		startTime = time.Time{}
	}

	return &Details{
		PPID:      ppid,
		StartTime: startTime,
		Command:   strings.Join(fields[6:], " "),
	}, nil
}
