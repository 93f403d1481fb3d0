package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/portcheck/internal/port"
	"github.com/lu-zhengda/portcheck/internal/process"
)

// result is everything one run found out about a port.
type result struct {
	port       port.Port
	info       *port.ProcessInfo
	details    *process.Details
	detailsErr error
}

type reporter struct {
	out, errOut io.Writer
	json        bool

	color     bool
	nameStyle lipgloss.Style
	pidStyle  lipgloss.Style
	userStyle lipgloss.Style
	dimStyle  lipgloss.Style
}

func newReporter(out, errOut io.Writer, color, jsonOutput bool) *reporter {
	// The renderer inspects out, so a pipe or buffer gets plain text.
	r := lipgloss.NewRenderer(out)
	return &reporter{
		out:       out,
		errOut:    errOut,
		json:      jsonOutput,
		color:     color,
		nameStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		pidStyle:  r.NewStyle().Foreground(lipgloss.Color("3")),
		userStyle: r.NewStyle().Foreground(lipgloss.Color("2")),
		dimStyle:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (r *reporter) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// checking announces the port before the lookup. In JSON mode it goes to
// stderr so stdout holds only the document.
func (r *reporter) checking(p port.Port) {
	w := r.out
	if r.json {
		w = r.errOut
	}
	fmt.Fprintf(w, "Checking conflicts on port %d\n", p)
}

func (r *reporter) report(res result) error {
	if r.json {
		return r.reportJSON(res)
	}

	if res.info == nil {
		fmt.Fprintf(r.out, "No process listening on port %d\n", res.port)
		return nil
	}

	fmt.Fprintf(r.out, "Process listening on port %d is %s, pid: %s, user: %s\n",
		res.port,
		r.style(r.nameStyle, res.info.Name),
		r.style(r.pidStyle, fmt.Sprintf("%d", res.info.PID)),
		r.style(r.userStyle, res.info.User))

	switch {
	case res.details != nil:
		d := res.details
		fmt.Fprintf(r.out, "  Command:     %s\n", d.Command)
		if d.PPID > 0 {
			fmt.Fprintf(r.out, "  Parent PID:  %d\n", d.PPID)
		}
		if !d.StartTime.IsZero() {
			fmt.Fprintf(r.out, "  Started:     %s\n", d.StartTime.Format("2006-01-02 15:04:05"))
		}
	case res.detailsErr != nil:
		fmt.Fprintf(r.out, "  %s\n", r.style(r.dimStyle, fmt.Sprintf("Details:     (unavailable: %v)", res.detailsErr)))
	}
	return nil
}

type jsonProcess struct {
	PID       uint32 `json:"pid"`
	Name      string `json:"name"`
	User      string `json:"user"`
	PPID      int    `json:"ppid,omitempty"`
	Command   string `json:"command,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

type jsonResult struct {
	Port      uint16       `json:"port"`
	Listening bool         `json:"listening"`
	Process   *jsonProcess `json:"process,omitempty"`
}

func (r *reporter) reportJSON(res result) error {
	out := jsonResult{Port: uint16(res.port)}

	if res.info != nil {
		out.Listening = true
		out.Process = &jsonProcess{
			PID:  res.info.PID,
			Name: res.info.Name,
			User: res.info.User,
		}
		if d := res.details; d != nil {
			out.Process.PPID = d.PPID
			out.Process.Command = d.Command
			if !d.StartTime.IsZero() {
				out.Process.StartTime = d.StartTime.Format(time.RFC3339)
			}
		}
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
