package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// progressReporter draws a one-line spinner while files are scanned. It is
// a no-op unless enabled.
type progressReporter struct {
	out     io.Writer
	enabled bool
	label   string
	start   time.Time
	spinner int
	lastLen int
}

func newProgressReporter(out io.Writer, enabled bool) *progressReporter {
	return &progressReporter{
		out:     out,
		enabled: enabled && isTerminal(out),
		start:   time.Now(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Begin starts a new pass over files.
func (r *progressReporter) Begin(label string) {
	r.label = label
	r.start = time.Now()
	r.spinner = 0
}

// Update has the signature of collect.ProgressFunc. The last file of a pass
// finishes the line.
func (r *progressReporter) Update(done, total int, file string) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}

	r.printStatus(fmt.Sprintf("%s %s %d/%d scanning %s", frame, r.label, done, total, file))
	if done >= total {
		r.done(total)
	}
}

func (r *progressReporter) done(count int) {
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d files in %s)", r.label, count, elapsed))
	fmt.Fprintln(r.out)
	r.lastLen = 0
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
