package printing

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"
)

// TraceEntry is one timestamped label of a render trace
type TraceEntry struct {
	Label string
	// Total is the time since the first entry
	Total time.Duration
	// Delta is the time since the previous entry
	Delta time.Duration
}

// String formats the entry as "<label>\r\n\t@ <total> (<delta>)" with
// seconds at millisecond precision
func (e TraceEntry) String() string {
	return fmt.Sprintf("%s\r\n\t@ %.3f (%.3f)", e.Label, e.Total.Seconds(), e.Delta.Seconds())
}

// Trace collects step timings of one render. A nil *Trace is a disabled
// trace: every method is a no-op and the clock is never read.
type Trace struct {
	now     func() time.Time
	started bool
	start   time.Time
	last    time.Time
	entries []TraceEntry
	sent    bool
}

// NewTrace creates an enabled, empty trace
func NewTrace() *Trace {
	return &Trace{now: time.Now}
}

// Enabled reports whether entries are recorded
func (t *Trace) Enabled() bool {
	return t != nil
}

// Log records label. The first call fixes the start time.
func (t *Trace) Log(label string) {
	if t == nil {
		return
	}
	now := t.now()
	if !t.started {
		t.started = true
		t.start = now
		t.last = now
	}
	t.entries = append(t.entries, TraceEntry{
		Label: label,
		Total: now.Sub(t.start),
		Delta: now.Sub(t.last),
	})
	t.last = now
}

// Entries returns a copy of the recorded entries
func (t *Trace) Entries() []TraceEntry {
	if t == nil {
		return nil
	}
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Format joins the entries into one block
func (t *Trace) Format() string {
	if t == nil {
		return ""
	}
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\r\n\r\n")
}

type syncer interface {
	Sync() error
}

type flusher interface {
	Flush() error
}

// Send writes the formatted trace to w and flushes it. A trace is sent at
// most once; later calls do nothing. Callers treat Send as the last output
// of a render.
func (t *Trace) Send(w io.Writer) error {
	if t == nil || t.sent {
		return nil
	}
	t.sent = true
	if _, err := io.WriteString(w, t.Format()); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	switch f := w.(type) {
	case flusher:
		return f.Flush()
	case syncer:
		if err := f.Sync(); err != nil && !isUnsyncable(err) {
			return err
		}
	}
	return nil
}

// terminals and pipes reject fsync
func isUnsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
