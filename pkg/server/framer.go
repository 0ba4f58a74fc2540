package server

import "strings"

// MaxPendingLine is the ceiling on an unterminated command fragment.
// A peer that streams this much without a line terminator is cut off.
const MaxPendingLine = 2_000_000

// lineFramer reassembles discrete command lines from arbitrary-sized
// stream chunks. Carriage returns are normalized to line feeds, so any
// of LF, CR, and CRLF terminate a line.
type lineFramer struct {
	pending string
}

// Feed consumes one chunk and returns every complete line it finishes,
// in order. Empty lines are dropped. The trailing remainder is kept as
// the pending fragment for the next chunk. overflow reports that the
// chunk completed no line and the pending fragment exceeded
// MaxPendingLine; the caller is expected to terminate the connection.
func (f *lineFramer) Feed(chunk string) (lines []string, overflow bool) {
	data := f.pending + strings.ReplaceAll(chunk, "\r", "\n")
	parts := strings.Split(data, "\n")
	f.pending = parts[len(parts)-1]

	if len(parts) > 1 {
		for _, line := range parts[:len(parts)-1] {
			if line != "" {
				lines = append(lines, line)
			}
		}
		return lines, false
	}

	if len(f.pending) > MaxPendingLine {
		f.pending = ""
		return nil, true
	}
	return nil, false
}

// Pending returns the current unterminated fragment.
func (f *lineFramer) Pending() string {
	return f.pending
}
