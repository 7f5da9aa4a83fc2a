package gitmine

import (
	"io"
	"strings"
)

// Splitter lazily cuts a character stream into records at a fixed separator,
// reading the underlying reader in fixed-size chunks. It never buffers more
// than one partial record plus one chunk, so it is safe to run over
// multi-gigabyte `git log` output.
//
// The first record Next returns is always the prefix before the first
// separator (empty when the stream begins with the separator itself).
// Callers that use a leading sentinel, like gitmine's record-separator
// pretty-formats, skip that first empty record themselves.
type Splitter struct {
	r         io.Reader
	sep       string
	chunkSize int
	buf       strings.Builder
	pending   []string // records cut from buf but not yet returned
	eof       bool
	err       error
}

// NewSplitter constructs a Splitter over r, cutting on sep and reading
// chunkSize bytes at a time.
func NewSplitter(r io.Reader, sep string, chunkSize int) *Splitter {
	return &Splitter{r: r, sep: sep, chunkSize: chunkSize}
}

// Next returns the next record and true, or ("", false) once the stream is
// exhausted. Check Err after Next returns false to distinguish clean EOF
// from a read error.
func (s *Splitter) Next() (string, bool) {
	for {
		if len(s.pending) > 0 {
			rec := s.pending[0]
			s.pending = s.pending[1:]
			return rec, true
		}
		if s.eof {
			return "", false
		}
		if !s.fill() {
			return "", false
		}
	}
}

// Err returns the first read error encountered, if any.
func (s *Splitter) Err() error {
	return s.err
}

// fill reads one more chunk, splits the accumulated buffer on the separator,
// and queues all but the trailing (possibly incomplete) piece into pending.
// Returns false once there is nothing further to read or queue.
func (s *Splitter) fill() bool {
	chunk := make([]byte, s.chunkSize)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf.Write(chunk[:n])
	}
	if err != nil {
		s.eof = true
		if err != io.EOF {
			s.err = err
		}
		remainder := s.buf.String()
		s.buf.Reset()
		if remainder == "" {
			return false
		}
		s.pending = strings.Split(remainder, s.sep)
		return true
	}
	if n == 0 {
		return true // nothing new yet, but not EOF; caller loops
	}
	full := s.buf.String()
	parts := strings.Split(full, s.sep)
	// The last piece may be an incomplete record; keep it buffered.
	s.buf.Reset()
	s.buf.WriteString(parts[len(parts)-1])
	s.pending = parts[:len(parts)-1]
	return true
}
