// Package ndjson is a reference emitter.Sink that writes one JSON object
// per envelope, newline-delimited, the streaming counterpart to the
// teacher's report.writeJsonFile (which buffers a whole document before
// one json.MarshalIndent + os.WriteFile call).
package ndjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/moonrockz/moonspec/internal/emitter"
)

// Sink writes each envelope as its own compact JSON line to w, flushing
// after every message so a consumer tailing the file sees it live.
type Sink struct {
	mu sync.Mutex
	w  *bufio.Writer
	enc *json.Encoder
}

// New wraps an already-open writer (e.g. os.Stdout) in a Sink.
func New(w io.Writer) *Sink {
	bw := bufio.NewWriter(w)
	return &Sink{w: bw, enc: json.NewEncoder(bw)}
}

// Create opens path for writing (truncating any existing content) and
// returns a Sink plus a close function the caller must defer.
func Create(path string) (*Sink, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ndjson: %w", err)
	}

	s := New(f)

	return s, func() error {
		if err := s.Flush(); err != nil {
			f.Close()
			return err
		}

		return f.Close()
	}, nil
}

func (s *Sink) OnMessage(env emitter.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(env); err != nil {
		fmt.Fprintln(os.Stderr, "ndjson: encode envelope:", err)
		return
	}

	if err := s.w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "ndjson: flush:", err)
	}
}

// Flush ensures every buffered byte reaches the underlying writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Flush()
}
