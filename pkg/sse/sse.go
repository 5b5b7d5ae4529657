// Package sse writes Server-Sent Events frames over a plain HTTP response.
//
// The catalog's stock stream is its only producer:
//
//	stream := sse.New(w, r)
//	for !stream.IsClosed() {
//	    stream.Send("stock", snapshot)
//	    time.Sleep(interval)
//	}
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream is one client's open event connection.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	done    <-chan struct{}
}

// New prepares the response for event streaming. A nil return means the
// ResponseWriter cannot flush (already reported to the client as a 500).
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // keep nginx from buffering the stream

	return &Stream{w: w, flusher: flusher, done: r.Context().Done()}
}

// Send emits one named event with a JSON payload. Sending on a closed
// stream is a no-op.
func (s *Stream) Send(event string, data any) error {
	if s.IsClosed() {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal %s: %w", event, err)
	}
	s.frame("event: %s\ndata: %s\n\n", event, payload)
	return nil
}

// Comment emits a comment line. Useful as a heartbeat that keeps proxies
// from timing the connection out.
func (s *Stream) Comment(msg string) {
	if !s.IsClosed() {
		s.frame(": %s\n\n", msg)
	}
}

// IsClosed reports whether the client has gone away.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Stream) frame(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...)
	s.flusher.Flush()
}
