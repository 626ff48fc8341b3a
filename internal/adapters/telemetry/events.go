// Package telemetry records retest runs as OpenTelemetry spans.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
)

// DefaultEventSize is the largest output event emitted when no limit is given.
const DefaultEventSize = 4096

var errEventBufferClosed = errors.New("event buffer is closed")

// EventBuffer groups test output into events of at most limit bytes. Events end on a
// line boundary unless a single line is longer than limit. It is safe for concurrent use.
type EventBuffer struct {
	limit int
	emit  func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// NewEventBuffer returns a buffer that hands complete events to emit.
func NewEventBuffer(limit int, emit func([]byte)) *EventBuffer {
	if limit <= 0 {
		limit = DefaultEventSize
	}
	return &EventBuffer{limit: limit, emit: emit}
}

// Write appends p and emits every full event it completes.
func (b *EventBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errEventBufferClosed
	}
	b.buf.Write(p)
	for b.buf.Len() >= b.limit {
		chunk := b.buf.Bytes()[:b.limit]
		if i := bytes.LastIndexByte(chunk, '\n'); i >= 0 {
			chunk = chunk[:i+1]
		}
		b.emitLocked(b.buf.Next(len(chunk)))
	}
	return len(p), nil
}

// Close emits the remaining output. Later writes fail.
func (b *EventBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.buf.Len() > 0 {
		b.emitLocked(b.buf.Bytes())
		b.buf.Reset()
	}
	return nil
}

func (b *EventBuffer) emitLocked(data []byte) {
	if b.emit != nil {
		b.emit(bytes.Clone(data))
	}
}
