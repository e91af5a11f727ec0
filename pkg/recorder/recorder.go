// Package recorder serializes a textual trace of every send/receive pair to
// a file, decoupled from the session driver via a bounded single-producer
// single-consumer queue.
package recorder

import (
	"bufio"
	"log/slog"
	"os"
)

// Direction is the token written on the line preceding each recorded
// message.
type Direction string

const (
	Send Direction = "SEND"
	Recv Direction = "RECV"

	noneLine = "None"

	// DefaultQueueSize is the default bounded queue depth between the
	// producer (transport/driver) and the file-writing goroutine.
	DefaultQueueSize = 256
)

type entry struct {
	sentinel  bool
	direction Direction
	line      string
	isNone    bool
}

// Recorder owns the bounded FIFO and the file handle. The queue is
// single-producer (transport/driver side) / single-consumer (the writer
// goroutine started by Start).
type Recorder struct {
	queue  chan entry
	path   string
	logger *slog.Logger
	done   chan struct{}
}

// New constructs a Recorder that will write to path once Start is called.
// queueSize <= 0 selects DefaultQueueSize.
func New(path string, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		queue:  make(chan entry, queueSize),
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start opens the recording file and launches the writer goroutine. It
// returns an error if the file cannot be created; callers should treat that
// as fatal before the session's first send.
func (r *Recorder) Start() error {
	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	go r.run(f)
	return nil
}

func (r *Recorder) run(f *os.File) {
	defer close(r.done)
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	for e := range r.queue {
		if e.sentinel {
			return
		}
		w.WriteString(string(e.direction))
		w.WriteByte('\n')
		if e.isNone {
			w.WriteString(noneLine)
		} else {
			w.WriteString(e.line)
		}
		w.WriteByte('\n')
		if err := w.Flush(); err != nil {
			r.logger.Error("recorder: write failed", "error", err)
			return
		}
	}
}

// RecordRecv records a received message's one-line textual representation.
func (r *Recorder) RecordRecv(line string) {
	r.queue <- entry{direction: Recv, line: line}
}

// RecordRecvNone records that nothing was received (the literal None).
func (r *Recorder) RecordRecvNone() {
	r.queue <- entry{direction: Recv, isNone: true}
}

// RecordSend records a sent message's one-line textual representation.
func (r *Recorder) RecordSend(line string) {
	r.queue <- entry{direction: Send, line: line}
}

// RecordSendNone records that nothing was sent (the literal None).
func (r *Recorder) RecordSendNone() {
	r.queue <- entry{direction: Send, isNone: true}
}

// Close enqueues the null sentinel; the writer goroutine flushes and exits
// after draining everything enqueued before it. Safe to call on every exit
// path (normal, error, interrupt).
func (r *Recorder) Close() {
	r.queue <- entry{sentinel: true}
}

// Wait blocks until the writer goroutine has flushed and exited, i.e. until
// the sentinel enqueued by Close has been drained.
func (r *Recorder) Wait() {
	<-r.done
}

// QueueDepth returns the number of entries currently buffered, for gauges
// that sample it periodically (see pkg/metrics.Metrics.RecorderQueueDepth).
func (r *Recorder) QueueDepth() int {
	return len(r.queue)
}
