package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the queue size used by New.
const DefaultCapacity = 1024

// Buffer delivers entries to its transporters from a single goroutine.
// When the queue is full the oldest queued entry is discarded.
type Buffer struct {
	queue        chan Entry
	transporters []Transporter
	fallback     io.Writer

	dropped   atomic.Int64
	closed    atomic.Bool
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewBuffer starts a delivery goroutine fanning out to transporters.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		queue:        make(chan Entry, capacity),
		transporters: transporters,
		fallback:     os.Stderr,
		stop:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go b.loop()
	return b
}

// Send enqueues entry without blocking. Entries sent after Close are ignored.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case b.queue <- entry:
			return
		default:
		}
		select {
		case <-b.queue:
			b.dropped.Add(1)
		default:
		}
	}
	b.dropped.Add(1)
}

// DroppedCount reports how many entries were discarded on overflow.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close drains the queue, then closes every transporter. It is idempotent.
func (b *Buffer) Close() {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		close(b.stop)
		<-b.stopped
		for {
			select {
			case entry := <-b.queue:
				b.deliver(entry)
				continue
			default:
			}
			break
		}
		for _, t := range b.transporters {
			if err := t.Close(); err != nil {
				fmt.Fprintf(b.fallback, "log transporter %q close: %v\n", t.Name(), err)
			}
		}
	})
}

func (b *Buffer) loop() {
	defer close(b.stopped)
	for {
		select {
		case entry := <-b.queue:
			b.deliver(entry)
		case <-b.stop:
			return
		}
	}
}

func (b *Buffer) deliver(entry Entry) {
	for _, t := range b.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(b.fallback, "log transporter %q: %v\n", t.Name(), err)
		}
	}
}
