package logger

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultQueueSize = 256

type ConsoleLogger struct {
	log     *log.Logger
	id      uuid.UUID
	queue   chan LogMessage
	done    chan struct{}
	dropped uint64
	mutex   sync.RWMutex
	closed  bool
}

// NewConsoleLogger constructs a sink that writes log messages
// to the provided logrus logger, tagged with a correlation id
// fixed for the lifetime of the sink. Messages are written by a
// single worker reading from a queue of the provided size.
func NewConsoleLogger(l *log.Logger, queueSize int) *ConsoleLogger {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	c := &ConsoleLogger{
		log:   l,
		id:    uuid.New(),
		queue: make(chan LogMessage, queueSize),
		done:  make(chan struct{}),
	}
	go c.run()
	l.WithField("CorrelationID", c.id.String()).Debug("Console logger created")
	return c
}

// CorrelationID returns the id attached to every entry
// written by this sink.
func (c *ConsoleLogger) CorrelationID() string {
	return c.id.String()
}

// Dropped returns the number of messages discarded because
// the queue was full.
func (c *ConsoleLogger) Dropped() uint64 {
	return atomic.LoadUint64(&c.dropped)
}

// Log queues the message for writing and returns immediately.
// When the queue is full the message is dropped, and after
// Close it is ignored.
func (c *ConsoleLogger) Log(message LogMessage) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.closed {
		return
	}
	select {
	case c.queue <- message:
	default:
		atomic.AddUint64(&c.dropped, 1)
	}
}

// Close writes the messages still in the queue and stops
// the worker.
func (c *ConsoleLogger) Close() {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.mutex.Unlock()

	<-c.done
	if d := c.Dropped(); d > 0 {
		c.log.WithField("Dropped", d).Warn("Console logger dropped messages")
	}
}

func (c *ConsoleLogger) run() {
	defer close(c.done)
	for message := range c.queue {
		c.write(message)
	}
}

// write never panics: a broken hook or formatter must not
// take the worker down with it.
func (c *ConsoleLogger) write(message LogMessage) {
	defer func() {
		_ = recover()
	}()
	entry := c.log.WithFields(log.Fields{
		"Source":        message.Source,
		"CorrelationID": c.id.String(),
	})
	if message.Exception != nil {
		entry = entry.WithError(message.Exception)
	}
	// NOTE: Entry.Log does not exit at fatal level, unlike Entry.Fatal
	entry.Log(message.Severity.Level(), message.Message)
}
