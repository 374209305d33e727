package logger

import "sync"

// Stream is the log output of a single component. Sinks
// subscribe to it and receive every message emitted afterwards.
type Stream struct {
	subscribers     []Logger
	subscribersSync sync.Mutex
}

func NewStream() *Stream {
	return &Stream{
		subscribers: make([]Logger, 0),
	}
}

func (s *Stream) Subscribe(l Logger) {
	s.subscribersSync.Lock()
	defer s.subscribersSync.Unlock()

	s.subscribers = append(s.subscribers, l)
}

func (s *Stream) Emit(message LogMessage) {
	s.subscribersSync.Lock()
	l := s.subscribers
	s.subscribersSync.Unlock()

	for _, sub := range l {
		sub.Log(message)
	}
}

// EmitText emits a message without an exception.
func (s *Stream) EmitText(severity Severity, source string, message string) {
	s.Emit(LogMessage{
		Severity: severity,
		Source:   source,
		Message:  message,
	})
}
