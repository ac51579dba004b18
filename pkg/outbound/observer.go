package outbound

import (
	"log/slog"
	"sync"
)

// subscribers holds the queue's callback registrations. Each invocation is
// isolated: a panicking subscriber is logged and the remaining subscribers
// are still notified, so observers can never break a queue operation.
type subscribers struct {
	mu       sync.RWMutex
	onSent   []func(Message)
	onFailed []func(Message, string)
	onStats  []func(Stats)
	logger   *slog.Logger
}

func newSubscribers(logger *slog.Logger) *subscribers {
	return &subscribers{logger: logger}
}

func (s *subscribers) addSent(cb func(Message)) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSent = append(s.onSent, cb)
}

func (s *subscribers) addFailed(cb func(Message, string)) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFailed = append(s.onFailed, cb)
}

func (s *subscribers) addStats(cb func(Stats)) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStats = append(s.onStats, cb)
}

func (s *subscribers) notifySent(msg Message) {
	s.mu.RLock()
	callbacks := s.onSent
	s.mu.RUnlock()

	for _, cb := range callbacks {
		s.invoke("message sent", func() { cb(msg) })
	}
}

func (s *subscribers) notifyFailed(msg Message, errMsg string) {
	s.mu.RLock()
	callbacks := s.onFailed
	s.mu.RUnlock()

	for _, cb := range callbacks {
		s.invoke("message failed", func() { cb(msg, errMsg) })
	}
}

func (s *subscribers) notifyStats(stats Stats) {
	s.mu.RLock()
	callbacks := s.onStats
	s.mu.RUnlock()

	for _, cb := range callbacks {
		s.invoke("stats changed", func() { cb(stats) })
	}
}

// invoke runs one subscriber callback, containing any panic.
func (s *subscribers) invoke(event string, cb func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("subscriber panicked",
				slog.String("event", event),
				slog.Any("panic", r))
		}
	}()
	cb()
}
