package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	LogLevel string
}

// Service provides request event recording
type Service struct {
	config Config

	mu     sync.Mutex
	counts map[string]int64
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	return &Service{
		config: config,
		counts: map[string]int64{},
	}
}

// RecordEvent records a served-request event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	s.counts[eventName]++
	count := s.counts[eventName]
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] Event %s (#%d) recorded at %v with labels: %v",
		eventName, count, ts, labels)
}

// EventCounts returns a copy of the per-event counters since startup.
func (s *Service) EventCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(s.counts))
	for name, count := range s.counts {
		counts[name] = count
	}
	return counts
}
