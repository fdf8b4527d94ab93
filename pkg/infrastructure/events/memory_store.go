package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps the events of one session and notifies subscribers
// synchronously on append. Nothing is persisted.
//
// With a limit, the oldest events are evicted from the global log and from
// their streams alike. Stream versions keep counting across evictions, so
// ReadEvents addresses events by version, not by position.
type InMemoryEventStore struct {
	streams     map[string][]Event
	versions    map[string]int
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	limit       int
	logger      *zap.Logger
}

// NewInMemoryEventStore creates a store retaining at most limit events (0 = unlimited)
func NewInMemoryEventStore(limit int, logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		versions:    make(map[string]int),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		limit:       limit,
		logger:      logger,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	s.versions[streamID]++
	eventWithVersion := BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	if s.limit > 0 && len(s.allEvents) > s.limit {
		s.evict(len(s.allEvents) - s.limit)
	}

	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.Unlock()

	s.notify(handlers, eventWithVersion)
	return nil
}

// evict drops the n oldest events. The oldest event overall is always the
// oldest of its stream.
func (s *InMemoryEventStore) evict(n int) {
	for _, old := range s.allEvents[:n] {
		stream := s.streams[old.StreamID()][1:]
		if len(stream) == 0 {
			delete(s.streams, old.StreamID())
			continue
		}
		s.streams[old.StreamID()] = stream
	}
	s.allEvents = append([]Event(nil), s.allEvents[n:]...)
}

// ReadEvents returns the retained events of a stream from fromVersion on
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	for i, event := range events {
		if event.Version() >= fromVersion {
			return append([]Event(nil), events[i:]...), nil
		}
	}
	return []Event{}, nil
}

// ReadAllEvents returns the retained events from fromPosition on, oldest first
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", event.Type()),
				zap.String("stream", event.StreamID()),
				zap.Error(err))
		}
	}
}
