package api

import "sync"

// streamBufferSize bounds each subscriber channel. A slow SSE consumer
// drops results rather than stalling the frame loop.
const streamBufferSize = 16

// stream fans analysis results out to per-session SSE subscribers.
type stream struct {
	mu     sync.Mutex
	nextID int64
	subs   map[string]map[int64]chan []byte // session ID -> subscriber ID -> channel
}

func newStream() *stream {
	return &stream{subs: make(map[string]map[int64]chan []byte)}
}

// Subscribe registers a listener for one session's results.
func (s *stream) Subscribe(sessionID string) (int64, <-chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	ch := make(chan []byte, streamBufferSize)

	if s.subs[sessionID] == nil {
		s.subs[sessionID] = make(map[int64]chan []byte)
	}
	s.subs[sessionID][id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *stream) Unsubscribe(sessionID string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subs, ok := s.subs[sessionID]; ok {
		if ch, ok := subs[id]; ok {
			close(ch)
			delete(subs, id)
		}
		if len(subs) == 0 {
			delete(s.subs, sessionID)
		}
	}
}

// Publish delivers a payload to every subscriber of the session,
// dropping it for subscribers whose buffers are full.
func (s *stream) Publish(sessionID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[sessionID] {
		select {
		case ch <- payload:
		default:
		}
	}
}
