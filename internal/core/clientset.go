package core

import "sync"

// clientSet tracks every attached connection, joined or not, keyed by
// connection id.
type clientSet struct {
	mu   sync.RWMutex
	byID map[string]*Client
}

func newClientSet() *clientSet {
	return &clientSet{byID: make(map[string]*Client)}
}

func (s *clientSet) add(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = c
}

func (s *clientSet) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *clientSet) get(id string) (*Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}

// list returns a point-in-time copy so fan-out never iterates a map that a
// concurrent attach or detach is mutating.
func (s *clientSet) list() []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Client, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	return out
}
