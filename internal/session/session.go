package session

import "sync"

// Flow is an in-progress multi-step conversation (lead capture).
type Flow struct {
	Name string
	Step int
	Data map[string]string
}

// Chat is everything the front end remembers about one conversation.
type Chat struct {
	Championship string // slug
	SeasonID     string
	Flow         Flow

	dismissed map[string]bool
	gen       uint64
}

// Store keeps per-chat state. Each fetch that will write into a chat takes
// a generation with Begin; only the latest generation may apply its result.
type Store struct {
	mu    sync.Mutex
	chats map[int64]*Chat
}

func New() *Store {
	return &Store{chats: map[int64]*Chat{}}
}

func (s *Store) chat(id int64) *Chat {
	c, ok := s.chats[id]
	if !ok {
		c = &Chat{dismissed: map[string]bool{}}
		s.chats[id] = c
	}
	return c
}

// Get returns a copy of the chat state.
func (s *Store) Get(id int64) Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.chat(id)
	c.dismissed = nil
	return c
}

func (s *Store) Update(id int64, fn func(c *Chat)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.chat(id))
}

// Begin starts a new generation for the chat, superseding older ones.
func (s *Store) Begin(id int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.chat(id)
	c.gen++
	return c.gen
}

// Current reports whether gen is still the latest generation.
func (s *Store) Current(id int64, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat(id).gen == gen
}

// ApplyIfCurrent runs fn only when gen is still the latest generation.
func (s *Store) ApplyIfCurrent(id int64, gen uint64, fn func(c *Chat)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.chat(id)
	if c.gen != gen {
		return false
	}
	fn(c)
	return true
}

// Dismiss remembers that the pre-registration notice of a season was closed.
func (s *Store) Dismiss(id int64, seasonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat(id).dismissed[seasonID] = true
}

func (s *Store) Dismissed(id int64, seasonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat(id).dismissed[seasonID]
}

// ResetFlow drops any in-progress conversation flow.
func (s *Store) ResetFlow(id int64) {
	s.Update(id, func(c *Chat) { c.Flow = Flow{} })
}
