package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the in-memory session registry. Sessions live for the duration
// of a guest's visit and are swept after a period of inactivity.
type Service struct {
	gw  Gateway
	hub *Hub
	cfg Config
	log zerolog.Logger
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewService creates a registry. A nil hub disables event push.
func NewService(gw Gateway, hub *Hub, cfg Config, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		gw:       gw,
		hub:      hub,
		cfg:      cfg,
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*entry),
		stop:     make(chan struct{}),
	}
}

// Create opens a new session and returns its id.
func (s *Service) Create() string {
	id := uuid.NewString()

	var notifier Notifier
	if s.hub != nil {
		notifier = s.hub
	}
	ctrl := NewController(id, s.gw, notifier, s.cfg, s.log)

	s.mu.Lock()
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: time.Now()}
	s.mu.Unlock()

	s.log.Info().Str("session_id", id).Msg("Session created")
	return id
}

// Get returns the controller for a session and marks it active.
func (s *Service) Get(id string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	return e.ctrl, nil
}

// Close ends a session and removes it from the registry.
func (s *Service) Close(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.ctrl.Close()
	s.log.Info().Str("session_id", id).Msg("Session closed")
	return nil
}

// Len reports how many sessions are currently registered.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor sweeps idle sessions on the given interval until Shutdown.
func (s *Service) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

// sweep closes and removes sessions idle past the TTL.
func (s *Service) sweep(now time.Time) {
	s.mu.Lock()
	var expired []*entry
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			expired = append(expired, e)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.ctrl.Close()
	}
	if len(expired) > 0 {
		s.log.Info().Int("count", len(expired)).Msg("Swept idle sessions")
	}
}

// Shutdown stops the janitor and closes every live session.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	entries := make([]*entry, 0, len(s.sessions))
	for id, e := range s.sessions {
		delete(s.sessions, id)
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.ctrl.Close()
	}
}
