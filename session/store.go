// Package session provides the keyed in-memory conversation store with
// time-based expiry. Sessions live for the lifetime of the hosting process; a
// restart loses them all, which is a documented property of this store, not a
// defect.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/logging"
)

// ErrSessionExpired is returned when an append races an eviction: the session
// vanished mid-turn and the caller must start a new one.
var ErrSessionExpired = errors.New("session: session expired")

// memSession is the stored representation. Its mutex serializes appends and
// snapshot reads per session id, so unrelated sessions never contend.
type memSession struct {
	mu           sync.Mutex
	id           string
	messages     []core.Message
	lastModified time.Time
}

// StoreOptions configure a Store.
type StoreOptions struct {
	Logger logging.Logger
	// Now overrides the clock, primarily for expiry tests.
	Now func() time.Time
}

// Store maps session ids to their conversation transcripts. The outer RWMutex
// only guards the map itself: lookups and appends take it for reading, so
// concurrent turns on different sessions proceed in parallel, each serialized
// by its own session mutex. Sweep takes it exclusively.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string]*memSession
	systemPrompt string
	logger       logging.Logger
	now          func() time.Time
}

// NewStore constructs an empty store. Every new session is seeded with the
// given system prompt as its immutable first message.
func NewStore(systemPrompt string, optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions:     make(map[string]*memSession),
		systemPrompt: systemPrompt,
		logger:       opts.Logger,
		now:          opts.Now,
	}
}

// GetOrCreate returns the session id and a snapshot of its messages, creating
// the session first when id is empty or unknown. New sessions get a generated
// unique id and the pinned system message.
func (s *Store) GetOrCreate(id string) (string, []core.Message) {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		sess, ok = s.sessions[id]
		if !ok {
			sess = &memSession{
				id:           id,
				messages:     []core.Message{core.SystemMessage(s.systemPrompt)},
				lastModified: s.now(),
			}
			s.sessions[id] = sess
			s.logger.Info("session.created", "session_id", id)
		}
		s.mu.Unlock()
	}

	return id, sess.snapshot()
}

// Append adds messages to a session's transcript and refreshes its
// last-modified time. If the sweep evicted the session in the meantime the
// append fails with ErrSessionExpired instead of silently resurrecting it.
func (s *Store) Append(id string, msgs ...core.Message) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return ErrSessionExpired
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.messages = append(sess.messages, msgs...)
	sess.lastModified = s.now()
	return nil
}

// Messages returns a snapshot of a session's transcript.
func (s *Store) Messages(id string) ([]core.Message, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return sess.snapshot(), true
}

// Sweep removes every session idle strictly longer than idleThreshold
// relative to now and returns the eviction count. A session idle exactly at
// the threshold is retained. The exclusive map lock makes the sweep atomic
// with respect to appends.
func (s *Store) Sweep(now time.Time, idleThreshold time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastModified)
		sess.mu.Unlock()
		if idle > idleThreshold {
			delete(s.sessions, id)
			evicted++
			s.logger.Info("session.evicted", "session_id", id, "idle", idle.String())
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot returns a defensive copy of the transcript so callers can never
// mutate stored state.
func (m *memSession) snapshot() []core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]core.Message, len(m.messages))
	copy(msgs, m.messages)
	return msgs
}
