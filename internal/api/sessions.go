package api

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/encodecfg/internal/advanced"
	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/events"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/metrics"
	"github.com/smazurov/encodecfg/internal/task"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

// DefaultSessionLimit caps concurrent sessions when none is configured.
const DefaultSessionLimit = 64

// Session is one controller plus the lock that serializes access to it.
type Session struct {
	mu             sync.Mutex
	id             string
	createdAt      time.Time
	ctrl           *controller.Controller
	advancedResets int
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *controller.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl)
}

// SessionManagerOptions configures a SessionManager.
type SessionManagerOptions struct {
	Settings controller.Settings
	Builder  advanced.OptionBuilder
	Caps     task.HostCapabilities
	EventBus *events.Bus
	Limit    int
}

// SessionManager owns the open sessions and fans setting changes out to them.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     SessionManagerOptions
	unsub    func()
	logger   *slog.Logger
}

// NewSessionManager creates a manager. With an event bus, setting change
// events are applied to every open session.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSessionLimit
	}
	m := &SessionManager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logging.GetLogger("api"),
	}
	if opts.EventBus != nil {
		m.unsub = opts.EventBus.Subscribe(m.onSettingChanged)
	}
	return m
}

// Create opens a session holding the default task.
func (m *SessionManager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.opts.Limit {
		return nil, ErrSessionLimit
	}

	s := &Session{id: uuid.NewString(), createdAt: time.Now()}
	ctrlOpts := controller.Options{
		SessionID:       s.id,
		Settings:        m.opts.Settings,
		Builder:         m.opts.Builder,
		Caps:            m.opts.Caps,
		OnResetAdvanced: func() { s.advancedResets++ },
	}
	if m.opts.EventBus != nil {
		ctrlOpts.Notifier = m.opts.EventBus
	}
	s.ctrl = controller.New(ctrlOpts)

	m.sessions[s.id] = s
	metrics.SetSessionsActive(len(m.sessions))
	m.logger.Info("Session opened", "session", s.id, "active", len(m.sessions))
	return s, nil
}

// Get returns the session with id.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns the open sessions, oldest first.
func (m *SessionManager) List() []*Session {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Session) int {
		return a.createdAt.Compare(b.createdAt)
	})
	return list
}

// Delete closes the session with id.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	if _, ok := m.sessions[id]; !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	metrics.SetSessionsActive(active)
	if m.opts.EventBus != nil {
		m.opts.EventBus.Publish(events.SessionClosedEvent{SessionID: id, Timestamp: time.Now().Format(time.RFC3339)})
	}
	m.logger.Info("Session closed", "session", id, "active", active)
	return nil
}

// Close stops listening for setting changes.
func (m *SessionManager) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

func (m *SessionManager) onSettingChanged(e events.SettingChangedEvent) {
	for _, s := range m.List() {
		var changed controller.ChangeSet
		s.Do(func(c *controller.Controller) {
			changed = c.OnSettingChanged(e.Key)
		})
		if len(changed) > 0 {
			m.logger.Debug("Session updated for setting change", "session", s.id, "key", e.Key, "changed", changed.Strings())
		}
	}
}
