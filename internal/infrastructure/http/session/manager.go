package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	lru "github.com/hashicorp/golang-lru"
	"github.com/mrops-br/catalog-ui/internal/app/controller"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/view"
)

const (
	cookieName = "catalog_session"
	screenKey  = "screen_id"
)

// Workspace pairs a browser session's screen with the controller drawing on it
type Workspace struct {
	ID         string
	Screen     *view.Screen
	Controller *controller.CatalogController
}

// ControllerFactory builds the controller for a new screen
type ControllerFactory func(surface controller.Surface) *controller.CatalogController

// Manager maps session cookies to workspaces. Only the most recently used
// workspaces are kept; an evicted session starts over with a fresh screen.
type Manager struct {
	store         *sessions.CookieStore
	newController ControllerFactory
	logger        *slog.Logger

	mu         sync.Mutex
	workspaces *lru.Cache
}

// NewManager creates a session manager holding at most maxSessions
// workspaces. An empty secret signs cookies with a random key.
func NewManager(secret string, maxSessions int, factory ControllerFactory, logger *slog.Logger) (*Manager, error) {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("failed to generate session key")
		}
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	workspaces, err := lru.New(maxSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace cache: %w", err)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:         store,
		newController: factory,
		logger:        logger,
		workspaces:    workspaces,
	}, nil
}

// Workspace returns the workspace of the requesting session, creating one
// and setting the session cookie when none exists. fresh reports whether
// the workspace was created by this call.
func (m *Manager) Workspace(w http.ResponseWriter, r *http.Request) (ws *Workspace, fresh bool, err error) {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		m.logger.DebugContext(r.Context(), "Discarding unreadable session cookie",
			slog.String("error", err.Error()),
		)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := sess.Values[screenKey].(string); ok {
		if cached, ok := m.workspaces.Get(id); ok {
			return cached.(*Workspace), false, nil
		}
	}

	screen := view.NewScreen()
	ws = &Workspace{
		ID:         uuid.New().String(),
		Screen:     screen,
		Controller: m.newController(screen),
	}

	sess.Values[screenKey] = ws.ID
	if err := sess.Save(r, w); err != nil {
		return nil, false, fmt.Errorf("failed to save session: %w", err)
	}

	if evicted := m.workspaces.Add(ws.ID, ws); evicted {
		m.logger.InfoContext(r.Context(), "Evicted least recently used workspace",
			slog.Int("max_sessions", m.workspaces.Len()),
		)
	}

	m.logger.DebugContext(r.Context(), "Created workspace",
		slog.String("workspace_id", ws.ID),
		slog.String("controller_id", ws.Controller.ID()),
	)
	return ws, true, nil
}

// Len returns the number of live workspaces
func (m *Manager) Len() int {
	return m.workspaces.Len()
}
