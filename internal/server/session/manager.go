package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	keyUsername = "username"
	keyUserID   = "user_id"
	keyState    = "state"
)

// Info is the per-session context: who is logged in and where they are.
type Info struct {
	Username string
	UserID   int64
	State    State
}

// Manager keeps Info in fiber's in-memory session store. Nothing is
// persisted; a restart logs everybody out.
type Manager struct {
	store *fibersession.Store
}

func NewManager(idleTimeout time.Duration) *Manager {
	return &Manager{store: fibersession.New(fibersession.Config{
		Expiration:     idleTimeout,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})}
}

// Load returns the session of the request; a fresh session is Anonymous.
func (m *Manager) Load(c *fiber.Ctx) (*Info, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	return infoFrom(sess), nil
}

func infoFrom(sess *fibersession.Session) *Info {
	info := &Info{State: Anonymous}
	if v, ok := sess.Get(keyState).(string); ok && v != "" {
		info.State = State(v)
	}
	info.Username, _ = sess.Get(keyUsername).(string)
	info.UserID, _ = sess.Get(keyUserID).(int64)
	if info.Username == "" || info.UserID == 0 {
		info.State = Anonymous
	}
	return info
}

// Login binds the session to a user. An already logged-in session is
// logged out first, so a second login switches the user.
func (m *Manager) Login(c *fiber.Ctx, userID int64, username string) (*Info, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	cur := infoFrom(sess)
	if cur.State.IsAuthenticated() {
		if _, err := Transition(cur.State, EventLogout); err != nil {
			return nil, err
		}
	}
	next, err := Transition(Anonymous, EventAuthenticate)
	if err != nil {
		return nil, err
	}

	// fresh id on privilege change
	if err := sess.Regenerate(); err != nil {
		return nil, fmt.Errorf("session regenerate: %w", err)
	}
	sess.Set(keyUsername, username)
	sess.Set(keyUserID, userID)
	sess.Set(keyState, string(next))
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("session save: %w", err)
	}

	return &Info{Username: username, UserID: userID, State: next}, nil
}

// Apply fires ev on the request's session and stores the new state.
func (m *Manager) Apply(c *fiber.Ctx, ev Event) (*Info, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	info := infoFrom(sess)
	next, err := Transition(info.State, ev)
	if err != nil {
		return info, err
	}

	if next == Anonymous {
		if err := sess.Destroy(); err != nil {
			return nil, fmt.Errorf("session destroy: %w", err)
		}
		return &Info{State: Anonymous}, nil
	}

	sess.Set(keyState, string(next))
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("session save: %w", err)
	}
	info.State = next
	return info, nil
}

// Logout clears the session.
func (m *Manager) Logout(c *fiber.Ctx) error {
	_, err := m.Apply(c, EventLogout)
	return err
}
