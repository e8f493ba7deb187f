package studio

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/grid"
)

const (
	sessionCookie = "acctgen_session"
	sessionTTL    = 12 * time.Hour
)

// session is one browser's editor plus its last generated scripts.
type session struct {
	editor *grid.Editor

	mu       sync.Mutex
	last     *generator.Result
	lastSeen time.Time
}

func (s *session) setResult(res generator.Result) {
	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
}

func (s *session) result() (generator.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return generator.Result{}, false
	}
	return *s.last, true
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// get returns the session for id, creating one (and a new id) when id is
// unknown or malformed.
func (st *sessionStore) get(raw string) (uuid.UUID, *session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if id, err := uuid.Parse(raw); err == nil {
		if s, ok := st.sessions[id]; ok {
			s.lastSeen = now
			return id, s, false
		}
	}

	st.evictLocked(now)
	id := uuid.New()
	s := &session{editor: grid.NewEditor(), lastSeen: now}
	st.sessions[id] = s
	return id, s, true
}

func (st *sessionStore) evictLocked(now time.Time) {
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

const sessionKey = "session"

// sessionMiddleware attaches the caller's session to the request context and
// issues a cookie for new sessions.
func (srv *Server) sessionMiddleware(c *fiber.Ctx) error {
	id, s, created := srv.sessions.get(c.Cookies(sessionCookie))
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    id.String(),
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(sessionKey, s)
	return c.Next()
}

func currentSession(c *fiber.Ctx) *session {
	s, _ := c.Locals(sessionKey).(*session)
	return s
}
