package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/bfgbuilds/buildmanager/web/models"
)

const (
	SessionCookieName = "albion_session"
	sessionLifetime   = 30 * 24 * time.Hour
	// maxSessions bounds the server-side store; the oldest sessions get
	// evicted first, which just forces a re-login.
	maxSessions = 4096
)

// SessionService keeps sessions server-side in an LRU cache and hands the
// browser an HMAC-signed session id.
type SessionService struct {
	secret   []byte
	secure   bool
	sessions *lru.Cache
}

func NewSessionService(secret string, secure bool) (*SessionService, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret not configured")
	}

	cache, err := lru.New(maxSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &SessionService{
		secret:   []byte(secret),
		secure:   secure,
		sessions: cache,
	}, nil
}

// CreateSession stores a new session for the user and sets the cookie.
func (s *SessionService) CreateSession(c *fiber.Ctx, user *models.PublicUser) (*models.UserSession, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &models.UserSession{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(sessionLifetime),
	}
	s.sessions.Add(id, session)

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    s.sign(id),
		Path:     "/",
		MaxAge:   int(sessionLifetime / time.Second),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session created",
		slog.String("type", "web"),
		slog.String("username", user.Username))
	return session, nil
}

// GetSession resolves the request's cookie to a live session.
func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	cookie := c.Cookies(SessionCookieName)
	if cookie == "" {
		return nil, fmt.Errorf("no session cookie found")
	}

	id, err := s.verify(cookie)
	if err != nil {
		return nil, fmt.Errorf("invalid session cookie: %w", err)
	}

	value, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	session := value.(*models.UserSession)

	if session.Expired() {
		s.DestroySession(c)
		return nil, fmt.Errorf("session expired")
	}
	return session, nil
}

// DestroySession drops the server-side session and clears the cookie.
func (s *SessionService) DestroySession(c *fiber.Ctx) {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		if id, err := s.verify(cookie); err == nil {
			s.sessions.Remove(id)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func newSessionID() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// sign appends an HMAC-SHA256 signature so a forged cookie never reaches the
// session cache.
func (s *SessionService) sign(id string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	sig := h.Sum(nil)
	return id + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (s *SessionService) verify(cookie string) (string, error) {
	dot := -1
	for i := len(cookie) - 1; i >= 0; i-- {
		if cookie[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return "", fmt.Errorf("malformed cookie")
	}

	id, encodedSig := cookie[:dot], cookie[dot+1:]
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", fmt.Errorf("malformed signature")
	}

	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("signature verification failed")
	}
	return id, nil
}
