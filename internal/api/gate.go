package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Mkhisamo/learn-english/internal/errors"
	"github.com/Mkhisamo/learn-english/internal/logger"
)

const (
	parentCookieName = "parent_token"
	tokenTTL         = 30 * time.Minute
)

// Gate protects the word bank management endpoints behind the parent
// password. A successful unlock issues a short-lived token; the password
// check always takes the configured delay so response timing reveals
// nothing about the attempt.
type Gate struct {
	password string
	delay    time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time

	sleep func(time.Duration)
}

// NewGate creates a gate for the given parent password.
func NewGate(password string, delay time.Duration) *Gate {
	return &Gate{
		password: password,
		delay:    delay,
		tokens:   make(map[string]time.Time),
		sleep:    time.Sleep,
	}
}

// Unlock verifies the password and issues a token. An empty or wrong
// password fails with 401 after the same fixed delay.
func (g *Gate) Unlock(password string) (string, error) {
	g.sleep(g.delay)

	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return "", errors.NewUnauthorizedError("wrong password")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.NewInternalError(err)
	}
	token := hex.EncodeToString(b)

	g.mu.Lock()
	g.tokens[token] = time.Now().Add(tokenTTL)
	g.mu.Unlock()
	return token, nil
}

// Lock revokes a previously issued token.
func (g *Gate) Lock(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

// Valid reports whether the token is live, pruning it when expired.
func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(g.tokens, token)
		return false
	}
	return true
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	token, err := s.Gate.Unlock(req.Password)
	if err != nil {
		logger.FromContext(r.Context()).Warn("parent unlock rejected")
		handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     parentCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.FromContext(r.Context()).Info("parent mode unlocked")
	respondJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	s.Gate.Lock(gateToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:    parentCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	respondJSON(w, r, http.StatusNoContent, nil)
}

// gateToken extracts the parent token from the cookie or the
// Authorization header.
func gateToken(r *http.Request) string {
	if cookie, err := r.Cookie(parentCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// parentMiddleware rejects requests without a live parent token.
func (s *Server) parentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Gate.Valid(gateToken(r)) {
			logger.FromContext(r.Context()).Warn("parent token missing or expired")
			handleError(w, r, errors.NewUnauthorizedError("parent mode is locked"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
