package http

import (
	"context"
	"net/http"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionCookieName = "session"

// requireAuth resolves the session cookie to a user and stores it in the
// request context. Unauthenticated requests are redirected to the login page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessionUser(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) sessionUser(r *http.Request) (*core.User, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	token, ok := s.signer.Verify(cookie.Value)
	if !ok {
		return nil, false
	}
	user, err := s.store.GetSessionUser(r.Context(), token)
	if err != nil {
		return nil, false
	}
	return user, true
}

// userFrom returns the authenticated user stored by requireAuth.
func userFrom(ctx context.Context) *core.User {
	user, _ := ctx.Value(userContextKey).(*core.User)
	return user
}

// startSession creates a persisted session for userID and sets the signed
// session cookie on the response.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(r.Context(), token, userID, expiresAt); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.signer.Sign(token),
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// endSession deletes the persisted session, if any, and expires the cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if token, ok := s.signer.Verify(cookie.Value); ok {
			if err := s.store.DeleteSession(r.Context(), token); err != nil {
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed deleting session", applog.FieldError, err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
