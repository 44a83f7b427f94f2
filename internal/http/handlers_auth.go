package http

import (
	"errors"
	"net/http"
	"strings"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

// authView carries a flash-style message into the login and signup pages.
type authView struct {
	Error  string
	Notice string
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", name)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	view := authView{}
	if r.URL.Query().Get("registered") == "1" {
		view.Notice = "Signup successful. Please login."
	}
	s.renderPage(w, r, http.StatusOK, "login.html", view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "login.html", authView{Error: "Invalid form submission."})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	logger := applog.FromContext(r.Context()).With(applog.FieldUsername, username)

	user, err := s.auth.Login(r.Context(), username, password)
	switch {
	case errors.Is(err, auth.ErrLockedOut):
		logger.WarnContext(r.Context(), "Login blocked by lockout", applog.FieldOperation, applog.OpLogin)
		s.renderPage(w, r, http.StatusTooManyRequests, "login.html", authView{Error: "Too many failed attempts. Try again later."})
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.WarnContext(r.Context(), "Login failed", applog.FieldOperation, applog.OpLogin)
		s.renderPage(w, r, http.StatusUnauthorized, "login.html", authView{Error: "Invalid username or password."})
	case err != nil:
		logger.ErrorContext(r.Context(), "Login error", applog.FieldError, err)
		s.renderPage(w, r, http.StatusInternalServerError, "login.html", authView{Error: "An error occurred. Please try again."})
	default:
		if err := s.startSession(w, r, user.ID); err != nil {
			logger.ErrorContext(r.Context(), "Failed starting session", applog.FieldError, err)
			s.renderPage(w, r, http.StatusInternalServerError, "login.html", authView{Error: "An error occurred. Please try again."})
			return
		}
		logger.InfoContext(r.Context(), "Login succeeded",
			applog.FieldOperation, applog.OpLogin, applog.FieldUserID, user.ID)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "signup.html", authView{})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "signup.html", authView{Error: "Invalid form submission."})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	logger := applog.FromContext(r.Context()).With(applog.FieldUsername, username)

	_, err := s.auth.CreateAccount(r.Context(), username, password)
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		s.renderPage(w, r, http.StatusBadRequest, "signup.html", authView{Error: ve.Message})
	case errors.Is(err, core.ErrDuplicateUsername):
		s.renderPage(w, r, http.StatusConflict, "signup.html", authView{Error: "Username already exists."})
	case err != nil:
		logger.ErrorContext(r.Context(), "Signup error", applog.FieldError, err)
		s.renderPage(w, r, http.StatusInternalServerError, "signup.html", authView{Error: "An error occurred. Please try again."})
	default:
		logger.InfoContext(r.Context(), "Account created", applog.FieldOperation, applog.OpSignup)
		http.Redirect(w, r, "/login?registered=1", http.StatusFound)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}
