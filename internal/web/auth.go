package web

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"petwatch/internal/auth"
	"petwatch/internal/store"
)

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &PageData{Title: "Sign up"})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign up",
			Error: "Enter a username and password.",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign up",
			Error: "Signup failed, please try again.",
		})
		return
	}

	user, err := store.CreateUser(r.Context(), s.DB, username, string(hash))
	if errors.Is(err, store.ErrUsernameTaken) {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign up",
			Error: "Username already taken",
		})
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Sign up",
			Error: "Signup failed, please try again.",
		})
		return
	}

	slog.Info("account created", "user", user.Username)
	s.Templates.Render(w, "login.html", &PageData{
		Title:   "Log in",
		Success: "Account created. Please log in.",
	})
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Log in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Enter a username and password.",
		})
		return
	}

	// Missing user and wrong password render the same message.
	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil || user == nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Invalid credentials",
		})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Username)
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Login failed, please try again.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})

	slog.Info("user logged in", "user", user.Username)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles GET /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
