package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lwaller/marketlist/internal/auth"
	"github.com/lwaller/marketlist/internal/form"
	"github.com/lwaller/marketlist/internal/store"
)

type AuthHandler struct {
	users     *store.UserStore
	sessions  *store.SessionStore
	templates *template.Template
	logger    *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     us,
		sessions:  ss,
		templates: parseTemplates(),
		logger:    logger,
	}
}

func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderSignUp(w, form.NewSignUpForm())
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewSignUpForm()
	f.Bind(r)

	ok, err := f.Validate(h.users)
	if err != nil {
		h.logger.Error("signup validate", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		h.renderSignUp(w, f)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if _, err := h.users.Create(f.Username, string(hash)); err != nil {
		h.logger.Error("create user", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Account created. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, form.NewLoginForm(), r.URL.Query().Get("next"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewLoginForm()
	f.Bind(r)
	next := r.FormValue("next")

	ok, err := f.Validate(h.users)
	if err != nil {
		h.logger.Error("login validate", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		h.renderLogin(w, r, f, next)
		return
	}

	sess, err := h.sessions.Create(f.User.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   90 * 24 * 60 * 60, // matches session expiry
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderSignUp(w http.ResponseWriter, f *form.SignUpForm) {
	render(w, h.templates, h.logger, "signup.html", map[string]any{
		"Form": f,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, f *form.LoginForm, next string) {
	render(w, h.templates, h.logger, "login.html", map[string]any{
		"Form":  f,
		"Next":  next,
		"Flash": popFlash(w, r),
	})
}

// safeNext keeps post-login redirects on this site. Anything but a local
// absolute path falls back to the home page.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
