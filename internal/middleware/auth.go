package middleware

import (
	"net/http"
	"net/url"

	"github.com/lwaller/marketlist/internal/auth"
	"github.com/lwaller/marketlist/internal/store"
)

const sessionCookieName = "marketlist_session"

// RequireAuth validates the session cookie and populates AuthContext.
// Unauthenticated requests are redirected to the login page with the
// originally requested path carried in the "next" query parameter, so the
// user lands back where they were headed after authenticating.
func RequireAuth(sessions *store.SessionStore, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			user, err := users.GetByID(sess.UserID)
			if err != nil || user == nil {
				redirectToLogin(w, r)
				return
			}

			ac := auth.AuthContext{
				UserID:    user.ID,
				Username:  user.Username,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	dest := "/login"
	if target := r.URL.RequestURI(); target != "" && target != "/" {
		dest = "/login?next=" + url.QueryEscape(target)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
