package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lwaller/marketlist/web"
)

const (
	sessionCookieName = "marketlist_session"
	flashCookieName   = "marketlist_flash"
)

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(web.Templates, "templates/*.html"))
}

func render(w http.ResponseWriter, tmpl *template.Template, logger *slog.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// setFlash queues a one-time message shown on the next rendered page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash returns the queued flash message, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
