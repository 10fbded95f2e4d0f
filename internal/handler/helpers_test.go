package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/lwaller/marketlist/internal/auth"
	"github.com/lwaller/marketlist/internal/database"
	"github.com/lwaller/marketlist/internal/store"
	"github.com/lwaller/marketlist/internal/websocket"
)

type testEnv struct {
	users     *store.UserStore
	sessions  *store.SessionStore
	groceries *store.GroceryStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		users:     store.NewUserStore(db),
		sessions:  store.NewSessionStore(db),
		groceries: store.NewGroceryStore(db),
		hub:       websocket.NewHub(logger),
		logger:    logger,
	}
}

func (e *testEnv) createUser(t *testing.T, username, password string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := e.users.Create(username, string(hash))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

// postForm builds an authenticated POST carrying urlencoded form values.
func postForm(t *testing.T, target string, values url.Values, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return authenticated(req, userID)
}

func getReq(target string, userID int64) *http.Request {
	return authenticated(httptest.NewRequest("GET", target, nil), userID)
}

func authenticated(req *http.Request, userID int64) *http.Request {
	if userID == 0 {
		return req
	}
	ctx := auth.WithAuth(req.Context(), auth.AuthContext{UserID: userID, Username: "tester", SessionID: 1})
	return req.WithContext(ctx)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != location {
		t.Errorf("Location = %q, want %q", loc, location)
	}
}

func assertContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body does not contain %q", want)
	}
}
