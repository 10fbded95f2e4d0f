package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/justinas/alice"

	"github.com/lwaller/marketlist/internal/handler"
	"github.com/lwaller/marketlist/internal/middleware"
	"github.com/lwaller/marketlist/internal/store"
	ws "github.com/lwaller/marketlist/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	storeH       *handler.StoreHandler
	itemH        *handler.ItemHandler
	authH        *handler.AuthHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	groceryStore := store.NewGroceryStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		storeH:       handler.NewStoreHandler(groceryStore, hub, logger.With("component", "store")),
		itemH:        handler.NewItemHandler(groceryStore, userStore, hub, logger.With("component", "item")),
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /{$}", s.storeH.Home)
	outerMux.HandleFunc("GET /signup", s.authH.SignUpPage)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.SignUp))
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	chain := alice.New(middleware.RequestLogger(s.logger.With("component", "http")))
	return chain.Then(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /logout", s.authH.Logout)

	mux.HandleFunc("GET /new_store", s.storeH.NewStorePage)
	mux.HandleFunc("POST /new_store", s.storeH.NewStore)
	mux.HandleFunc("GET /store/{id}", s.storeH.StoreDetail)
	mux.HandleFunc("POST /store/{id}", s.storeH.StoreUpdate)

	mux.HandleFunc("GET /new_item", s.itemH.NewItemPage)
	mux.HandleFunc("POST /new_item", s.itemH.NewItem)
	mux.HandleFunc("GET /item/{id}", s.itemH.ItemDetail)
	mux.HandleFunc("POST /item/{id}", s.itemH.ItemUpdate)

	mux.HandleFunc("POST /add_to_shopping_list/{id}", s.itemH.AddToShoppingList)
	mux.HandleFunc("GET /shopping_list", s.itemH.ShoppingList)

	mux.HandleFunc("GET /ws", ws.Handle(s.hub))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
