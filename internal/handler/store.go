package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lwaller/marketlist/internal/auth"
	"github.com/lwaller/marketlist/internal/form"
	"github.com/lwaller/marketlist/internal/model"
	"github.com/lwaller/marketlist/internal/store"
	"github.com/lwaller/marketlist/internal/websocket"
)

type StoreHandler struct {
	groceries *store.GroceryStore
	hub       *websocket.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewStoreHandler(gs *store.GroceryStore, hub *websocket.Hub, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		groceries: gs,
		hub:       hub,
		templates: parseTemplates(),
		logger:    logger,
	}
}

// Home lists all stores. It is the only page visible without logging in.
func (h *StoreHandler) Home(w http.ResponseWriter, r *http.Request) {
	stores, err := h.groceries.ListStores()
	if err != nil {
		h.logger.Error("list stores", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "home.html", map[string]any{
		"Stores":   stores,
		"Username": auth.Username(r.Context()),
		"Flash":    popFlash(w, r),
	})
}

func (h *StoreHandler) NewStorePage(w http.ResponseWriter, r *http.Request) {
	render(w, h.templates, h.logger, "store_new.html", map[string]any{
		"Form": form.NewStoreForm(nil),
	})
}

func (h *StoreHandler) NewStore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewStoreForm(nil)
	f.Bind(r)

	if !f.Validate() {
		render(w, h.templates, h.logger, "store_new.html", map[string]any{
			"Form": f,
		})
		return
	}

	st, err := h.groceries.CreateStore(f.Title, f.Address, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create store", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(websocket.NewEvent("store", "created", st.ID))
	setFlash(w, "New store has been added.")
	http.Redirect(w, r, fmt.Sprintf("/store/%d", st.ID), http.StatusSeeOther)
}

func (h *StoreHandler) StoreDetail(w http.ResponseWriter, r *http.Request) {
	st, ok := h.loadStore(w, r)
	if !ok {
		return
	}
	h.renderDetail(w, r, st, form.NewStoreForm(st))
}

func (h *StoreHandler) StoreUpdate(w http.ResponseWriter, r *http.Request) {
	st, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewStoreForm(nil)
	f.Bind(r)

	if !f.Validate() {
		h.renderDetail(w, r, st, f)
		return
	}

	updated, err := h.groceries.UpdateStore(st.ID, f.Title, f.Address)
	if err != nil {
		h.logger.Error("update store", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(websocket.NewEvent("store", "updated", updated.ID))
	setFlash(w, "The store's info has been updated.")
	http.Redirect(w, r, fmt.Sprintf("/store/%d", updated.ID), http.StatusSeeOther)
}

// loadStore resolves the {id} path parameter to a store, writing the error
// response itself when the id is malformed or the store does not exist.
func (h *StoreHandler) loadStore(w http.ResponseWriter, r *http.Request) (*model.GroceryStore, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return nil, false
	}

	st, err := h.groceries.GetStoreByID(id)
	if err != nil {
		h.logger.Error("get store", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return nil, false
	}
	if st == nil {
		http.Error(w, "store not found", http.StatusNotFound)
		return nil, false
	}
	return st, true
}

func (h *StoreHandler) renderDetail(w http.ResponseWriter, r *http.Request, st *model.GroceryStore, f *form.StoreForm) {
	items, err := h.groceries.ListItemsByStore(st.ID)
	if err != nil {
		h.logger.Error("list store items", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "store_detail.html", map[string]any{
		"Store": st,
		"Items": items,
		"Form":  f,
		"Flash": popFlash(w, r),
	})
}
