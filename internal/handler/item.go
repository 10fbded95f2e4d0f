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

type ItemHandler struct {
	groceries *store.GroceryStore
	users     *store.UserStore
	hub       *websocket.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewItemHandler(gs *store.GroceryStore, us *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		groceries: gs,
		users:     us,
		hub:       hub,
		templates: parseTemplates(),
		logger:    logger,
	}
}

func (h *ItemHandler) NewItemPage(w http.ResponseWriter, r *http.Request) {
	h.renderItemForm(w, "item_new.html", map[string]any{
		"Form": form.NewItemForm(nil),
	})
}

func (h *ItemHandler) NewItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewItemForm(nil)
	f.Bind(r)

	ok, err := f.Validate(h.groceries)
	if err != nil {
		h.logger.Error("validate item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		h.renderItemForm(w, "item_new.html", map[string]any{
			"Form": f,
		})
		return
	}

	item, err := h.groceries.CreateItem(f.Name, f.Price, model.ItemCategory(f.Category), f.PhotoURL, f.StoreID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(websocket.NewEvent("item", "created", item.ID))
	setFlash(w, "New item has been added.")
	http.Redirect(w, r, fmt.Sprintf("/item/%d", item.ID), http.StatusSeeOther)
}

func (h *ItemHandler) ItemDetail(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}
	h.renderDetail(w, r, item, form.NewItemForm(item))
}

func (h *ItemHandler) ItemUpdate(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	f := form.NewItemForm(nil)
	f.Bind(r)

	valid, err := f.Validate(h.groceries)
	if err != nil {
		h.logger.Error("validate item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !valid {
		h.renderDetail(w, r, item, f)
		return
	}

	updated, err := h.groceries.UpdateItem(item.ID, f.Name, f.Price, model.ItemCategory(f.Category), f.PhotoURL, f.StoreID)
	if err != nil {
		h.logger.Error("update item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(websocket.NewEvent("item", "updated", updated.ID))
	setFlash(w, "The item's info has been updated.")
	http.Redirect(w, r, fmt.Sprintf("/item/%d", updated.ID), http.StatusSeeOther)
}

// AddToShoppingList puts the item on the current user's shopping list. Adding
// the same item again is allowed and produces another list entry.
func (h *ItemHandler) AddToShoppingList(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	if err := h.users.AddShoppingListItem(auth.UserID(r.Context()), item.ID); err != nil {
		h.logger.Error("add shopping list item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	setFlash(w, fmt.Sprintf("%s has been added to your shopping list.", item.Name))
	http.Redirect(w, r, fmt.Sprintf("/item/%d", item.ID), http.StatusSeeOther)
}

func (h *ItemHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.ListShoppingListItems(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list shopping list items", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	render(w, h.templates, h.logger, "shopping_list.html", map[string]any{
		"Items":    items,
		"Username": auth.Username(r.Context()),
		"Flash":    popFlash(w, r),
	})
}

func (h *ItemHandler) loadItem(w http.ResponseWriter, r *http.Request) (*model.GroceryItem, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return nil, false
	}

	item, err := h.groceries.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return nil, false
	}
	if item == nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return nil, false
	}
	return item, true
}

func (h *ItemHandler) renderDetail(w http.ResponseWriter, r *http.Request, item *model.GroceryItem, f *form.ItemForm) {
	h.renderItemForm(w, "item_detail.html", map[string]any{
		"Item":  item,
		"Form":  f,
		"Flash": popFlash(w, r),
	})
}

// renderItemForm adds the select-box option lists every item form needs.
func (h *ItemHandler) renderItemForm(w http.ResponseWriter, name string, data map[string]any) {
	stores, err := h.groceries.ListStores()
	if err != nil {
		h.logger.Error("list stores", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	data["Stores"] = stores
	data["Categories"] = model.Categories()
	render(w, h.templates, h.logger, name, data)
}
