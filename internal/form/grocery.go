package form

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lwaller/marketlist/internal/model"
	"github.com/lwaller/marketlist/internal/store"
)

const (
	titleMin   = 2
	titleMax   = 30
	addressMin = 10
	addressMax = 60
)

// StoreForm carries the fields for creating or editing a grocery store.
type StoreForm struct {
	Title   string
	Address string
	Errors  Errors
}

// NewStoreForm returns a form pre-populated from an existing store, or an
// empty form when st is nil.
func NewStoreForm(st *model.GroceryStore) *StoreForm {
	f := &StoreForm{Errors: Errors{}}
	if st != nil {
		f.Title = st.Title
		f.Address = st.Address
	}
	return f
}

// Bind replaces the form's fields with the submitted values.
func (f *StoreForm) Bind(r *http.Request) {
	f.Title = strings.TrimSpace(r.FormValue("title"))
	f.Address = strings.TrimSpace(r.FormValue("address"))
}

// Validate runs every field rule and reports whether all passed.
func (f *StoreForm) Validate() bool {
	f.Errors = Errors{}

	if f.Title == "" {
		f.Errors.add("title", "Store name is required")
	} else if n := utf8.RuneCountInString(f.Title); n < titleMin || n > titleMax {
		f.Errors.add("title", fmt.Sprintf("Store name must be between %d and %d characters", titleMin, titleMax))
	}

	if f.Address == "" {
		f.Errors.add("address", "Address is required")
	} else if n := utf8.RuneCountInString(f.Address); n < addressMin || n > addressMax {
		f.Errors.add("address", fmt.Sprintf("Address must be between %d and %d characters", addressMin, addressMax))
	}

	return len(f.Errors) == 0
}

// ItemForm carries the fields for creating or editing a grocery item. Raw
// string values are kept for redisplay; Price and StoreID expose the parsed
// values after a successful Validate.
type ItemForm struct {
	Name        string
	PriceInput  string
	Category    string
	PhotoURL    string
	StoreChoice string // store id as submitted; empty means unassigned
	Errors      Errors

	Price   float64
	StoreID *int64
}

// NewItemForm returns a form pre-populated from an existing item, or an empty
// form when item is nil.
func NewItemForm(item *model.GroceryItem) *ItemForm {
	f := &ItemForm{Errors: Errors{}}
	if item != nil {
		f.Name = item.Name
		f.PriceInput = strconv.FormatFloat(item.Price, 'f', -1, 64)
		f.Category = string(item.Category)
		f.PhotoURL = item.PhotoURL
		if item.StoreID != nil {
			f.StoreChoice = strconv.FormatInt(*item.StoreID, 10)
		}
	}
	return f
}

// Bind replaces the form's fields with the submitted values.
func (f *ItemForm) Bind(r *http.Request) {
	f.Name = strings.TrimSpace(r.FormValue("name"))
	f.PriceInput = strings.TrimSpace(r.FormValue("price"))
	f.Category = r.FormValue("category")
	f.PhotoURL = strings.TrimSpace(r.FormValue("photo_url"))
	f.StoreChoice = r.FormValue("store")
}

// Validate runs every field rule and reports whether all passed. The store
// choice, when present, must reference an existing store; that lookup goes
// through groceries and a lookup failure is returned as err.
func (f *ItemForm) Validate(groceries *store.GroceryStore) (bool, error) {
	f.Errors = Errors{}
	f.Price = 0
	f.StoreID = nil

	if f.Name == "" {
		f.Errors.add("name", "Item name is required")
	}

	if f.PriceInput == "" {
		f.Errors.add("price", "Price is required")
	} else if price, err := strconv.ParseFloat(f.PriceInput, 64); err != nil {
		f.Errors.add("price", "Price must be a number")
	} else {
		f.Price = price
	}

	if f.Category == "" {
		f.Errors.add("category", "Category is required")
	} else if !model.ItemCategory(f.Category).Valid() {
		f.Errors.add("category", "Choose one of the listed categories")
	}

	if f.PhotoURL == "" {
		f.Errors.add("photo_url", "Photo URL is required")
	}

	if f.StoreChoice != "" {
		id, err := strconv.ParseInt(f.StoreChoice, 10, 64)
		if err != nil {
			f.Errors.add("store", "Choose one of the listed stores")
		} else {
			st, err := groceries.GetStoreByID(id)
			if err != nil {
				return false, fmt.Errorf("validate store choice: %w", err)
			}
			if st == nil {
				f.Errors.add("store", "Choose one of the listed stores")
			} else {
				f.StoreID = &st.ID
			}
		}
	}

	return len(f.Errors) == 0, nil
}
