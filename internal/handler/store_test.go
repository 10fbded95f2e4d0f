package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func storeHandlerFor(e *testEnv) *StoreHandler {
	return NewStoreHandler(e.groceries, e.hub, e.logger)
}

func TestHomeListsStores(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	if _, err := e.groceries.CreateStore("Corner Market", "12 Elm Street, Springfield", uid); err != nil {
		t.Fatalf("create store: %v", err)
	}

	h := storeHandlerFor(e)
	rec := httptest.NewRecorder()
	h.Home(rec, getReq("/", 0))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	assertContains(t, rec, "Corner Market")
	assertContains(t, rec, "12 Elm Street, Springfield")
	// Not signed in, so the nav offers login.
	assertContains(t, rec, "Log In")
}

func TestHomeShowsUsernameWhenSignedIn(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")

	h := storeHandlerFor(e)
	rec := httptest.NewRecorder()
	h.Home(rec, getReq("/", uid))

	assertContains(t, rec, "Signed in as tester")
	assertContains(t, rec, "Shopping List")
}

func TestNewStorePage(t *testing.T) {
	e := setupHandlerTest(t)
	h := storeHandlerFor(e)

	rec := httptest.NewRecorder()
	h.NewStorePage(rec, getReq("/new_store", 1))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	assertContains(t, rec, "New Grocery Store")
}

func TestNewStoreValid(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	h := storeHandlerFor(e)

	rec := httptest.NewRecorder()
	h.NewStore(rec, postForm(t, "/new_store", url.Values{
		"title":   {"Corner Market"},
		"address": {"12 Elm Street, Springfield"},
	}, uid))

	stores, err := e.groceries.ListStores()
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(stores) != 1 {
		t.Fatalf("stores = %d, want 1", len(stores))
	}
	assertRedirect(t, rec, fmt.Sprintf("/store/%d", stores[0].ID))

	if stores[0].CreatedBy != uid {
		t.Errorf("CreatedBy = %d, want %d", stores[0].CreatedBy, uid)
	}

	// Flash is queued for the next page.
	foundFlash := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName && c.Value != "" {
			foundFlash = true
		}
	}
	if !foundFlash {
		t.Error("expected flash cookie to be set")
	}
}

func TestNewStoreInvalidReRenders(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	h := storeHandlerFor(e)

	rec := httptest.NewRecorder()
	h.NewStore(rec, postForm(t, "/new_store", url.Values{
		"title":   {"X"},
		"address": {"12 Elm Street, Springfield"},
	}, uid))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	assertContains(t, rec, "Store name must be between 2 and 30 characters")
	// Submitted values survive the round trip.
	assertContains(t, rec, `value="X"`)
	assertContains(t, rec, `value="12 Elm Street, Springfield"`)

	stores, err := e.groceries.ListStores()
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(stores) != 0 {
		t.Errorf("stores = %d, want 0", len(stores))
	}
}

func TestStoreDetailNotFound(t *testing.T) {
	e := setupHandlerTest(t)
	h := storeHandlerFor(e)

	req := getReq("/store/999", 1)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	h.StoreDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStoreDetailShowsItems(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	st, err := e.groceries.CreateStore("Corner Market", "12 Elm Street, Springfield", uid)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if _, err := e.groceries.CreateItem("Sourdough Loaf", 4.50, "BAKERY", "http://example.com/bread.jpg", &st.ID, uid); err != nil {
		t.Fatalf("create item: %v", err)
	}

	h := storeHandlerFor(e)
	req := getReq(fmt.Sprintf("/store/%d", st.ID), uid)
	req.SetPathValue("id", fmt.Sprint(st.ID))
	rec := httptest.NewRecorder()
	h.StoreDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	assertContains(t, rec, "Corner Market")
	assertContains(t, rec, "Sourdough Loaf")
	assertContains(t, rec, "$4.50")
}

func TestStoreUpdateValid(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	st, err := e.groceries.CreateStore("Corner Market", "12 Elm Street, Springfield", uid)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	h := storeHandlerFor(e)
	req := postForm(t, fmt.Sprintf("/store/%d", st.ID), url.Values{
		"title":   {"Corner Market II"},
		"address": {"99 Oak Avenue, Springfield"},
	}, uid)
	req.SetPathValue("id", fmt.Sprint(st.ID))
	rec := httptest.NewRecorder()
	h.StoreUpdate(rec, req)

	assertRedirect(t, rec, fmt.Sprintf("/store/%d", st.ID))

	updated, err := e.groceries.GetStoreByID(st.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if updated.Title != "Corner Market II" {
		t.Errorf("Title = %q, want %q", updated.Title, "Corner Market II")
	}
	if updated.Address != "99 Oak Avenue, Springfield" {
		t.Errorf("Address = %q, want %q", updated.Address, "99 Oak Avenue, Springfield")
	}
	if updated.CreatedBy != uid {
		t.Errorf("CreatedBy changed on update: %d", updated.CreatedBy)
	}
}

func TestStoreUpdateInvalidReRenders(t *testing.T) {
	e := setupHandlerTest(t)
	uid := e.createUser(t, "alice", "secret")
	st, err := e.groceries.CreateStore("Corner Market", "12 Elm Street, Springfield", uid)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	h := storeHandlerFor(e)
	req := postForm(t, fmt.Sprintf("/store/%d", st.ID), url.Values{
		"title":   {"Corner Market"},
		"address": {"too short"},
	}, uid)
	req.SetPathValue("id", fmt.Sprint(st.ID))
	rec := httptest.NewRecorder()
	h.StoreUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	assertContains(t, rec, "Address must be between 10 and 60 characters")

	unchanged, err := e.groceries.GetStoreByID(st.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if unchanged.Address != "12 Elm Street, Springfield" {
		t.Errorf("Address = %q, want unchanged", unchanged.Address)
	}
}

func TestStoreUpdateNotFound(t *testing.T) {
	e := setupHandlerTest(t)
	h := storeHandlerFor(e)

	req := postForm(t, "/store/42", url.Values{
		"title":   {"Corner Market"},
		"address": {"12 Elm Street, Springfield"},
	}, 1)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	h.StoreUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
