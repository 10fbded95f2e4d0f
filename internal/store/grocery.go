package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lwaller/marketlist/internal/model"
)

// GroceryStore provides access to grocery stores and the items they stock.
type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- Store methods ---

func scanStore(scanner interface{ Scan(...any) error }) (*model.GroceryStore, error) {
	var st model.GroceryStore
	err := scanner.Scan(&st.ID, &st.Title, &st.Address, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

const storeCols = `id, title, address, created_by, created_at, updated_at`

func (s *GroceryStore) CreateStore(title, address string, createdBy int64) (*model.GroceryStore, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_stores (title, address, created_by) VALUES (?, ?, ?)`,
		title, address, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert store: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetStoreByID(id)
}

func (s *GroceryStore) GetStoreByID(id int64) (*model.GroceryStore, error) {
	row := s.db.QueryRow(`SELECT `+storeCols+` FROM grocery_stores WHERE id = ?`, id)
	st, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return st, nil
}

func (s *GroceryStore) ListStores() ([]model.GroceryStore, error) {
	rows, err := s.db.Query(`SELECT ` + storeCols + ` FROM grocery_stores ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []model.GroceryStore
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, *st)
	}
	return stores, rows.Err()
}

func (s *GroceryStore) ListStoresByCreator(userID int64) ([]model.GroceryStore, error) {
	rows, err := s.db.Query(`SELECT `+storeCols+` FROM grocery_stores WHERE created_by = ? ORDER BY title ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list stores by creator: %w", err)
	}
	defer rows.Close()

	var stores []model.GroceryStore
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, *st)
	}
	return stores, rows.Err()
}

// UpdateStore changes a store's title and address. The creator is immutable
// and never touched.
func (s *GroceryStore) UpdateStore(id int64, title, address string) (*model.GroceryStore, error) {
	_, err := s.db.Exec(
		`UPDATE grocery_stores SET title = ?, address = ?, updated_at = ? WHERE id = ?`,
		title, address, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}
	return s.GetStoreByID(id)
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var storeID sql.NullInt64

	err := scanner.Scan(
		&item.ID, &item.Name, &item.Price, &item.Category, &item.PhotoURL,
		&storeID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if storeID.Valid {
		item.StoreID = &storeID.Int64
	}
	return &item, nil
}

const itemCols = `id, name, price, category, photo_url, store_id, created_by, created_at, updated_at`

func (s *GroceryStore) CreateItem(name string, price float64, category model.ItemCategory, photoURL string, storeID *int64, createdBy int64) (*model.GroceryItem, error) {
	var sID sql.NullInt64
	if storeID != nil {
		sID = sql.NullInt64{Int64: *storeID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO grocery_items (name, price, category, photo_url, store_id, created_by) VALUES (?, ?, ?, ?, ?, ?)`,
		name, price, string(category), photoURL, sID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *GroceryStore) GetItemByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) ListItems() ([]model.GroceryItem, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM grocery_items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (s *GroceryStore) ListItemsByStore(storeID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM grocery_items WHERE store_id = ? ORDER BY category ASC, name ASC`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by store: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (s *GroceryStore) ListItemsByCreator(userID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM grocery_items WHERE created_by = ? ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by creator: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// UpdateItem changes an item's fields, including reassigning (or clearing)
// its store. The creator is immutable and never touched.
func (s *GroceryStore) UpdateItem(id int64, name string, price float64, category model.ItemCategory, photoURL string, storeID *int64) (*model.GroceryItem, error) {
	var sID sql.NullInt64
	if storeID != nil {
		sID = sql.NullInt64{Int64: *storeID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE grocery_items SET name = ?, price = ?, category = ?, photo_url = ?, store_id = ?, updated_at = ? WHERE id = ?`,
		name, price, string(category), photoURL, sID, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetItemByID(id)
}

func collectItems(rows *sql.Rows) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
