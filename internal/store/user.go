package store

import (
	"database/sql"
	"fmt"

	"github.com/lwaller/marketlist/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, username, password_hash, created_at`

func (s *UserStore) Create(username, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByUsername returns the user with the exact (case-sensitive) username,
// or nil if no such account exists.
func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// AddShoppingListItem appends an item to the user's shopping list. Adding the
// same item twice appends a second row.
func (s *UserStore) AddShoppingListItem(userID, itemID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO shopping_list_items (user_id, item_id) VALUES (?, ?)`,
		userID, itemID,
	)
	if err != nil {
		return fmt.Errorf("add shopping list item: %w", err)
	}
	return nil
}

// ListShoppingListItems returns the items on the user's shopping list in the
// order they were added.
func (s *UserStore) ListShoppingListItems(userID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.price, i.category, i.photo_url, i.store_id, i.created_by, i.created_at, i.updated_at
		 FROM grocery_items i
		 JOIN shopping_list_items sl ON sl.item_id = i.id
		 WHERE sl.user_id = ?
		 ORDER BY sl.added_at ASC, sl.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping list items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
