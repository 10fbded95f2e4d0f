package model

import "time"

type GroceryStore struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
