package models

import "time"

// CategoryRecord is a row of the categories table
type CategoryRecord struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryInput is the body of category create/update requests
type CategoryInput struct {
	Name         string `json:"name"`
	DisplayOrder *int   `json:"display_order"`
	Active       *bool  `json:"active"`
}
