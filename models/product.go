package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord is a row of the products table joined with its category name
type ProductRecord struct {
	ID           int             `json:"id"`
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	DisplayOrder int             `json:"display_order"`
	Active       bool            `json:"active"`
	OnSale       bool            `json:"on_sale"`
	IsNew        bool            `json:"is_new"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductInput is the body of product create/update requests
type ProductInput struct {
	Name         string           `json:"name"`
	CategoryID   int              `json:"category_id"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description"`
	DisplayOrder *int             `json:"display_order"`
	Active       *bool            `json:"active"`
	OnSale       *bool            `json:"on_sale"`
	IsNew        *bool            `json:"is_new"`
}

// ProductFilter narrows product listings
type ProductFilter struct {
	CategoryID *int
	Active     *bool
}
