package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrHasProducts is returned when deleting a category that still has products
	ErrHasProducts = errors.New("cannot delete category with products. Delete products first")
	// ErrCategoryMissing is returned when a product references an unknown category
	ErrCategoryMissing = errors.New("category does not exist")
	// ErrNoSnapshot is returned when the snapshot store is empty
	ErrNoSnapshot = errors.New("no catalog snapshot stored")
)
