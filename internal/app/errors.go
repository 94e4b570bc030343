package app

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrCategoryExists = errors.New("category name already exists")

	// ErrUnknownCategory rejects a product write that references a missing category.
	ErrUnknownCategory = errors.New("category does not exist")
)
