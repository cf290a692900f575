package model

import "errors"

// Domain errors shared by services and mapped to HTTP statuses by handlers.
var (
	ErrIdentityRequired       = errors.New("either a user or a session identity is required")
	ErrValidation             = errors.New("validation failed")
	ErrProductNotFound        = errors.New("product not found")
	ErrProductUnavailable     = errors.New("product is not available")
	ErrInsufficientStock      = errors.New("insufficient stock available")
	ErrInvalidQuantity        = errors.New("quantity must be greater than zero")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrCartNotFound           = errors.New("cart not found")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderState      = errors.New("only pending orders can be cancelled")
	ErrInvalidOrderStatus     = errors.New("invalid order status")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrPersistenceUnavailable = errors.New("database connection unavailable")
)
