package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartOwner is the identity a cart is keyed by: an authenticated user
// or an anonymous guest session.
type CartOwner interface {
	cartOwner()
}

// UserOwner identifies the cart of an authenticated user.
type UserOwner struct {
	UserID uuid.UUID
}

// GuestOwner identifies an anonymous cart keyed by a session token.
type GuestOwner struct {
	SessionID string
}

func (UserOwner) cartOwner()  {}
func (GuestOwner) cartOwner() {}

type Cart struct {
	BaseModel
	UserID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"` // at most one cart per user
	SessionID *string         `gorm:"type:varchar(255);index" json:"session_id,omitempty"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Tax       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"` // snapshot at first add

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
}

// CartResponse is the formatted cart returned to API callers.
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    *uuid.UUID         `json:"user_id,omitempty"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Tax       decimal.Decimal    `json:"tax"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	UpdatedAt string             `json:"updated_at"`
}

type CartItemResponse struct {
	ID         uuid.UUID           `json:"id"`
	ProductID  uuid.UUID           `json:"product_id"`
	Product    CartProductResponse `json:"product"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
	TotalPrice decimal.Decimal     `json:"total_price"`
}

type CartProductResponse struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Price    decimal.Decimal      `json:"price"`
	SKU      string               `json:"sku"`
	Images   string               `json:"images"`
	Category CartCategoryResponse `json:"category"`
}

type CartCategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ToResponse converts a cart (with items, products, and categories preloaded)
// into the flattened API shape.
func (c *Cart) ToResponse() *CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	itemCount := 0

	for _, item := range c.Items {
		resp := CartItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			resp.Product = CartProductResponse{
				ID:     item.Product.ID,
				Name:   item.Product.Name,
				Price:  item.Product.Price,
				SKU:    item.Product.SKU,
				Images: item.Product.Images,
			}
			if item.Product.Category != nil {
				resp.Product.Category = CartCategoryResponse{
					ID:   item.Product.Category.ID,
					Name: item.Product.Category.Name,
					Slug: item.Product.Category.Slug,
				}
			}
		}
		itemCount += item.Quantity
		items = append(items, resp)
	}

	return &CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		Subtotal:  c.Subtotal,
		Tax:       c.Tax,
		Total:     c.Total,
		ItemCount: itemCount,
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
