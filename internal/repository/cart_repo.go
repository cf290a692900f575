package repository

import (
	"errors"

	"go-commerce-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction; any error rolls back every write made through it.
	Transaction(fn func(CartRepository) error) error

	FindByOwner(owner model.CartOwner) (*model.Cart, error)
	FindByID(id uuid.UUID) (*model.Cart, error)
	Create(cart *model.Cart) error
	Delete(id uuid.UUID) error
	UpdateTotals(cartID uuid.UUID, subtotal, tax, total decimal.Decimal) error

	FindItemByID(id uuid.UUID) (*model.CartItem, error)
	FindItem(cartID, productID uuid.UUID) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItemQuantity(itemID uuid.UUID, quantity int) error
	DeleteItem(itemID uuid.UUID) error
	DeleteAllItems(cartID uuid.UUID) error
	ListItems(cartID uuid.UUID) ([]model.CartItem, error)
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

func (r *cartRepo) Transaction(fn func(CartRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&cartRepo{db: tx})
	})
}

// preloadCart loads items with their product and category for response formatting.
func preloadCart(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Items.Product").Preload("Items.Product.Category")
}

func (r *cartRepo) FindByOwner(owner model.CartOwner) (*model.Cart, error) {
	var cart model.Cart
	q := preloadCart(r.db)

	switch o := owner.(type) {
	case model.UserOwner:
		q = q.Where("user_id = ?", o.UserID)
	case model.GuestOwner:
		q = q.Where("session_id = ?", o.SessionID)
	default:
		return nil, model.ErrIdentityRequired
	}

	err := q.First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepo) FindByID(id uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := preloadCart(r.db).First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepo) Create(cart *model.Cart) error {
	return r.db.Create(cart).Error
}

// Cart rows and items are hard-deleted: a soft-deleted item would still
// occupy the (cart_id, product_id) unique index.
func (r *cartRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Cart{}, "id = ?", id).Error
	})
}

func (r *cartRepo) UpdateTotals(cartID uuid.UUID, subtotal, tax, total decimal.Decimal) error {
	return r.db.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"subtotal": subtotal,
			"tax":      tax,
			"total":    total,
		}).Error
}

func (r *cartRepo) FindItemByID(id uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepo) FindItem(cartID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepo) CreateItem(item *model.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartRepo) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	return r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *cartRepo) DeleteItem(itemID uuid.UUID) error {
	return r.db.Unscoped().Delete(&model.CartItem{}, "id = ?", itemID).Error
}

func (r *cartRepo) DeleteAllItems(cartID uuid.UUID) error {
	return r.db.Unscoped().Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}

func (r *cartRepo) ListItems(cartID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).Find(&items).Error
	return items, err
}
