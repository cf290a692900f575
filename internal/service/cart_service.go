package service

import (
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate applied to cart subtotals.
var TaxRate = decimal.NewFromFloat(0.10)

type CartService interface {
	GetOrCreateCart(owner model.CartOwner) (*model.CartResponse, error)
	AddToCart(cartID, productID uuid.UUID, quantity int) (*model.CartResponse, error)
	UpdateCartItem(cartItemID uuid.UUID, quantity int) (*model.CartResponse, error)
	RemoveCartItem(cartItemID uuid.UUID) (*model.CartResponse, error)
	ClearCart(cartID uuid.UUID) (*model.CartResponse, error)
	MergeGuestCart(userID uuid.UUID, guestSessionID string) (*model.CartResponse, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetOrCreateCart(owner model.CartOwner) (*model.CartResponse, error) {
	cart, err := s.findOrCreate(owner)
	if err != nil {
		return nil, err
	}
	return cart.ToResponse(), nil
}

// findOrCreate resolves the owner's cart, creating an empty one on first access.
func (s *cartService) findOrCreate(owner model.CartOwner) (*model.Cart, error) {
	if owner == nil {
		return nil, model.ErrIdentityRequired
	}

	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &model.Cart{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	switch o := owner.(type) {
	case model.UserOwner:
		cart.UserID = &o.UserID
	case model.GuestOwner:
		sessionID := o.SessionID
		cart.SessionID = &sessionID
	}

	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddToCart(cartID, productID uuid.UUID, quantity int) (*model.CartResponse, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	// Missing and inactive products are indistinguishable to callers.
	product, err := s.productRepo.FindActiveByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	existing, err := s.cartRepo.FindItem(cartID, productID)
	if err != nil {
		return nil, err
	}

	// Repeated adds accumulate; the stock check covers the accumulated quantity.
	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, model.ErrInsufficientStock
		}
		err = s.cartRepo.Transaction(func(tx repository.CartRepository) error {
			if err := tx.UpdateItemQuantity(existing.ID, newQuantity); err != nil {
				return err
			}
			return s.recalculateTotals(tx, cartID)
		})
	} else {
		if product.Stock < quantity {
			return nil, model.ErrInsufficientStock
		}
		item := &model.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price, // snapshot, never refreshed on recalculation
		}
		err = s.cartRepo.Transaction(func(tx repository.CartRepository) error {
			if err := tx.CreateItem(item); err != nil {
				return err
			}
			return s.recalculateTotals(tx, cartID)
		})
	}
	if err != nil {
		return nil, err
	}

	return s.getCart(cartID)
}

func (s *cartService) UpdateCartItem(cartItemID uuid.UUID, quantity int) (*model.CartResponse, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveCartItem(cartItemID)
	}

	item, err := s.cartRepo.FindItemByID(cartItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}
	if item.Product == nil {
		return nil, model.ErrProductNotFound
	}
	if item.Product.Stock < quantity {
		return nil, model.ErrInsufficientStock
	}

	err = s.cartRepo.Transaction(func(tx repository.CartRepository) error {
		if err := tx.UpdateItemQuantity(item.ID, quantity); err != nil {
			return err
		}
		return s.recalculateTotals(tx, item.CartID)
	})
	if err != nil {
		return nil, err
	}

	return s.getCart(item.CartID)
}

func (s *cartService) RemoveCartItem(cartItemID uuid.UUID) (*model.CartResponse, error) {
	item, err := s.cartRepo.FindItemByID(cartItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	err = s.cartRepo.Transaction(func(tx repository.CartRepository) error {
		if err := tx.DeleteItem(item.ID); err != nil {
			return err
		}
		return s.recalculateTotals(tx, item.CartID)
	})
	if err != nil {
		return nil, err
	}

	return s.getCart(item.CartID)
}

// ClearCart empties the cart and zeroes totals. Idempotent.
func (s *cartService) ClearCart(cartID uuid.UUID) (*model.CartResponse, error) {
	err := s.cartRepo.Transaction(func(tx repository.CartRepository) error {
		if err := tx.DeleteAllItems(cartID); err != nil {
			return err
		}
		return tx.UpdateTotals(cartID, decimal.Zero, decimal.Zero, decimal.Zero)
	})
	if err != nil {
		return nil, err
	}

	return s.getCart(cartID)
}

// MergeGuestCart replays every guest item against the user's cart, so stock and
// accumulation rules apply to merge exactly as to direct adds. The guest cart is
// deleted afterwards. A missing or empty guest cart is a no-op.
func (s *cartService) MergeGuestCart(userID uuid.UUID, guestSessionID string) (*model.CartResponse, error) {
	userCart, err := s.findOrCreate(model.UserOwner{UserID: userID})
	if err != nil {
		return nil, err
	}

	guestCart, err := s.cartRepo.FindByOwner(model.GuestOwner{SessionID: guestSessionID})
	if err != nil {
		return nil, err
	}
	if guestCart == nil || len(guestCart.Items) == 0 {
		return userCart.ToResponse(), nil
	}

	for _, guestItem := range guestCart.Items {
		if _, err := s.AddToCart(userCart.ID, guestItem.ProductID, guestItem.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Delete(guestCart.ID); err != nil {
		return nil, err
	}

	return s.getCart(userCart.ID)
}

// recalculateTotals derives subtotal, tax, and total from the current item set.
// Runs inside the same transaction as the mutation that triggered it.
func (s *cartService) recalculateTotals(tx repository.CartRepository, cartID uuid.UUID) error {
	items, err := tx.ListItems(cartID)
	if err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax)

	return tx.UpdateTotals(cartID, subtotal, tax, total)
}

func (s *cartService) getCart(cartID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	return cart.ToResponse(), nil
}
