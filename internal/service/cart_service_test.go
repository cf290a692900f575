package service

import (
	"testing"

	"go-commerce-api/internal/mocks"
	"go-commerce-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*mocks.MockCartRepository, *mocks.MockProductRepository, CartService) {
	cartRepo := new(mocks.MockCartRepository)
	productRepo := new(mocks.MockProductRepository)
	return cartRepo, productRepo, NewCartService(cartRepo, productRepo)
}

func TestCartService_GetOrCreateCart(t *testing.T) {
	userID := uuid.New()

	t.Run("identity required", func(t *testing.T) {
		_, _, svc := newCartFixture()

		_, err := svc.GetOrCreateCart(nil)

		assert.ErrorIs(t, err, model.ErrIdentityRequired)
	})

	t.Run("returns existing user cart", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		existing := &model.Cart{UserID: &userID, Subtotal: dec("19.98"), Tax: dec("2.00"), Total: dec("21.98")}
		existing.ID = uuid.New()
		cartRepo.On("FindByOwner", model.UserOwner{UserID: userID}).Return(existing, nil)

		cart, err := svc.GetOrCreateCart(model.UserOwner{UserID: userID})

		assert.NoError(t, err)
		assert.Equal(t, existing.ID, cart.ID)
		assert.True(t, cart.Total.Equal(dec("21.98")))
		cartRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("creates guest cart on first access", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		cartRepo.On("FindByOwner", model.GuestOwner{SessionID: "sess-1"}).Return(nil, nil)
		cartRepo.On("Create", mock.AnythingOfType("*model.Cart")).Return(nil).Run(func(args mock.Arguments) {
			cart := args.Get(0).(*model.Cart)
			cart.ID = uuid.New()
		})

		cart, err := svc.GetOrCreateCart(model.GuestOwner{SessionID: "sess-1"})

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, cart.ID)
		assert.True(t, cart.Subtotal.IsZero())
		assert.True(t, cart.Tax.IsZero())
		assert.True(t, cart.Total.IsZero())
		assert.Equal(t, 0, cart.ItemCount)
		cartRepo.AssertExpectations(t)
	})
}

func TestCartService_AddToCart(t *testing.T) {
	cartID := uuid.New()
	productID := uuid.New()

	product := func(stock int) *model.Product {
		p := &model.Product{Name: "Widget", SKU: "W-1", Price: dec("9.99"), Stock: stock, IsActive: true}
		p.ID = productID
		return p
	}

	t.Run("fresh item snapshots price and recalculates totals", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()
		productRepo.On("FindActiveByID", productID).Return(product(10), nil)
		cartRepo.On("FindItem", cartID, productID).Return(nil, nil)
		cartRepo.On("CreateItem", mock.AnythingOfType("*model.CartItem")).Return(nil).Run(func(args mock.Arguments) {
			item := args.Get(0).(*model.CartItem)
			assert.Equal(t, 2, item.Quantity)
			assert.True(t, item.UnitPrice.Equal(dec("9.99")))
		})
		cartRepo.On("ListItems", cartID).Return([]model.CartItem{
			{CartID: cartID, ProductID: productID, Quantity: 2, UnitPrice: dec("9.99")},
		}, nil)
		cartRepo.On("UpdateTotals", cartID, decEq("19.98"), decEq("2.00"), decEq("21.98")).Return(nil)

		hydrated := &model.Cart{Subtotal: dec("19.98"), Tax: dec("2.00"), Total: dec("21.98"), Items: []model.CartItem{
			{CartID: cartID, ProductID: productID, Quantity: 2, UnitPrice: dec("9.99"), Product: product(8)},
		}}
		hydrated.ID = cartID
		cartRepo.On("FindByID", cartID).Return(hydrated, nil)

		cart, err := svc.AddToCart(cartID, productID, 2)

		assert.NoError(t, err)
		assert.Equal(t, 2, cart.ItemCount)
		assert.True(t, cart.Subtotal.Equal(dec("19.98")))
		assert.True(t, cart.Tax.Equal(dec("2.00")))
		assert.True(t, cart.Total.Equal(dec("21.98")))
		cartRepo.AssertExpectations(t)
	})

	t.Run("repeated add accumulates quantity", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()
		existing := &model.CartItem{CartID: cartID, ProductID: productID, Quantity: 1, UnitPrice: dec("9.99")}
		existing.ID = uuid.New()

		productRepo.On("FindActiveByID", productID).Return(product(10), nil)
		cartRepo.On("FindItem", cartID, productID).Return(existing, nil)
		cartRepo.On("UpdateItemQuantity", existing.ID, 3).Return(nil)
		cartRepo.On("ListItems", cartID).Return([]model.CartItem{
			{CartID: cartID, ProductID: productID, Quantity: 3, UnitPrice: dec("9.99")},
		}, nil)
		cartRepo.On("UpdateTotals", cartID, decEq("29.97"), decEq("3.00"), decEq("32.97")).Return(nil)

		hydrated := &model.Cart{}
		hydrated.ID = cartID
		cartRepo.On("FindByID", cartID).Return(hydrated, nil)

		_, err := svc.AddToCart(cartID, productID, 2)

		assert.NoError(t, err)
		cartRepo.AssertExpectations(t)
	})

	t.Run("insufficient stock on accumulation leaves cart unchanged", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()
		existing := &model.CartItem{CartID: cartID, ProductID: productID, Quantity: 2, UnitPrice: dec("9.99")}
		existing.ID = uuid.New()

		productRepo.On("FindActiveByID", productID).Return(product(3), nil)
		cartRepo.On("FindItem", cartID, productID).Return(existing, nil)

		_, err := svc.AddToCart(cartID, productID, 2)

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		cartRepo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything)
		cartRepo.AssertNotCalled(t, "UpdateTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock for fresh item", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()
		productRepo.On("FindActiveByID", productID).Return(product(1), nil)
		cartRepo.On("FindItem", cartID, productID).Return(nil, nil)

		_, err := svc.AddToCart(cartID, productID, 2)

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		cartRepo.AssertNotCalled(t, "CreateItem", mock.Anything)
	})

	t.Run("missing or inactive product", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()
		productRepo.On("FindActiveByID", productID).Return(nil, nil)

		_, err := svc.AddToCart(cartID, productID, 1)

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		cartRepo.AssertNotCalled(t, "FindItem", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, _, svc := newCartFixture()

		_, err := svc.AddToCart(cartID, productID, 0)

		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	})
}

func TestCartService_UpdateCartItem(t *testing.T) {
	cartID := uuid.New()
	itemID := uuid.New()

	t.Run("quantity zero removes the item", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		item := &model.CartItem{CartID: cartID, Quantity: 2, UnitPrice: dec("5.00")}
		item.ID = itemID

		cartRepo.On("FindItemByID", itemID).Return(item, nil)
		cartRepo.On("DeleteItem", itemID).Return(nil)
		cartRepo.On("ListItems", cartID).Return([]model.CartItem{}, nil)
		cartRepo.On("UpdateTotals", cartID, decEq("0"), decEq("0"), decEq("0")).Return(nil)

		hydrated := &model.Cart{}
		hydrated.ID = cartID
		cartRepo.On("FindByID", cartID).Return(hydrated, nil)

		_, err := svc.UpdateCartItem(itemID, 0)

		assert.NoError(t, err)
		cartRepo.AssertExpectations(t)
	})

	t.Run("negative quantity is invalid", func(t *testing.T) {
		_, _, svc := newCartFixture()

		_, err := svc.UpdateCartItem(itemID, -1)

		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	})

	t.Run("missing item", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		cartRepo.On("FindItemByID", itemID).Return(nil, nil)

		_, err := svc.UpdateCartItem(itemID, 2)

		assert.ErrorIs(t, err, model.ErrCartItemNotFound)
	})

	t.Run("recalculation keeps the snapshot price, not the live one", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		productID := uuid.New()
		live := &model.Product{Price: dec("9.99"), Stock: 10, IsActive: true}
		live.ID = productID
		item := &model.CartItem{CartID: cartID, ProductID: productID, Quantity: 1, UnitPrice: dec("5.00"), Product: live}
		item.ID = itemID

		cartRepo.On("FindItemByID", itemID).Return(item, nil)
		cartRepo.On("UpdateItemQuantity", itemID, 2).Return(nil)
		cartRepo.On("ListItems", cartID).Return([]model.CartItem{
			{CartID: cartID, ProductID: productID, Quantity: 2, UnitPrice: dec("5.00")},
		}, nil)
		// Totals derive from the 5.00 snapshot even though the product now costs 9.99.
		cartRepo.On("UpdateTotals", cartID, decEq("10.00"), decEq("1.00"), decEq("11.00")).Return(nil)

		hydrated := &model.Cart{}
		hydrated.ID = cartID
		cartRepo.On("FindByID", cartID).Return(hydrated, nil)

		_, err := svc.UpdateCartItem(itemID, 2)

		assert.NoError(t, err)
		cartRepo.AssertExpectations(t)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()
		live := &model.Product{Price: dec("9.99"), Stock: 1, IsActive: true}
		item := &model.CartItem{CartID: cartID, Quantity: 1, UnitPrice: dec("9.99"), Product: live}
		item.ID = itemID
		cartRepo.On("FindItemByID", itemID).Return(item, nil)

		_, err := svc.UpdateCartItem(itemID, 5)

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		cartRepo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything)
	})
}

func TestCartService_RemoveCartItem_NotFound(t *testing.T) {
	cartRepo, _, svc := newCartFixture()
	itemID := uuid.New()
	cartRepo.On("FindItemByID", itemID).Return(nil, nil)

	_, err := svc.RemoveCartItem(itemID)

	assert.ErrorIs(t, err, model.ErrCartItemNotFound)
}

func TestCartService_ClearCart_Idempotent(t *testing.T) {
	cartRepo, _, svc := newCartFixture()
	cartID := uuid.New()

	cartRepo.On("DeleteAllItems", cartID).Return(nil).Twice()
	cartRepo.On("UpdateTotals", cartID, decEq("0"), decEq("0"), decEq("0")).Return(nil).Twice()

	empty := &model.Cart{}
	empty.ID = cartID
	cartRepo.On("FindByID", cartID).Return(empty, nil).Twice()

	first, err := svc.ClearCart(cartID)
	assert.NoError(t, err)
	second, err := svc.ClearCart(cartID)
	assert.NoError(t, err)

	assert.Equal(t, first.ItemCount, second.ItemCount)
	assert.Equal(t, 0, second.ItemCount)
	cartRepo.AssertExpectations(t)
}

func TestCartService_MergeGuestCart(t *testing.T) {
	userID := uuid.New()
	userCartID := uuid.New()
	guestCartID := uuid.New()
	productID := uuid.New()

	t.Run("merge is additive and deletes the guest cart", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()

		userCart := &model.Cart{UserID: &userID}
		userCart.ID = userCartID
		guestCart := &model.Cart{Items: []model.CartItem{
			{CartID: guestCartID, ProductID: productID, Quantity: 2, UnitPrice: dec("9.99")},
		}}
		guestCart.ID = guestCartID

		cartRepo.On("FindByOwner", model.UserOwner{UserID: userID}).Return(userCart, nil)
		cartRepo.On("FindByOwner", model.GuestOwner{SessionID: "sess-9"}).Return(guestCart, nil)

		// Replaying the guest item against the user cart applies the usual
		// accumulation and stock rules.
		product := &model.Product{Price: dec("9.99"), Stock: 10, IsActive: true}
		product.ID = productID
		productRepo.On("FindActiveByID", productID).Return(product, nil)

		userItem := &model.CartItem{CartID: userCartID, ProductID: productID, Quantity: 1, UnitPrice: dec("9.99")}
		userItem.ID = uuid.New()
		cartRepo.On("FindItem", userCartID, productID).Return(userItem, nil)
		cartRepo.On("UpdateItemQuantity", userItem.ID, 3).Return(nil)
		cartRepo.On("ListItems", userCartID).Return([]model.CartItem{
			{CartID: userCartID, ProductID: productID, Quantity: 3, UnitPrice: dec("9.99")},
		}, nil)
		cartRepo.On("UpdateTotals", userCartID, decEq("29.97"), decEq("3.00"), decEq("32.97")).Return(nil)

		merged := &model.Cart{Items: []model.CartItem{
			{CartID: userCartID, ProductID: productID, Quantity: 3, UnitPrice: dec("9.99")},
		}}
		merged.ID = userCartID
		cartRepo.On("FindByID", userCartID).Return(merged, nil)
		cartRepo.On("Delete", guestCartID).Return(nil)

		cart, err := svc.MergeGuestCart(userID, "sess-9")

		assert.NoError(t, err)
		assert.Equal(t, 3, cart.ItemCount)
		cartRepo.AssertCalled(t, "Delete", guestCartID)
		cartRepo.AssertExpectations(t)
	})

	t.Run("missing guest cart is a no-op", func(t *testing.T) {
		cartRepo, _, svc := newCartFixture()

		userCart := &model.Cart{UserID: &userID}
		userCart.ID = userCartID
		cartRepo.On("FindByOwner", model.UserOwner{UserID: userID}).Return(userCart, nil)
		cartRepo.On("FindByOwner", model.GuestOwner{SessionID: "gone"}).Return(nil, nil)

		cart, err := svc.MergeGuestCart(userID, "gone")

		assert.NoError(t, err)
		assert.Equal(t, userCartID, cart.ID)
		cartRepo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("insufficient stock aborts the merge", func(t *testing.T) {
		cartRepo, productRepo, svc := newCartFixture()

		userCart := &model.Cart{UserID: &userID}
		userCart.ID = userCartID
		guestCart := &model.Cart{Items: []model.CartItem{
			{CartID: guestCartID, ProductID: productID, Quantity: 5, UnitPrice: dec("9.99")},
		}}
		guestCart.ID = guestCartID

		cartRepo.On("FindByOwner", model.UserOwner{UserID: userID}).Return(userCart, nil)
		cartRepo.On("FindByOwner", model.GuestOwner{SessionID: "sess-9"}).Return(guestCart, nil)

		product := &model.Product{Price: dec("9.99"), Stock: 2, IsActive: true}
		product.ID = productID
		productRepo.On("FindActiveByID", productID).Return(product, nil)
		cartRepo.On("FindItem", userCartID, productID).Return(nil, nil)

		_, err := svc.MergeGuestCart(userID, "sess-9")

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		cartRepo.AssertNotCalled(t, "Delete", mock.Anything)
	})
}
