package mocks

import (
	"time"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository mocks repository.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindAll(page, limit int, activeOnly bool) ([]model.Product, int64, error) {
	args := m.Called(page, limit, activeOnly)
	var products []model.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]model.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByID(id uuid.UUID) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindActiveByID(id uuid.UUID) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(sku string) (*model.Product, error) {
	args := m.Called(sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(categoryID uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	args := m.Called(categoryID, page, limit)
	var products []model.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]model.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Update(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCartRepository mocks repository.CartRepository
type MockCartRepository struct {
	mock.Mock
}

// Transaction runs fn against the mock itself; transactional writes are
// asserted through the inner method expectations.
func (m *MockCartRepository) Transaction(fn func(repository.CartRepository) error) error {
	return fn(m)
}

func (m *MockCartRepository) FindByOwner(owner model.CartOwner) (*model.Cart, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(id uuid.UUID) (*model.Cart, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(cart *model.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateTotals(cartID uuid.UUID, subtotal, tax, total decimal.Decimal) error {
	args := m.Called(cartID, subtotal, tax, total)
	return args.Error(0)
}

func (m *MockCartRepository) FindItemByID(id uuid.UUID) (*model.CartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(cartID, productID uuid.UUID) (*model.CartItem, error) {
	args := m.Called(cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(item *model.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	args := m.Called(itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(itemID uuid.UUID) error {
	args := m.Called(itemID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteAllItems(cartID uuid.UUID) error {
	args := m.Called(cartID)
	return args.Error(0)
}

func (m *MockCartRepository) ListItems(cartID uuid.UUID) ([]model.CartItem, error) {
	args := m.Called(cartID)
	var items []model.CartItem
	if args.Get(0) != nil {
		items = args.Get(0).([]model.CartItem)
	}
	return items, args.Error(1)
}

// MockOrderRepository mocks repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithStockReservation(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) CancelWithStockRelease(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id uuid.UUID) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUser(id, userID uuid.UUID) (*model.Order, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNo(orderNo string) (*model.Order, error) {
	args := m.Called(orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ConfirmPayment(id uuid.UUID, transactionID string, paidAt time.Time, notes string) error {
	args := m.Called(id, transactionID, paidAt, notes)
	return args.Error(0)
}

func (m *MockOrderRepository) List(filter repository.OrderFilter) ([]model.Order, int64, error) {
	args := m.Called(filter)
	var orders []model.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]model.Order)
	}
	return orders, args.Get(1).(int64), args.Error(2)
}

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
