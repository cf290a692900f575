package service

import (
	"errors"
	"strings"
	"time"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"
	"go-commerce-api/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bounded retry for order number collisions; uniqueness is ultimately enforced
// by the database index.
const maxOrderNoAttempts = 3

// CreateOrderItem is a requested line item. Prices are never taken from the
// client; the current product price is read at creation time.
type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// OrderListOptions controls pagination and sorting of a user's order listing.
type OrderListOptions struct {
	Page      int
	Limit     int
	Status    model.OrderStatus
	SortBy    string
	SortOrder string
}

// AdminOrderOptions adds the admin-only filters.
type AdminOrderOptions struct {
	OrderListOptions
	UserID   *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// PaymentDetails carries the payment-gateway callback payload.
type PaymentDetails struct {
	TransactionID    string     `json:"transaction_id" validate:"required"`
	PaymentTimestamp *time.Time `json:"payment_timestamp,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
}

type OrderListResult struct {
	Orders     []model.OrderSummary `json:"orders"`
	Pagination Pagination           `json:"pagination"`
}

type AdminOrderListResult struct {
	Orders     []model.Order `json:"orders"`
	Pagination Pagination    `json:"pagination"`
}

type OrderService interface {
	CreateOrder(userID uuid.UUID, items []CreateOrderItem) (*model.Order, error)
	GetOrderByID(orderID uuid.UUID, userID *uuid.UUID) (*model.Order, error)
	GetUserOrders(userID uuid.UUID, opts OrderListOptions) (*OrderListResult, error)
	UpdateOrderStatus(orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
	CancelOrder(orderID, userID uuid.UUID) (*model.Order, error)
	GetAllOrders(opts AdminOrderOptions) (*AdminOrderListResult, error)
	ConfirmOrderPayment(orderNo string, details PaymentDetails) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		wsHub:       hub,
	}
}

func (s *orderService) broadcast(eventType string, payload interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastEvent(eventType, payload)
}

// broadcastStockChanges pushes one stock event per line item after the
// reservation or release has committed. sign is -1 for reservation, 1 for
// release.
func (s *orderService) broadcastStockChanges(items []model.OrderItem, sign int) {
	for _, item := range items {
		s.broadcast(ws.EventStockUpdate, map[string]interface{}{
			"product_id": item.ProductID,
			"delta":      sign * item.Quantity,
		})
	}
}

// generateOrderNo builds an order number: prefix, millisecond timestamp, and a
// random suffix. Collisions are caught by the unique index and retried.
func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return "ORD-" + time.Now().UTC().Format("20060102150405") + "-" + suffix
}

func (s *orderService) CreateOrder(userID uuid.UUID, items []CreateOrderItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, model.ErrProductNotFound
		}
		if !product.IsActive {
			return nil, model.ErrProductUnavailable
		}
		// Advisory pre-check; the transactional conditional decrement is the
		// authoritative guard under contention.
		if product.Stock < item.Quantity {
			return nil, model.ErrInsufficientStock
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price, // snapshot of the live price
		})
	}

	var order *model.Order
	var err error
	for attempt := 0; attempt < maxOrderNoAttempts; attempt++ {
		order = &model.Order{
			OrderNo: generateOrderNo(),
			UserID:  userID,
			Status:  model.OrderPending,
			Total:   total,
			Items:   orderItems,
		}
		err = s.orderRepo.CreateWithStockReservation(order)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventOrderCreated, map[string]interface{}{
		"order_id": order.ID,
		"order_no": order.OrderNo,
		"user_id":  order.UserID,
		"total":    order.Total,
	})
	s.broadcastStockChanges(order.Items, -1)

	return s.hydrate(order.ID)
}

func (s *orderService) GetOrderByID(orderID uuid.UUID, userID *uuid.UUID) (*model.Order, error) {
	var order *model.Order
	var err error

	// With a userID the lookup is ownership scoped; a mismatch is
	// indistinguishable from absence.
	if userID != nil {
		order, err = s.orderRepo.FindByIDForUser(orderID, *userID)
	} else {
		order, err = s.orderRepo.FindByID(orderID)
	}
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uuid.UUID, opts OrderListOptions) (*OrderListResult, error) {
	page, limit := normalizePage(opts.Page, opts.Limit)

	orders, count, err := s.orderRepo.List(repository.OrderFilter{
		UserID:    &userID,
		Status:    opts.Status,
		Page:      page,
		Limit:     limit,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]model.OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, orders[i].ToSummary())
	}

	return &OrderListResult{
		Orders:     summaries,
		Pagination: paginate(page, limit, count),
	}, nil
}

// UpdateOrderStatus is the administrative override path: the target value is
// validated against the status enum, but no transition rules are applied.
func (s *orderService) UpdateOrderStatus(orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(order.ID, status); err != nil {
		return nil, err
	}

	s.broadcast(ws.EventOrderStatus, map[string]interface{}{
		"order_id": order.ID,
		"order_no": order.OrderNo,
		"status":   status,
	})

	return s.hydrate(order.ID)
}

func (s *orderService) CancelOrder(orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.Status != model.OrderPending {
		return nil, model.ErrInvalidOrderState
	}

	if err := s.orderRepo.CancelWithStockRelease(order); err != nil {
		return nil, err
	}

	s.broadcast(ws.EventOrderCancelled, map[string]interface{}{
		"order_id": order.ID,
		"order_no": order.OrderNo,
	})
	s.broadcastStockChanges(order.Items, 1)

	return s.hydrate(order.ID)
}

func (s *orderService) GetAllOrders(opts AdminOrderOptions) (*AdminOrderListResult, error) {
	page, limit := normalizePage(opts.Page, opts.Limit)

	orders, count, err := s.orderRepo.List(repository.OrderFilter{
		UserID:    opts.UserID,
		Status:    opts.Status,
		DateFrom:  opts.DateFrom,
		DateTo:    opts.DateTo,
		Page:      page,
		Limit:     limit,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &AdminOrderListResult{
		Orders:     orders,
		Pagination: paginate(page, limit, count),
	}, nil
}

// ConfirmOrderPayment is reachable without authentication: it is keyed by the
// order number the payment gateway echoes back, not by order id.
func (s *orderService) ConfirmOrderPayment(orderNo string, details PaymentDetails) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	paidAt := time.Now().UTC()
	if details.PaymentTimestamp != nil {
		paidAt = *details.PaymentTimestamp
	}
	notes := details.Notes
	if notes == "" {
		notes = "Payment confirmed"
	}

	if err := s.orderRepo.ConfirmPayment(order.ID, details.TransactionID, paidAt, notes); err != nil {
		return nil, err
	}

	s.broadcast(ws.EventPaymentConfirmed, map[string]interface{}{
		"order_id":       order.ID,
		"order_no":       order.OrderNo,
		"transaction_id": details.TransactionID,
	})

	return s.hydrate(order.ID)
}

func (s *orderService) hydrate(orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func paginate(page, limit int, count int64) Pagination {
	totalPages := int((count + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   count,
		ItemsPerPage: limit,
		HasNext:      page < totalPages,
		HasPrevious:  page > 1,
	}
}
