package handler

import (
	"time"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// GetUserOrders handles GET /api/orders
func (h *OrderHandler) GetUserOrders(c *fiber.Ctx) error {
	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	result, err := h.service.GetUserOrders(userID, service.OrderListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Status:    model.OrderStatus(c.Query("status")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, result)
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	// Admins may read any order; everyone else is scoped to their own.
	scope := &userID
	if role, _ := c.Locals("user_role").(string); role == string(model.RoleAdmin) {
		scope = nil
	}

	order, err := h.service.GetOrderByID(orderID, scope)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, order)
}

type createOrderRequest struct {
	Items           []service.CreateOrderItem `json:"items"`
	ShippingAddress string                    `json:"shipping_address,omitempty"`
	BillingAddress  string                    `json:"billing_address,omitempty"`
	PaymentMethod   string                    `json:"payment_method,omitempty"`
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.CreateOrder(userID, req.Items)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Order created", order)
}

type updateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus handles PUT /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Order status updated", order)
}

// CancelOrder handles PUT /api/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	order, err := h.service.CancelOrder(orderID, userID)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Order cancelled", order)
}

// GetAllOrders handles GET /api/admin/orders (admin)
func (h *OrderHandler) GetAllOrders(c *fiber.Ctx) error {
	opts := service.AdminOrderOptions{
		OrderListOptions: service.OrderListOptions{
			Page:      c.QueryInt("page", 1),
			Limit:     c.QueryInt("limit", 10),
			Status:    model.OrderStatus(c.Query("status")),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		},
	}

	if raw := c.Query("userId"); raw != "" {
		userID, err := parseUUID(raw)
		if err != nil {
			return badRequest(c, "Invalid userId filter")
		}
		opts.UserID = &userID
	}
	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "Invalid dateFrom, expected RFC3339")
		}
		opts.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "Invalid dateTo, expected RFC3339")
		}
		opts.DateTo = &to
	}

	result, err := h.service.GetAllOrders(opts)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, result)
}

type confirmPaymentRequest struct {
	OrderNo          string     `json:"order_no"`
	TransactionID    string     `json:"transaction_id"`
	PaymentTimestamp *time.Time `json:"payment_timestamp,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// ConfirmPayment handles PUT /api/orders/confirm-payment.
// This is the payment-gateway callback and is intentionally unauthenticated.
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req confirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.OrderNo == "" || req.TransactionID == "" {
		return badRequest(c, "order_no and transaction_id are required")
	}

	order, err := h.service.ConfirmOrderPayment(req.OrderNo, service.PaymentDetails{
		TransactionID:    req.TransactionID,
		PaymentTimestamp: req.PaymentTimestamp,
		Notes:            req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Payment confirmed", order)
}
