package handler

import (
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

// cartOwner resolves the request identity: authenticated user first, guest
// session second. Returns nil when neither is present.
func cartOwner(c *fiber.Ctx) model.CartOwner {
	if userID, ok := getUserID(c); ok {
		return model.UserOwner{UserID: userID}
	}
	if sessionID, ok := c.Locals("session_id").(string); ok && sessionID != "" {
		return model.GuestOwner{SessionID: sessionID}
	}
	return nil
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetOrCreateCart(cartOwner(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"cart": cart})
}

type addToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// AddToCart handles POST /api/cart/items
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.GetOrCreateCart(cartOwner(c))
	if err != nil {
		return fail(c, err)
	}

	updated, err := h.service.AddToCart(cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Item added to cart", fiber.Map{"cart": updated})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem handles PUT /api/cart/items/:id
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid cart item ID")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	cart, err := h.service.UpdateCartItem(itemID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Cart item updated", fiber.Map{"cart": cart})
}

// RemoveCartItem handles DELETE /api/cart/items/:id
func (h *CartHandler) RemoveCartItem(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid cart item ID")
	}

	cart, err := h.service.RemoveCartItem(itemID)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Item removed from cart", fiber.Map{"cart": cart})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	cart, err := h.service.GetOrCreateCart(cartOwner(c))
	if err != nil {
		return fail(c, err)
	}

	cleared, err := h.service.ClearCart(cart.ID)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Cart cleared", fiber.Map{"cart": cleared})
}

type mergeCartRequest struct {
	GuestSessionID string `json:"guest_session_id"`
}

// MergeCart handles POST /api/cart/merge (authenticated users only)
func (h *CartHandler) MergeCart(c *fiber.Ctx) error {
	userID, authed := getUserID(c)
	if !authed {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req mergeCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.GuestSessionID == "" {
		return badRequest(c, "guest_session_id is required")
	}

	cart, err := h.service.MergeGuestCart(userID, req.GuestSessionID)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Guest cart merged", fiber.Map{"cart": cart})
}
