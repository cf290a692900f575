package handler

import (
	"database/sql/driver"
	"errors"
	"log"
	"net"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Every response carries the {success, data?, error?, message?} envelope.

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okMsg(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(201).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(400).JSON(fiber.Map{"success": false, "error": msg})
}

// fail maps domain errors to HTTP statuses. Unclassified errors are logged and
// returned as a generic 500 without leaking internals.
func fail(c *fiber.Ctx, err error) error {
	// A lost database connection is service unavailability, not a request
	// failure.
	if isConnectionFailure(err) {
		err = model.ErrPersistenceUnavailable
	}

	var status int
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCartNotFound),
		errors.Is(err, model.ErrCartItemNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrCategoryNotFound):
		status = 404
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrProductUnavailable),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrEmptyOrder),
		errors.Is(err, model.ErrInvalidOrderState),
		errors.Is(err, model.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrSlugExists),
		errors.Is(err, service.ErrCategoryNotEmpty),
		errors.Is(err, service.ErrEmailTaken):
		status = 400
	case errors.Is(err, model.ErrIdentityRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		status = 401
	case errors.Is(err, model.ErrPersistenceUnavailable):
		status = 503
	default:
		log.Printf("unhandled error: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

// isConnectionFailure reports whether err originates from a refused or dropped
// database connection rather than from the request itself.
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// getUserID reads the authenticated user id set by the auth middleware.
func getUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	return id, ok
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
