package handler

import (
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts handles GET /api/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	result, err := h.service.GetProducts(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, result)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	product, err := h.service.GetProductByID(c.Context(), productID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, product)
}

// GetProductsByCategory handles GET /api/categories/:id/products
func (h *ProductHandler) GetProductsByCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	result, err := h.service.GetProductsByCategory(categoryID, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, result)
}

// CreateProduct handles POST /api/products (admin)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return fail(c, err)
	}
	return created(c, "Product created", product)
}

// UpdateProduct handles PUT /api/products/:id (admin)
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(productID, &product)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Product updated", updated)
}

// DeleteProduct handles DELETE /api/products/:id (admin)
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.service.DeleteProduct(productID); err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Product deleted", nil)
}
