package handler

import (
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

// GetCategories handles GET /api/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, categories)
}

// GetCategory handles GET /api/categories/:id (accepts an id or a slug)
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	param := c.Params("id")

	if categoryID, err := parseUUID(param); err == nil {
		category, err := h.service.GetCategoryByID(categoryID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, category)
	}

	category, err := h.service.GetCategoryBySlug(param)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, category)
}

// CreateCategory handles POST /api/categories (admin)
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.service.CreateCategory(&category); err != nil {
		return fail(c, err)
	}
	return created(c, "Category created", category)
}

// UpdateCategory handles PUT /api/categories/:id (admin)
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateCategory(categoryID, &category)
	if err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Category updated", updated)
}

// DeleteCategory handles DELETE /api/categories/:id (admin)
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.service.DeleteCategory(categoryID); err != nil {
		return fail(c, err)
	}
	return okMsg(c, "Category deleted", nil)
}
