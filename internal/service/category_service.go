package service

import (
	"errors"
	"fmt"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"
	"go-commerce-api/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSlugExists       = errors.New("category slug already exists")
	ErrCategoryNotEmpty = errors.New("category still has products assigned")
)

type CategoryService interface {
	GetCategories() ([]repository.CategoryWithCount, error)
	GetCategoryByID(id uuid.UUID) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(req *model.Category) error
	UpdateCategory(id uuid.UUID, req *model.Category) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetCategories() ([]repository.CategoryWithCount, error) {
	return s.categoryRepo.FindAll(true)
}

func (s *categoryService) GetCategoryByID(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) CreateCategory(req *model.Category) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", model.ErrValidation, first.FailedField, first.Tag)
	}

	existing, err := s.categoryRepo.FindBySlug(req.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSlugExists
	}

	return s.categoryRepo.Create(req)
}

func (s *categoryService) UpdateCategory(id uuid.UUID, req *model.Category) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrCategoryNotFound
	}

	if req.Slug != "" && req.Slug != existing.Slug {
		dup, err := s.categoryRepo.FindBySlug(req.Slug)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrSlugExists
		}
		existing.Slug = req.Slug
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	existing.IsActive = req.IsActive

	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return model.ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}

	return s.categoryRepo.Delete(id)
}
