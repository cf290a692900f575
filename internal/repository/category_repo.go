package repository

import (
	"errors"

	"go-commerce-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryWithCount pairs a category with the number of products assigned to it.
type CategoryWithCount struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll(activeOnly bool) ([]CategoryWithCount, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	CountProducts(categoryID uuid.UUID) (int64, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) FindAll(activeOnly bool) ([]CategoryWithCount, error) {
	var results []CategoryWithCount

	q := r.db.Model(&model.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.deleted_at IS NULL").
		Group("categories.id").
		Order("categories.name ASC")
	if activeOnly {
		q = q.Where("categories.is_active = ?", true)
	}

	err := q.Find(&results).Error
	return results, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepo) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepo) CountProducts(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}
