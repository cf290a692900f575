package repository

import (
	"errors"

	"go-commerce-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(page, limit int, activeOnly bool) ([]model.Product, int64, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindActiveByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByCategory(categoryID uuid.UUID, page, limit int) ([]model.Product, int64, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(page, limit int, activeOnly bool) ([]model.Product, int64, error) {
	var products []model.Product
	var count int64

	q := r.db.Model(&model.Product{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, count, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepo) FindActiveByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ? AND is_active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepo) FindByCategory(categoryID uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var count int64

	q := r.db.Model(&model.Product{}).Where("category_id = ? AND is_active = ?", categoryID, true)
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, count, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}
