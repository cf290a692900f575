package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"
	"go-commerce-api/internal/ws"
	"go-commerce-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSKUExists = errors.New("SKU already exists")

const productCacheTTL = time.Minute

type ProductListResult struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}

type CatalogService interface {
	// SetCacheClient enables the Redis read cache. A nil client leaves caching off.
	SetCacheClient(client *redis.Client)
	GetProducts(page, limit int) (*ProductListResult, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductsByCategory(categoryID uuid.UUID, page, limit int) (*ProductListResult, error)
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       *redis.Client
	wsHub       *ws.Hub
}

func NewCatalogService(productRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{productRepo: productRepo, wsHub: hub}
}

func (s *catalogService) SetCacheClient(client *redis.Client) {
	s.cache = client
}

func (s *catalogService) GetProducts(page, limit int) (*ProductListResult, error) {
	page, limit = normalizePage(page, limit)

	products, count, err := s.productRepo.FindAll(page, limit, true)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		Pagination: paginate(page, limit, count),
	}, nil
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, productCacheKey(id)).Result()
		if err == nil {
			var product model.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if s.cache != nil {
		if data, err := json.Marshal(product); err == nil {
			s.cache.Set(ctx, productCacheKey(id), data, productCacheTTL)
		}
	}

	return product, nil
}

func (s *catalogService) GetProductsByCategory(categoryID uuid.UUID, page, limit int) (*ProductListResult, error) {
	page, limit = normalizePage(page, limit)

	products, count, err := s.productRepo.FindByCategory(categoryID, page, limit)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		Pagination: paginate(page, limit, count),
	}, nil
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", model.ErrValidation, first.FailedField, first.Tag)
	}

	existing, err := s.productRepo.FindBySKU(req.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSKUExists
	}

	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	if req.SKU != "" && req.SKU != existing.SKU {
		dup, err := s.productRepo.FindBySKU(req.SKU)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrSKUExists
		}
		existing.SKU = req.SKU
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if !req.Price.IsZero() {
		existing.Price = req.Price
	}
	prevStock := existing.Stock
	if req.Stock >= 0 {
		existing.Stock = req.Stock
	}
	if req.Images != "" {
		existing.Images = req.Images
	}
	if req.CategoryID != uuid.Nil {
		existing.CategoryID = req.CategoryID
	}
	existing.IsActive = req.IsActive

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	s.invalidate(id)

	if existing.Stock != prevStock && s.wsHub != nil {
		go s.wsHub.BroadcastEvent(ws.EventStockUpdate, map[string]interface{}{
			"product_id": existing.ID,
			"stock":      existing.Stock,
		})
	}

	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *catalogService) invalidate(id uuid.UUID) {
	if s.cache != nil {
		s.cache.Del(context.Background(), productCacheKey(id))
	}
}
