package service

import (
	"testing"
	"time"

	"go-commerce-api/internal/mocks"
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_UpdateProduct(t *testing.T) {
	productID := uuid.New()

	makeProduct := func(stock int) *model.Product {
		p := &model.Product{SKU: "W-1", Name: "Widget", Price: dec("9.99"), Stock: stock, IsActive: true}
		p.ID = productID
		return p
	}

	t.Run("stock edit is broadcast", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		hub := ws.NewHub()
		svc := NewCatalogService(productRepo, hub)

		productRepo.On("FindByID", productID).Return(makeProduct(5), nil)
		productRepo.On("Update", mock.AnythingOfType("*model.Product")).Return(nil)

		updated, err := svc.UpdateProduct(productID, &model.Product{Stock: 2, IsActive: true})
		assert.NoError(t, err)
		assert.Equal(t, 2, updated.Stock)

		events := collectEvents(t, hub, 1)
		if assert.Contains(t, events, ws.EventStockUpdate) {
			assert.Equal(t, float64(2), events[ws.EventStockUpdate]["stock"])
			assert.Equal(t, productID.String(), events[ws.EventStockUpdate]["product_id"])
		}
	})

	t.Run("unchanged stock is not broadcast", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		hub := ws.NewHub()
		svc := NewCatalogService(productRepo, hub)

		productRepo.On("FindByID", productID).Return(makeProduct(5), nil)
		productRepo.On("Update", mock.AnythingOfType("*model.Product")).Return(nil)

		_, err := svc.UpdateProduct(productID, &model.Product{Stock: 5, IsActive: true})
		assert.NoError(t, err)

		select {
		case msg := <-hub.Broadcast:
			t.Fatalf("unexpected broadcast: %s", msg)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("duplicate SKU", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(productRepo, nil)

		other := &model.Product{SKU: "W-2"}
		other.ID = uuid.New()
		productRepo.On("FindByID", productID).Return(makeProduct(5), nil)
		productRepo.On("FindBySKU", "W-2").Return(other, nil)

		_, err := svc.UpdateProduct(productID, &model.Product{SKU: "W-2", IsActive: true})

		assert.ErrorIs(t, err, ErrSKUExists)
		productRepo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("missing product", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		svc := NewCatalogService(productRepo, nil)
		productRepo.On("FindByID", productID).Return(nil, nil)

		_, err := svc.UpdateProduct(productID, &model.Product{IsActive: true})

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}
