package repository

import (
	"errors"
	"time"

	"go-commerce-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows and pages order listings.
type OrderFilter struct {
	UserID    *uuid.UUID
	Status    model.OrderStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type OrderRepository interface {
	// CreateWithStockReservation inserts the order with its items and decrements
	// every product's stock in one transaction. Either the order commits together
	// with all decrements or nothing is persisted. A decrement that would drive
	// stock negative aborts with model.ErrInsufficientStock.
	CreateWithStockReservation(order *model.Order) error

	// CancelWithStockRelease marks the order CANCELLED and increments each
	// item's product stock back, as one transaction.
	CancelWithStockRelease(order *model.Order) error

	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDForUser(id, userID uuid.UUID) (*model.Order, error)
	FindByOrderNo(orderNo string) (*model.Order, error)
	UpdateStatus(id uuid.UUID, status model.OrderStatus) error
	ConfirmPayment(id uuid.UUID, transactionID string, paidAt time.Time, notes string) error
	List(filter OrderFilter) ([]model.Order, int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// reserveStock is a conditional decrement: the WHERE clause is the storage-level
// non-negative guard, so a concurrent reservation can never push stock below zero.
func reserveStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrInsufficientStock
	}
	return nil
}

func releaseStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (r *orderRepo) CreateWithStockReservation(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := reserveStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepo) CancelWithStockRelease(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("status", model.OrderCancelled).Error
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := releaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// preloadOrder loads items, products, categories, and the owning user.
func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("User")
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := preloadOrder(r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepo) FindByIDForUser(id, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := preloadOrder(r.db).First(&order, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepo) FindByOrderNo(orderNo string) (*model.Order, error) {
	var order model.Order
	err := preloadOrder(r.db).First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepo) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepo) ConfirmPayment(id uuid.UUID, transactionID string, paidAt time.Time, notes string) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            model.OrderConfirmed,
			"transaction_id":    transactionID,
			"payment_timestamp": paidAt,
			"notes":             notes,
		}).Error
}

// Sortable order columns; anything else falls back to created_at.
var orderSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"order_no":   true,
	"status":     true,
	"total":      true,
}

func (r *orderRepo) List(filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var count int64

	q := r.db.Model(&model.Order{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at <= ?", *filter.DateTo)
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if !orderSortColumns[sortBy] {
		sortBy = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	err := preloadOrder(q).
		Order(sortBy + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, count, err
}
