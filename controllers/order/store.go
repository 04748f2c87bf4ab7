package orderControllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)

// CreateOptions are the optional writes performed with the order.
type CreateOptions struct {
	DecrementStock       bool
	ConsumeFirstPurchase bool
}

type Store interface {
	// Create writes the header and every item in one transaction.
	Create(ctx context.Context, order *models.Order, opts CreateOptions) error
	ByID(ctx context.Context, id uint) (*models.Order, error)
	ByNumber(ctx context.Context, number string) (*models.Order, error)
	ByUser(ctx context.Context, userID uint) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	// UpdateStatus returns the updated order and the status it had before.
	UpdateStatus(ctx context.Context, id uint, next models.OrderStatus) (*models.Order, models.OrderStatus, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, order *models.Order, opts CreateOptions) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.DecrementStock {
			if err := reserveStock(tx, order.Items); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&order.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		if opts.ConsumeFirstPurchase && order.UserID != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", *order.UserID).
				Update("is_first_purchase", false).Error; err != nil {
				return fmt.Errorf("clear first purchase flag: %w", err)
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOrderNumber
	}
	return err
}

// reserveStock locks each product row and takes the ordered quantity off it.
func reserveStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", *item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("Product %d no longer exists", *item.ProductID)
			}
			return err
		}
		if product.Stock < item.Quantity {
			return apperrors.Validation("Insufficient stock for product: %s", product.Name)
		}
		if err := tx.Model(&product).
			Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *gormStore) withItems(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	})
}

func (s *gormStore) first(ctx context.Context, query string, arg interface{}) (*models.Order, error) {
	var order models.Order
	if err := s.withItems(ctx).Where(query, arg).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *gormStore) ByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *gormStore) ByNumber(ctx context.Context, number string) (*models.Order, error) {
	return s.first(ctx, "order_number = ?", number)
}

func (s *gormStore) ByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.withItems(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *gormStore) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.withItems(ctx).Preload("User").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *gormStore) UpdateStatus(ctx context.Context, id uint, next models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	var prev models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		prev = order.Status
		if !prev.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", models.ErrIllegalTransition, prev, next)
		}
		if prev == next {
			return nil
		}
		return tx.Model(&order).Update("status", next).Error
	})
	if err != nil {
		return nil, "", err
	}
	order, err := s.ByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return order, prev, nil
}
