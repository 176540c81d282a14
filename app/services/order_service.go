package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/database"
	"github.com/shashiranjanraj/sklad/pkg/event"
	"github.com/shashiranjanraj/sklad/pkg/metrics"
	"github.com/shashiranjanraj/sklad/pkg/validate"
)

// OrderItemInput is one requested line of a new order. Price is the
// client's quoted unit price; when zero the product's current price is
// used instead.
type OrderItemInput struct {
	ProductID uint    `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"  validate:"required,gte=1"`
	Price     float64 `json:"price"     validate:"gte=0"`
}

// CreateOrderInput is the payload for placing an order.
type CreateOrderInput struct {
	CustomerID uint             `json:"customerId" validate:"required"`
	Items      []OrderItemInput `json:"items"      validate:"required"`
}

// OrderService places orders and advances their status.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create places an order on behalf of actorID: it snapshots each product's
// price, decrements stock, and inserts the order with its items, all inside
// one transaction. Any failure rolls back every write.
//
// Stock is decremented with a conditional UPDATE (stock = stock - q WHERE
// stock >= q), so two concurrent orders for the last unit serialize to
// exactly one winner.
func (s *OrderService) Create(ctx context.Context, actorID uint, in CreateOrderInput) (*models.Order, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	if errs := s.validateInput(in); len(errs) > 0 {
		metrics.OrdersFailed.WithLabelValues("validation").Inc()
		return nil, &ValidationError{Fields: errs}
	}

	var order *models.Order
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "customer", ID: in.CustomerID}
			}
			return fmt.Errorf("load customer: %w", err)
		}

		var total float64
		items := make([]models.OrderItem, 0, len(in.Items))

		for _, line := range in.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "product", ID: line.ProductID}
				}
				return fmt.Errorf("load product: %w", err)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{ProductName: product.Name}
			}

			price := product.Price
			if line.Price > 0 {
				price = line.Price
			}
			total += price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     price,
			})
		}

		order = &models.Order{
			CustomerID: customer.ID,
			ManagerID:  actorID,
			Total:      total,
			Status:     models.OrderStatusNew,
			Items:      items,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.OrdersFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	event.Fire(event.OrderCreated, order)
	return order, nil
}

// UpdateStatus transitions an order to a new status. Everything else about
// an order is immutable after creation.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, &ValidationError{Fields: map[string]string{
			"status": "The selected status is invalid.",
		}}
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id}
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	previous := order.Status
	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	event.Fire(event.OrderStatusChanged, map[string]interface{}{
		"order_id": order.ID,
		"from":     previous,
		"to":       status,
	})
	return &order, nil
}

func (s *OrderService) validateInput(in CreateOrderInput) map[string]string {
	errs := validate.Struct(&in)
	for i, item := range in.Items {
		sub := validate.Struct(&item)
		for field, msg := range sub {
			errs[fmt.Sprintf("items.%d.%s", i, field)] = msg
		}
	}
	return errs
}

func failureReason(err error) string {
	var nf *NotFoundError
	var is *InsufficientStockError
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &is):
		return "insufficient_stock"
	default:
		return "db_error"
	}
}
