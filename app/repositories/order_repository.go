package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/orm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns orders newest first with customer, manager (id and name
// only) and items with their product.
func (r *OrderRepository) List(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	p, err := orm.WithDB(r.db).
		Model(&models.Order{}).
		Preload("Customer").
		Preload("Manager", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("Items.Product").
		Order("created_at DESC").
		GetWithPagination(&orders, page, limit)
	return orders, p, err
}

func (r *OrderRepository) Find(id uint) (*models.Order, error) {
	var order models.Order
	err := orm.WithDB(r.db).
		Preload("Customer").
		Preload("Manager", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("Items.Product").
		Where("id = ?", id).
		First(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
