// Package repositories wraps the query layer with entity-specific data
// access. Controllers translate the returned gorm errors (ErrRecordNotFound,
// ErrDuplicatedKey) into HTTP responses.
package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/orm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(page, limit int) ([]models.Customer, orm.Pagination, error) {
	var customers []models.Customer
	p, err := orm.WithDB(r.db).
		Model(&models.Customer{}).
		Order("created_at DESC").
		GetWithPagination(&customers, page, limit)
	return customers, p, err
}

// Find loads a customer with their orders, newest first.
func (r *CustomerRepository) Find(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := orm.WithDB(r.db).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Orders.Items").
		Where("id = ?", id).
		First(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Get loads a customer row without associations (for updates/deletes).
func (r *CustomerRepository) Get(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := orm.WithDB(r.db).Where("id = ?", id).First(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	return orm.WithDB(r.db).Create(c)
}

func (r *CustomerRepository) Update(c *models.Customer) error {
	return orm.WithDB(r.db).Save(c)
}

func (r *CustomerRepository) Delete(id uint) error {
	return orm.WithDB(r.db).Delete(&models.Customer{}, id)
}
