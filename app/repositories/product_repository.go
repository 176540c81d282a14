package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/orm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	p, err := orm.WithDB(r.db).
		Model(&models.Product{}).
		Preload("Category").
		Preload("Variants").
		Order("created_at DESC").
		GetWithPagination(&products, page, limit)
	return products, p, err
}

func (r *ProductRepository) Find(id uint) (*models.Product, error) {
	var product models.Product
	err := orm.WithDB(r.db).
		Preload("Category").
		Preload("Variants").
		Where("id = ?", id).
		First(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Get loads a product row without associations (for updates/deletes).
func (r *ProductRepository) Get(id uint) (*models.Product, error) {
	var product models.Product
	if err := orm.WithDB(r.db).Where("id = ?", id).First(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(p *models.Product) error {
	return orm.WithDB(r.db).Create(p)
}

func (r *ProductRepository) Update(p *models.Product) error {
	return orm.WithDB(r.db).Save(p)
}

func (r *ProductRepository) Delete(id uint) error {
	return orm.WithDB(r.db).Delete(&models.Product{}, id)
}

// UpsertVariants updates variants that carry an ID and creates the rest.
// Updates are scoped to the owning product so a variant of another product
// cannot be rewritten through this endpoint.
func (r *ProductRepository) UpsertVariants(productID uint, variants []models.Variant) error {
	for i := range variants {
		v := &variants[i]
		v.ProductID = productID

		if v.ID == 0 {
			if err := orm.WithDB(r.db).Create(v); err != nil {
				return err
			}
			continue
		}

		err := r.db.Model(&models.Variant{}).
			Where("id = ? AND product_id = ?", v.ID, productID).
			Updates(map[string]interface{}{
				"size":  v.Size,
				"color": v.Color,
				"stock": v.Stock,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) DeleteVariant(id uint) error {
	return orm.WithDB(r.db).Delete(&models.Variant{}, id)
}
