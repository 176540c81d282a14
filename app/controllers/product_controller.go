package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/app/repositories"
	"github.com/shashiranjanraj/sklad/pkg/bind"
	"github.com/shashiranjanraj/sklad/pkg/response"
	"github.com/shashiranjanraj/sklad/pkg/storage"
)

type VariantInput struct {
	ID    uint   `json:"id"`
	Size  string `json:"size"  validate:"nullable,max=50"`
	Color string `json:"color" validate:"nullable,max=50"`
	Stock int    `json:"stock" validate:"gte=0"`
}

type ProductInput struct {
	Name        string         `json:"name"        validate:"required,max=255"`
	Description string         `json:"description" validate:"nullable"`
	Price       float64        `json:"price"       validate:"gte=0"`
	Stock       int            `json:"stock"       validate:"gte=0"`
	SKU         string         `json:"sku"         validate:"required,max=100"`
	CategoryID  *uint          `json:"categoryId"`
	IsActive    *bool          `json:"isActive"`
	Variants    []VariantInput `json:"variants"`
}

type ProductController struct {
	db   *gorm.DB
	repo *repositories.ProductRepository
	disk storage.Disk
}

func NewProductController(db *gorm.DB, disk storage.Disk) *ProductController {
	return &ProductController{
		db:   db,
		repo: repositories.NewProductRepository(db),
		disk: disk,
	}
}

// skuConflict writes the 400 and returns true when sku already belongs to a
// different product.
func (c *ProductController) skuConflict(w http.ResponseWriter, r *http.Request, sku string, excludeID uint) bool {
	taken, err := fieldTaken(c.db, &models.Product{}, "sku", sku, excludeID)
	if err != nil {
		writeServiceError(w, r, err)
		return true
	}
	if taken {
		response.ValidationError(w, map[string]string{"sku": takenMessage("sku")})
		return true
	}
	return false
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	products, p, err := c.repo.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"products":   products,
		"pagination": p,
	})
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.repo.Find(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := c.bindInput(w, r)
	if !ok {
		return
	}
	if c.skuConflict(w, r, in.SKU, 0) {
		return
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		CategoryID:  in.CategoryID,
		IsActive:    true,
		Variants:    variantModels(in.Variants),
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := c.repo.Create(&product); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update rewrites the product's scalar fields and upserts the submitted
// variants: items with an id update that variant, the rest create new ones.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	in, ok := c.bindInput(w, r)
	if !ok {
		return
	}
	if c.skuConflict(w, r, in.SKU, id) {
		return
	}

	product, err := c.repo.Get(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.SKU = in.SKU
	product.CategoryID = in.CategoryID
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := c.repo.Update(product); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if len(in.Variants) > 0 {
		if err := c.repo.UpsertVariants(product.ID, variantModels(in.Variants)); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	full, err := c.repo.Find(product.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, full)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if _, err := c.repo.Get(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := c.repo.Delete(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}

func (c *ProductController) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "variantId")
	variantID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || variantID == 0 {
		response.NotFound(w)
		return
	}
	if err := c.repo.DeleteVariant(uint(variantID)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Variant deleted"})
}

// UploadImage accepts a multipart form with an "image" file, stores it on
// the configured disk, and saves the resulting URL on the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.repo.Get(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("products/%d/%d%s", product.ID, time.Now().UnixNano(), filepath.Ext(header.Filename))
	url, err := c.disk.Put(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	product.ImageURL = url
	if err := c.repo.Update(product); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) bindInput(w http.ResponseWriter, r *http.Request) (ProductInput, bool) {
	var in ProductInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	if errs == nil {
		errs = map[string]string{}
	}
	for i, v := range in.Variants {
		if v.Stock < 0 {
			errs[fmt.Sprintf("variants.%d.stock", i)] = "The stock must be greater than or equal to 0."
		}
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return in, false
	}
	return in, true
}

func variantModels(in []VariantInput) []models.Variant {
	out := make([]models.Variant, 0, len(in))
	for _, v := range in {
		m := models.Variant{Size: v.Size, Color: v.Color, Stock: v.Stock}
		m.ID = v.ID
		out = append(out, m)
	}
	return out
}
