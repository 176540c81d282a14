package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/bind"
	"github.com/shashiranjanraj/sklad/pkg/orm"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
	Slug string `json:"slug" validate:"nullable,max=255"`
}

type CategoryController struct {
	db *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := orm.WithDB(c.db).Order("name ASC").Get(&categories); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, categories)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if in.Slug == "" {
		in.Slug = slugify(in.Name)
	}
	taken, err := fieldTaken(c.db, &models.Category{}, "slug", in.Slug, 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if taken {
		response.ValidationError(w, map[string]string{"slug": takenMessage("slug")})
		return
	}

	category := models.Category{Name: in.Name, Slug: in.Slug}
	if err := orm.WithDB(c.db).Create(&category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in CategoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var category models.Category
	if err := orm.WithDB(c.db).Where("id = ?", id).First(&category); err != nil {
		writeServiceError(w, r, err)
		return
	}

	category.Name = in.Name
	if in.Slug != "" {
		taken, err := fieldTaken(c.db, &models.Category{}, "slug", in.Slug, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if taken {
			response.ValidationError(w, map[string]string{"slug": takenMessage("slug")})
			return
		}
		category.Slug = in.Slug
	}
	if err := orm.WithDB(c.db).Save(&category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, category)
}

// Delete removes a category by path id, or by a body {"id": n} when the
// collection route is used.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		var in struct {
			ID uint `json:"id" validate:"required"`
		}
		errs, err := bind.JSON(r, &in)
		if err != nil || errs != nil {
			response.Error(w, http.StatusBadRequest, "missing category id")
			return
		}
		id = in.ID
	}
	var category models.Category
	if err := orm.WithDB(c.db).Where("id = ?", id).First(&category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := orm.WithDB(c.db).Delete(&category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Category deleted"})
}

var slugRE = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugRE.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
