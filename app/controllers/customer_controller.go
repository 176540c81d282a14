package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/app/repositories"
	"github.com/shashiranjanraj/sklad/pkg/bind"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

// CustomerInput is the create/update payload. Phone and email are optional
// but unique across customers when present.
type CustomerInput struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Phone string `json:"phone" validate:"nullable,max=50"`
	Email string `json:"email" validate:"nullable,email"`
	Notes string `json:"notes" validate:"nullable,max=5000"`
}

type CustomerController struct {
	db   *gorm.DB
	repo *repositories.CustomerRepository
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{db: db, repo: repositories.NewCustomerRepository(db)}
}

// conflicts checks the optionally-unique phone and email against other
// customers. excludeID skips the customer being updated.
func (c *CustomerController) conflicts(in CustomerInput, excludeID uint) (map[string]string, error) {
	errs := map[string]string{}
	if in.Phone != "" {
		taken, err := fieldTaken(c.db, &models.Customer{}, "phone", in.Phone, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs["phone"] = takenMessage("phone")
		}
	}
	if in.Email != "" {
		taken, err := fieldTaken(c.db, &models.Customer{}, "email", in.Email, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs["email"] = takenMessage("email")
		}
	}
	return errs, nil
}

func (c *CustomerController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	customers, p, err := c.repo.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"customers":  customers,
		"pagination": p,
	})
}

func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	customer, err := c.repo.Find(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, customer)
}

func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	var in CustomerInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	conflicts, err := c.conflicts(in, 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(conflicts) > 0 {
		response.ValidationError(w, conflicts)
		return
	}

	customer := models.Customer{
		Name:  in.Name,
		Phone: optional(in.Phone),
		Email: optional(in.Email),
		Notes: in.Notes,
	}
	if err := c.repo.Create(&customer); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, customer)
}

func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in CustomerInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	conflicts, err := c.conflicts(in, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(conflicts) > 0 {
		response.ValidationError(w, conflicts)
		return
	}

	customer, err := c.repo.Get(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	customer.Name = in.Name
	customer.Phone = optional(in.Phone)
	customer.Email = optional(in.Email)
	customer.Notes = in.Notes
	if err := c.repo.Update(customer); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, customer)
}

func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
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
	response.Success(w, map[string]string{"message": "Customer deleted"})
}

// optional converts an empty string to a nil pointer so optional unique
// columns store NULL instead of "".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
