package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/repositories"
	"github.com/shashiranjanraj/sklad/app/services"
	"github.com/shashiranjanraj/sklad/pkg/bind"
	"github.com/shashiranjanraj/sklad/pkg/middleware"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

type OrderController struct {
	repo    *repositories.OrderRepository
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		repo:    repositories.NewOrderRepository(db),
		service: services.NewOrderService(db),
	}
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orders, p, err := c.repo.List(page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"orders":     orders,
		"pagination": p,
	})
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	order, err := c.repo.Find(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Create places an order for the authenticated user acting as manager.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromCtx(r)

	var in services.CreateOrderInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Create(r.Context(), actorID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	full, err := c.repo.Find(order.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, full)
}

// UpdateStatus is the only mutation allowed on an existing order.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in struct {
		Status string `json:"status" validate:"required"`
	}
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if _, err := c.service.UpdateStatus(r.Context(), id, in.Status); err != nil {
		writeServiceError(w, r, err)
		return
	}

	full, err := c.repo.Find(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, full)
}
