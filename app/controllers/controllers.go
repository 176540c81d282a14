// Package controllers holds the HTTP handlers. Each controller owns its
// service and repository dependencies and maps domain errors onto the JSON
// envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/services"
	"github.com/shashiranjanraj/sklad/pkg/logger"
	"github.com/shashiranjanraj/sklad/pkg/response"
)

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// pageParams reads ?page= and ?limit= with defaults handled downstream.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// fieldTaken reports whether another row of model already holds value in
// column. excludeID skips the row being updated; pass 0 on create.
func fieldTaken(db *gorm.DB, model interface{}, column string, value interface{}, excludeID uint) (bool, error) {
	q := db.Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func takenMessage(field string) string {
	return "The " + field + " has already been taken."
}

// writeServiceError maps domain and ORM errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	var nf *services.NotFoundError
	var is *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		response.Unauthorized(w)
	case errors.As(err, &ve):
		response.ValidationError(w, ve.Fields)
	case errors.As(err, &nf):
		response.Error(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &is):
		response.Error(w, http.StatusBadRequest, is.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		response.Error(w, http.StatusBadRequest, "A record with that unique value already exists")
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
