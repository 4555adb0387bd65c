package users

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/listview"
	"github.com/aegis-admin/aegis-admin/internal/platform/httpx"
)

// Schema exposes user fields to the list view pipeline.
var Schema = listview.Schema[directory.User]{
	Value: func(u directory.User, field string) (any, bool) {
		switch field {
		case "id":
			return u.ID, true
		case "name":
			return u.Name, true
		case "email":
			return u.Email, true
		case "status":
			return string(u.Status), true
		case "role":
			return u.Role, true
		}
		return nil, false
	},
	Searchable: []string{"name", "email", "role"},
}

// Handler manages user management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     authz.Middleware
	validate *validator.Validate
	group    singleflight.Group
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validate: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.ActionCreateUser))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.ActionUpdateUser))
		r.Patch("/{id}", h.update)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.ActionDeleteUser))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sc := listview.SortConfig{Field: q.Get("sort"), Direction: listview.Direction(q.Get("dir"))}
	if sc.Field != "" && sc.Direction == "" {
		sc.Direction = listview.DirectionAsc
	}
	filters := listview.Filters{}
	for _, field := range []string{"status", "role"} {
		if v := q.Get(field); v != "" {
			filters[field] = v
		}
	}
	term := q.Get("q")

	// Identical in-flight reads of the same snapshot collapse to one fetch.
	key := fmt.Sprintf("%d|%s", h.service.Revision(), r.URL.RawQuery)
	result, err, _ := h.group.Do(key, func() (any, error) {
		res, err := h.service.List(r.Context())
		if err != nil {
			return nil, err
		}
		res.Items = Schema.Apply(res.Items, sc, filters, term)
		return res, nil
	})
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type createRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
	Role   string `json:"role"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, apperr.Validation(httpx.ValidatorFields(err)))
		return
	}
	user, err := h.service.Create(r.Context(), CreateInput{
		Name:   req.Name,
		Email:  req.Email,
		Status: directory.Status(req.Status),
		Role:   req.Role,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

type updateRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Role   *string `json:"role"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, apperr.NotFound("user"))
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, apperr.Validation(httpx.ValidatorFields(err)))
		return
	}
	in := UpdateInput{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Status != nil {
		status := directory.Status(*req.Status)
		in.Status = &status
	}
	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, apperr.NotFound("user"))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

