package permissions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/listview"
	"github.com/aegis-admin/aegis-admin/internal/platform/httpx"
)

// Schema exposes permission fields to the list view pipeline.
var Schema = listview.Schema[directory.Permission]{
	Value: func(p directory.Permission, field string) (any, bool) {
		switch field {
		case "id":
			return p.ID, true
		case "name":
			return p.Name, true
		case "description":
			return p.Description, true
		}
		return nil, false
	},
	Searchable: []string{"name", "description"},
}

// Handler serves the permission catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sc := listview.SortConfig{Field: q.Get("sort"), Direction: listview.Direction(q.Get("dir"))}
	if sc.Field != "" && sc.Direction == "" {
		sc.Direction = listview.DirectionAsc
	}

	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list permissions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	result.Items = Schema.Apply(result.Items, sc, nil, q.Get("q"))
	httpx.JSON(w, http.StatusOK, result)
}
