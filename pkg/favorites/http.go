package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	apphttp "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/http"
)

// Handler exposes the /favorites routes. These are device-scoped and
// intentionally unauthenticated.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the favorites routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.list))
		r.Post("/", apphttp.HandleError(h.add))
		r.Delete("/", apphttp.HandleError(h.remove))
	})
}

type favoriteRequest struct {
	DeviceID string `json:"device_id"`
	Symbol   string `json:"symbol"`
}

func (r *favoriteRequest) validate() error {
	if strings.TrimSpace(r.DeviceID) == "" {
		return apperrors.BadRequestError(nil, "device_id is required")
	}
	if strings.TrimSpace(r.Symbol) == "" {
		return apperrors.BadRequestError(nil, "symbol is required")
	}
	return nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		return apperrors.BadRequestError(nil, "device_id is required")
	}

	favorites, err := h.store.List(r.Context(), deviceID)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, favorites)
	return nil
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) error {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	favorite, err := h.store.Add(r.Context(), req.DeviceID, req.Symbol)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	apphttp.WriteJSON(w, http.StatusCreated, favorite)
	return nil
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) error {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	if err := h.store.Remove(r.Context(), req.DeviceID, req.Symbol); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ResourceNotFoundError(err, "favorite not found")
		}
		return apperrors.GeneralError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	return nil
}
