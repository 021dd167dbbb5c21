package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	apphttp "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/http"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/ingest"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// Handler exposes the dashboard read routes and the ingestion routes.
type Handler struct {
	svc    *Service
	ingest *ingest.Service
}

func NewHandler(svc *Service, ingestSvc *ingest.Service) *Handler {
	return &Handler{svc: svc, ingest: ingestSvc}
}

// RegisterRoutes mounts all /data routes. Read routes require a valid
// token; write routes additionally require the admin role.
func (h *Handler) RegisterRoutes(r chi.Router, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/data", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/latest", apphttp.HandleError(h.latest))
			r.Get("/date/{date}", apphttp.HandleError(h.byDate))
			r.Get("/coins", apphttp.HandleError(h.listCoins))
			r.Get("/coins/{symbol}", apphttp.HandleError(h.coinHistory))
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/input", apphttp.HandleError(h.input))
			r.Post("/debug-input", apphttp.HandleError(h.debugInput))
		})
	})
	r.Group(func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Delete("/coins/{symbol}", apphttp.HandleError(h.deleteCoin))
	})
}

type rawInput struct {
	RawData string `json:"rawData"`
}

func (h *Handler) input(w http.ResponseWriter, r *http.Request) error {
	var in rawInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	result, err := h.ingest.IngestRawText(r.Context(), in.RawData)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, result)
	return nil
}

// debugInput persists a pre-built snapshot without touching the
// extractor, so operators can replay or hand-craft a day's data.
func (h *Handler) debugInput(w http.ResponseWriter, r *http.Request) error {
	var snapshot market.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	result, err := h.ingest.IngestSnapshot(r.Context(), &snapshot)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) error {
	view, err := h.svc.Latest(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *Handler) byDate(w http.ResponseWriter, r *http.Request) error {
	view, err := h.svc.ByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *Handler) listCoins(w http.ResponseWriter, r *http.Request) error {
	coins, err := h.svc.ListCoins(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, coins)
	return nil
}

func (h *Handler) coinHistory(w http.ResponseWriter, r *http.Request) error {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "days must be an integer")
		}
		days = parsed
	}

	history, err := h.svc.CoinHistory(r.Context(), chi.URLParam(r, "symbol"), days)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, history)
	return nil
}

func (h *Handler) deleteCoin(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.DeleteCoin(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	return nil
}
