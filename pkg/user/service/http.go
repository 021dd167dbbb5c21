package service

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	apphttp "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/http"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/auth"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user"
)

// Handler exposes the /auth routes.
type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth routes. Register and login are
// public; /auth/me requires a valid token.
func (h *Handler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", apphttp.HandleError(h.register))
		r.Post("/login", apphttp.HandleError(h.login))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", apphttp.HandleError(h.me))
		})
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	var req user.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	resp, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) error {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "missing authentication")
	}

	profile, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, profile)
	return nil
}
