package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/api"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
)

// Projector is the projection use case as seen by the transport
type Projector interface {
	Project(ctx context.Context, userID string, input domain.GoalInput) (*domain.ProjectionResult, error)
	CheckPromotions(ctx context.Context, model string) (bool, error)
}

// Authenticator issues and verifies bearer tokens
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (string, error)
}

// Handler serves the JSON API
type Handler struct {
	projection Projector
	auth       Authenticator
	log        *logrus.Logger
}

// NewHandler creates a new Handler
func NewHandler(projection Projector, authenticator Authenticator, log *logrus.Logger) *Handler {
	return &Handler{projection: projection, auth: authenticator, log: log}
}

// Router builds the routes; metrics may be nil
func (h *Handler) Router(metrics http.Handler) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(h.AuthMiddleware)
	authRouter.HandleFunc("/projections", h.Project).Methods(http.MethodPost)
	authRouter.HandleFunc("/promotions/{model}", h.CheckPromotions).Methods(http.MethodGet)

	return r
}

// AuthMiddleware rejects requests without a valid bearer token
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}

		username, err := h.auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), username)))
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{Token: token})
}

// Project handles a projection request for the authenticated user
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	var req api.GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	goal, err := req.ToGoal()
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.projection.Project(r.Context(), auth.UserFromContext(r.Context()), goal)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NewProjectionResponse(result))
}

// CheckPromotions reports whether a model is on promotion
func (h *Handler) CheckPromotions(w http.ResponseWriter, r *http.Request) {
	model := mux.Vars(r)["model"]

	found, err := h.projection.CheckPromotions(r.Context(), model)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PromotionResponse{Model: model, Promotion: found})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps domain errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError

	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Field: vErr.Field})
	case errors.Is(err, domain.ErrProjectionDiverged):
		writeJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		h.log.WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
