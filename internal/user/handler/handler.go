package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/AmineOzil/user-registration/internal/user/models"
	dErrors "github.com/AmineOzil/user-registration/pkg/domain-errors"
	"github.com/AmineOzil/user-registration/pkg/platform/httputil"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the interface for user registration operations.
type Service interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (*models.UserResponse, error)
	GetUserDetails(ctx context.Context, username string) (*models.UserResponse, error)
}

// Handler handles the user endpoints.
type Handler struct {
	logger *slog.Logger
	users  Service
	errors *httputil.ErrorWriter
}

// New creates a new user Handler.
func New(users Service, logger *slog.Logger, errors *httputil.ErrorWriter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if errors == nil {
		errors = httputil.NewErrorWriter(logger)
	}
	return &Handler{logger: logger, users: users, errors: errors}
}

// Register registers the user routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/users", h.handleRegister)
	r.Get("/api/users/{username}", h.handleGetUser)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var body registerUserRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		h.logger.WarnContext(ctx, "invalid registration payload",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.errors.WriteError(w, r, dErrors.Wrap(err, dErrors.CodeMalformedInput, describeDecodeError(err)))
		return
	}

	req := body.toModel()
	h.logger.DebugContext(ctx, "ApiCall Register", "request_id", requestID, "request", *req)

	resp, err := h.users.Register(ctx, req)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+url.PathEscape(resp.Username))
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	resp, err := h.users.GetUserDetails(r.Context(), username)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
