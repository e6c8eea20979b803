package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/auth"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
)

type Handler struct {
	Auth *auth.Service
}

func NewHandler(authService *auth.Service) *Handler {
	return &Handler{Auth: authService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/me", h.handleMe)

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Get("/", h.handleListUsers)
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/", h.handleCreateUser)
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/{userID}/activate", h.handleSetActive(true))
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/{userID}/deactivate", h.handleSetActive(false))
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	token, user, err := h.Auth.Login(r.Context(), strings.TrimSpace(payload.Email), payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", requestID)
		return
	}
	api.Success(w, loginResponse{Token: token, User: user}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	api.Success(w, user, requestID)
}

type createUserPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if !auth.ValidRole(payload.Role) {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "role must be analyst, supervisor or admin", requestID)
		return
	}
	if strings.TrimSpace(payload.Email) == "" || len(payload.Password) < 8 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and a password of at least 8 characters are required", requestID)
		return
	}

	id, err := h.Auth.CreateUser(r.Context(), strings.TrimSpace(payload.Email), strings.TrimSpace(payload.FullName), payload.Role, payload.Password)
	if errors.Is(err, auth.ErrEmailTaken) {
		api.Fail(w, http.StatusConflict, "email_taken", "a user with that email already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	users, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_list_failed", "failed to list users", requestID)
		return
	}
	api.Success(w, users, requestID)
}

func (h *Handler) handleSetActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		if err := h.Auth.SetUserActive(r.Context(), chi.URLParam(r, "userID"), active); err != nil {
			api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update user", requestID)
			return
		}
		api.Success(w, map[string]bool{"active": active}, requestID)
	}
}
