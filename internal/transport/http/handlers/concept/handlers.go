package concepthandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/concept"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Concepts *concept.Service
	Audit    *audit.Service
}

func NewHandler(concepts *concept.Service, auditService *audit.Service) *Handler {
	return &Handler{Concepts: concepts, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/concepts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermConceptsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermConceptsWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermConceptsWrite)).Put("/{conceptID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermConceptsWrite)).Delete("/{conceptID}", h.handleDelete)
	})
}

type conceptPayload struct {
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	Code             string `json:"code"`
	AffectsPension   bool   `json:"affectsPension"`
	AffectsIncomeTax bool   `json:"affectsIncomeTax"`
	AffectsHealth    bool   `json:"affectsHealth"`
	Proratable       bool   `json:"proratable"`
	SeveranceBase    bool   `json:"severanceBase"`
	BonusBase        bool   `json:"bonusBase"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	concepts, err := h.Concepts.List(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "concepts_list_failed", "failed to list concepts", requestID)
		return
	}

	// Uncoded concepts cannot reach the PLAME export; surface them early.
	var uncoded []string
	for _, c := range concepts {
		if c.Code == "" {
			uncoded = append(uncoded, c.Name)
		}
	}
	api.Success(w, map[string]any{"concepts": concepts, "missingCodes": uncoded}, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")

	var payload conceptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "concept name is required")
	if v.Reject(w, requestID) {
		return
	}

	c := concept.Concept{
		CompanyID:        companyID,
		Name:             strings.ToUpper(strings.TrimSpace(payload.Name)),
		Kind:             strings.ToUpper(strings.TrimSpace(payload.Kind)),
		Code:             strings.TrimSpace(payload.Code),
		AffectsPension:   payload.AffectsPension,
		AffectsIncomeTax: payload.AffectsIncomeTax,
		AffectsHealth:    payload.AffectsHealth,
		Proratable:       payload.Proratable,
		SeveranceBase:    payload.SeveranceBase,
		BonusBase:        payload.BonusBase,
	}
	id, err := h.Concepts.Create(r.Context(), c)
	if errors.Is(err, concept.ErrInvalidKind) {
		api.Fail(w, http.StatusBadRequest, "invalid_kind", "kind must be INCOME or DEDUCTION", requestID)
		return
	}
	if errors.Is(err, concept.ErrNameTaken) {
		api.Fail(w, http.StatusConflict, "name_taken", "a concept with that name already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "concept_create_failed", "failed to create concept", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "concept.create", "concept", id,
		requestID, shared.ClientIP(r), nil, c)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	conceptID := chi.URLParam(r, "conceptID")

	var payload conceptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	c := concept.Concept{
		ID:               conceptID,
		CompanyID:        companyID,
		Name:             strings.ToUpper(strings.TrimSpace(payload.Name)),
		Code:             strings.TrimSpace(payload.Code),
		AffectsPension:   payload.AffectsPension,
		AffectsIncomeTax: payload.AffectsIncomeTax,
		AffectsHealth:    payload.AffectsHealth,
		Proratable:       payload.Proratable,
		SeveranceBase:    payload.SeveranceBase,
		BonusBase:        payload.BonusBase,
	}
	err := h.Concepts.Update(r.Context(), c)
	switch {
	case errors.Is(err, concept.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "concept_not_found", "concept not found", requestID)
		return
	case errors.Is(err, concept.ErrBuiltinRename):
		api.Fail(w, http.StatusConflict, "builtin_protected", "built-in concepts cannot be renamed", requestID)
		return
	case errors.Is(err, concept.ErrNameTaken):
		api.Fail(w, http.StatusConflict, "name_taken", "a concept with that name already exists", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "concept_update_failed", "failed to update concept", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "concept.update", "concept", conceptID,
		requestID, shared.ClientIP(r), nil, c)
	api.Success(w, map[string]string{"id": conceptID}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	conceptID := chi.URLParam(r, "conceptID")

	err := h.Concepts.Delete(r.Context(), companyID, conceptID)
	switch {
	case errors.Is(err, concept.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "concept_not_found", "concept not found", requestID)
		return
	case errors.Is(err, concept.ErrBuiltinDelete):
		api.Fail(w, http.StatusConflict, "builtin_protected", "built-in concepts cannot be deleted", requestID)
		return
	case errors.Is(err, concept.ErrConceptInUse):
		api.Fail(w, http.StatusConflict, "concept_in_use", "concept has period amounts recorded", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "concept_delete_failed", "failed to delete concept", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "concept.delete", "concept", conceptID,
		requestID, shared.ClientIP(r), nil, nil)
	api.Success(w, map[string]string{"id": conceptID}, requestID)
}
