package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/middleware"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/internal/response"
)

type LinkService interface {
	CreateLinkToken(ctx context.Context, uid string) (string, error)
	Link(ctx context.Context, uid, publicToken, institution string) (*models.Item, error)
	Items(ctx context.Context, uid string) ([]*models.Item, error)
}

type SyncService interface {
	Sync(ctx context.Context, uid string) (dto.SyncResult, error)
}

type plaidHandlers struct {
	ResponseHandler response.ResponseHandler
	LinkSvc         LinkService
	SyncSvc         SyncService
}

func NewPlaidHandlers(deps *Deps) *plaidHandlers {
	return &plaidHandlers{
		ResponseHandler: deps.ResponseHandler,
		LinkSvc:         deps.LinkSvc,
		SyncSvc:         deps.SyncSvc,
	}
}

func (h *plaidHandlers) PlaidRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/plaid/link-token", h.CreateLinkToken)
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.Link)
		r.Get("/", h.ListItems)
	})
	r.Post("/sync", h.Sync)
	return r
}

func (h *plaidHandlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	linkToken, err := h.LinkSvc.CreateLinkToken(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"linkToken": linkToken})
}

func (h *plaidHandlers) Link(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PublicToken string `json:"publicToken"`
		Institution string `json:"institution,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	item, err := h.LinkSvc.Link(r.Context(), uid, body.PublicToken, body.Institution)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, item)
}

func (h *plaidHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	items, err := h.LinkSvc.Items(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, items)
}

func (h *plaidHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	result, err := h.SyncSvc.Sync(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}
