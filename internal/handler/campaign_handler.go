// internal/handler/campaign_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/outreach-backend/internal/auth"
	appErrors "github.com/unclebandit/outreach-backend/internal/errors"
	"github.com/unclebandit/outreach-backend/internal/model"
)

// CampaignHistory is satisfied by *service.CampaignService.
type CampaignHistory interface {
	ListCampaigns(ctx context.Context, userID string, page, pageSize int) ([]model.Campaign, map[string]int, error)
	GetCampaign(ctx context.Context, userID, id string) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, userID, id string) error
}

// CampaignHandler serves the signed-in user's saved campaigns
type CampaignHandler struct {
	Service CampaignHistory
}

func NewCampaignHandler(svc CampaignHistory) *CampaignHandler {
	return &CampaignHandler{Service: svc}
}

// ListCampaignsHandler returns a paginated list of the caller's campaigns
func (h *CampaignHandler) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	campaigns, pagination, err := h.Service.ListCampaigns(r.Context(), auth.UserID(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

// GetCampaignHandler returns one of the caller's campaigns by ID
func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, appErrors.NewCampaignNotFound(id))
		return
	}

	campaign, err := h.Service.GetCampaign(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// DeleteCampaignHandler removes a campaign the caller owns
func (h *CampaignHandler) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())
	if _, err := uuid.Parse(id); err != nil && userID != "" {
		writeError(w, r, appErrors.NewCampaignNotFound(id))
		return
	}

	if err := h.Service.DeleteCampaign(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service errors to statuses. Unauthorized means "sign in" for
// anonymous callers and "not yours" for everyone else.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ua *appErrors.Unauthorized
		nf *appErrors.ErrCampaignNotFound
	)
	switch {
	case errors.As(err, &ua):
		status := http.StatusForbidden
		if auth.UserID(r.Context()) == "" {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		zap.L().Error("campaign history request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}
