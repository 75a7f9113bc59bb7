// internal/controller/outreach_controller.go
package controller

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"

    "go.uber.org/zap"

    "github.com/unclebandit/outreach-backend/internal/auth"
    appErrors "github.com/unclebandit/outreach-backend/internal/errors"
    "github.com/unclebandit/outreach-backend/internal/model"
)

// Generator is satisfied by *service.CampaignService.
type Generator interface {
    Generate(ctx context.Context, userID string, req model.GenerationRequest) (*model.OutreachResult, error)
}

type OutreachController struct {
    Service Generator
}

// Generate handles POST /outreach. Signed-in callers also get the result saved to their history.
func (c *OutreachController) Generate(w http.ResponseWriter, r *http.Request) {
    var body model.GenerationRequest
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    result, err := c.Service.Generate(r.Context(), auth.UserID(r.Context()), body)
    if err != nil {
        var ve *appErrors.ValidationError
        if errors.As(err, &ve) {
            writeJSON(w, http.StatusBadRequest, map[string]interface{}{
                "error":  "validation failed",
                "fields": ve.Fields,
            })
            return
        }

        var gf *appErrors.GenerationFailedError
        if !errors.As(err, &gf) {
            zap.L().Error("unexpected generation error", zap.Error(err))
            err = appErrors.NewGenerationFailed(err)
        }
        writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
        return
    }

    writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    if err := json.NewEncoder(w).Encode(v); err != nil {
        zap.L().Warn("failed to write response", zap.Error(err))
    }
}
