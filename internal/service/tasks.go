// internal/service/tasks.go
package service

import (
    "context"
    "strings"

    "github.com/unclebandit/outreach-backend/internal/ai"
    appErrors "github.com/unclebandit/outreach-backend/internal/errors"
    "github.com/unclebandit/outreach-backend/internal/model"
)

type LeadAnalysisInput struct {
    LeadName    string
    LeadCompany string
    LeadData    string
}

type BackgroundResearchInput struct {
    LeadCompany string
}

type ObjectionHandlingInput struct {
    ProductInfo       string
    TypicalObjections string
}

type ScriptGenerationInput struct {
    LeadName      string
    LeadCompany   string
    Analysis      string
    ProductInfo   string
    OutreachGoals string
    Tone          model.Tone
}

type TalkingPointsInput struct {
    Analysis      string
    ProductInfo   string
    ClientContext string
}

// Tasks holds the five generation tasks. Each makes exactly one completion call.
type Tasks struct {
    AI ai.Completer
}

func NewTasks(c ai.Completer) *Tasks {
    return &Tasks{AI: c}
}

// required collects blank fields into one ValidationError.
func required(pairs ...string) error {
    v := &appErrors.ValidationError{}
    for i := 0; i+1 < len(pairs); i += 2 {
        if strings.TrimSpace(pairs[i+1]) == "" {
            v.Add(pairs[i], "is required")
        }
    }
    return v.OrNil()
}

func (t *Tasks) complete(ctx context.Context, template string, values map[string]any) (string, error) {
    prompt, err := ai.Render(template, values)
    if err != nil {
        return "", err
    }
    return t.AI.Complete(ctx, "", prompt)
}

func (t *Tasks) AnalyzeLead(ctx context.Context, in LeadAnalysisInput) (string, error) {
    if err := required("leadName", in.LeadName, "leadCompany", in.LeadCompany, "leadData", in.LeadData); err != nil {
        return "", err
    }
    return t.complete(ctx, ai.LeadAnalysis, map[string]any{
        "leadName":    in.LeadName,
        "leadCompany": in.LeadCompany,
        "leadData":    in.LeadData,
    })
}

// ResearchBackground uses general model knowledge only, there is no live lookup.
func (t *Tasks) ResearchBackground(ctx context.Context, in BackgroundResearchInput) (string, error) {
    if err := required("leadCompany", in.LeadCompany); err != nil {
        return "", err
    }
    return t.complete(ctx, ai.BackgroundResearch, map[string]any{
        "leadCompany": in.LeadCompany,
    })
}

func (t *Tasks) SuggestObjectionHandling(ctx context.Context, in ObjectionHandlingInput) (string, error) {
    if err := required("productInfo", in.ProductInfo); err != nil {
        return "", err
    }
    return t.complete(ctx, ai.ObjectionHandling, map[string]any{
        "productInfo":       in.ProductInfo,
        "typicalObjections": strings.TrimSpace(in.TypicalObjections),
    })
}

func (t *Tasks) GenerateScripts(ctx context.Context, in ScriptGenerationInput) (*model.ScriptBundle, error) {
    err := required(
        "leadName", in.LeadName,
        "leadCompany", in.LeadCompany,
        "analysis", in.Analysis,
        "productInfo", in.ProductInfo,
        "outreachGoals", in.OutreachGoals,
    )
    if err != nil {
        return nil, err
    }
    if !in.Tone.Valid() {
        return nil, appErrors.NewValidationError("tone", "tone must be one of Friendly, Formal, Aggressive, Concise")
    }

    prompt, err := ai.Render(ai.ScriptGeneration, map[string]any{
        "leadName":      in.LeadName,
        "leadCompany":   in.LeadCompany,
        "analysis":      in.Analysis,
        "productInfo":   in.ProductInfo,
        "outreachGoals": in.OutreachGoals,
        "tone":          string(in.Tone),
    })
    if err != nil {
        return nil, err
    }

    bundle, err := ai.CompleteStructured[model.ScriptBundle](ctx, t.AI, prompt, ai.ScriptBundleShape, model.ScriptBundleFields...)
    if err != nil {
        return nil, err
    }
    return &bundle, nil
}

func (t *Tasks) ExtractTalkingPoints(ctx context.Context, in TalkingPointsInput) (string, error) {
    if err := required("analysis", in.Analysis, "productInfo", in.ProductInfo); err != nil {
        return "", err
    }
    return t.complete(ctx, ai.TalkingPoints, map[string]any{
        "analysis":      in.Analysis,
        "productInfo":   in.ProductInfo,
        "clientContext": strings.TrimSpace(in.ClientContext),
    })
}
