// internal/model/outreach.go
package model

import (
    "strings"
    "unicode/utf8"

    appErrors "github.com/unclebandit/outreach-backend/internal/errors"
)

type Tone string

const (
    ToneFriendly   Tone = "Friendly"
    ToneFormal     Tone = "Formal"
    ToneAggressive Tone = "Aggressive"
    ToneConcise    Tone = "Concise"
)

// MinContextLength applies to LeadData and ProductInfo.
const MinContextLength = 10

func (t Tone) Valid() bool {
    switch t {
    case ToneFriendly, ToneFormal, ToneAggressive, ToneConcise:
        return true
    }
    return false
}

// GenerationRequest is the submitted lead/product form.
type GenerationRequest struct {
    LeadName          string `json:"leadName"`
    LeadCompany       string `json:"leadCompany"`
    LeadData          string `json:"leadData"`
    ProductInfo       string `json:"productInfo"`
    ClientContext     string `json:"clientContext,omitempty"`
    OutreachGoals     string `json:"outreachGoals"`
    TypicalObjections string `json:"typicalObjections,omitempty"`
    Tone              Tone   `json:"tone"`
}

// Validate reports every failing field at once.
func (r GenerationRequest) Validate() error {
    v := &appErrors.ValidationError{}

    if strings.TrimSpace(r.LeadName) == "" {
        v.Add("leadName", "lead name is required")
    }
    if strings.TrimSpace(r.LeadCompany) == "" {
        v.Add("leadCompany", "company name is required")
    }
    if utf8.RuneCountInString(strings.TrimSpace(r.LeadData)) < MinContextLength {
        v.Add("leadData", "please provide more context about the lead (at least 10 characters)")
    }
    if utf8.RuneCountInString(strings.TrimSpace(r.ProductInfo)) < MinContextLength {
        v.Add("productInfo", "product info is required (at least 10 characters)")
    }
    if strings.TrimSpace(r.OutreachGoals) == "" {
        v.Add("outreachGoals", "outreach goals are required")
    }
    if !r.Tone.Valid() {
        v.Add("tone", "tone must be one of Friendly, Formal, Aggressive, Concise")
    }

    return v.OrNil()
}

// ScriptBundle is the structured output of script generation.
type ScriptBundle struct {
    EmailScript    string `json:"emailScript"`
    LinkedinScript string `json:"linkedinScript"`
    CallScript     string `json:"callScript"`
}

// ScriptBundleFields are the keys the model must return.
var ScriptBundleFields = []string{"emailScript", "linkedinScript", "callScript"}

// OutreachResult is the aggregate returned by a successful generation.
type OutreachResult struct {
    EmailScript    string `json:"emailScript"`
    LinkedinScript string `json:"linkedinScript"`
    CallScript     string `json:"callScript"`
    TalkingPoints  string `json:"talkingPoints"`
    Research       string `json:"research"`
    Objections     string `json:"objections"`
    Analysis       string `json:"analysis"`
}
