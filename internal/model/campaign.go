// internal/model/campaign.go
package model

import "time"

// Campaign is a persisted generation, owned by one user.
type Campaign struct {
    ID             string    `db:"id" json:"id"`
    UserID         string    `db:"user_id" json:"userId"`
    LeadName       string    `db:"lead_name" json:"leadName"`
    LeadCompany    string    `db:"lead_company" json:"leadCompany"`
    ProductInfo    string    `db:"product_info" json:"productInfo"`
    EmailScript    string    `db:"email_script" json:"emailScript"`
    LinkedinScript string    `db:"linkedin_script" json:"linkedinScript"`
    CallScript     string    `db:"call_script" json:"callScript"`
    TalkingPoints  string    `db:"talking_points" json:"talkingPoints"`
    Research       string    `db:"research" json:"research"`
    Analysis       string    `db:"analysis" json:"analysis"`
    Objections     string    `db:"objections" json:"objections"`
    CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// NewCampaign copies a result into a campaign owned by userID.
func NewCampaign(userID string, req GenerationRequest, res *OutreachResult) *Campaign {
    return &Campaign{
        UserID:         userID,
        LeadName:       req.LeadName,
        LeadCompany:    req.LeadCompany,
        ProductInfo:    req.ProductInfo,
        EmailScript:    res.EmailScript,
        LinkedinScript: res.LinkedinScript,
        CallScript:     res.CallScript,
        TalkingPoints:  res.TalkingPoints,
        Research:       res.Research,
        Analysis:       res.Analysis,
        Objections:     res.Objections,
    }
}

// Result maps a stored campaign back to the generation shape.
func (c *Campaign) Result() OutreachResult {
    return OutreachResult{
        EmailScript:    c.EmailScript,
        LinkedinScript: c.LinkedinScript,
        CallScript:     c.CallScript,
        TalkingPoints:  c.TalkingPoints,
        Research:       c.Research,
        Objections:     c.Objections,
        Analysis:       c.Analysis,
    }
}
