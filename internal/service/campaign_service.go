// internal/service/campaign_service.go
package service

import (
    "context"

    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "github.com/unclebandit/outreach-backend/internal/cache"
    appErrors "github.com/unclebandit/outreach-backend/internal/errors"
    "github.com/unclebandit/outreach-backend/internal/model"
    "github.com/unclebandit/outreach-backend/internal/queue"
    "github.com/unclebandit/outreach-backend/internal/repository"
)

// CampaignService generates outreach assets and manages the caller's campaign history.
type CampaignService struct {
    Tasks        *Tasks
    CampaignRepo repository.CampaignRepositoryInterface
    Queue        queue.Queue
    Cache        *cache.ListingCache
}

// Generate runs the five generation tasks and returns all of their outputs or a single failure.
// When userID is non-empty the result is also saved; a failed save is logged and ignored.
func (s *CampaignService) Generate(ctx context.Context, userID string, req model.GenerationRequest) (*model.OutreachResult, error) {
    if err := req.Validate(); err != nil {
        return nil, err
    }

    var analysis, research, objections string

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        var err error
        analysis, err = s.Tasks.AnalyzeLead(gctx, LeadAnalysisInput{
            LeadName:    req.LeadName,
            LeadCompany: req.LeadCompany,
            LeadData:    req.LeadData,
        })
        return err
    })
    g.Go(func() error {
        var err error
        research, err = s.Tasks.ResearchBackground(gctx, BackgroundResearchInput{
            LeadCompany: req.LeadCompany,
        })
        return err
    })
    g.Go(func() error {
        var err error
        objections, err = s.Tasks.SuggestObjectionHandling(gctx, ObjectionHandlingInput{
            ProductInfo:       req.ProductInfo,
            TypicalObjections: req.TypicalObjections,
        })
        return err
    })
    if err := g.Wait(); err != nil {
        return nil, s.generationFailed(err)
    }

    // Both dependents need the analysis text from the first barrier.
    var scripts *model.ScriptBundle
    var talkingPoints string

    g, gctx = errgroup.WithContext(ctx)
    g.Go(func() error {
        var err error
        scripts, err = s.Tasks.GenerateScripts(gctx, ScriptGenerationInput{
            LeadName:      req.LeadName,
            LeadCompany:   req.LeadCompany,
            Analysis:      analysis,
            ProductInfo:   req.ProductInfo,
            OutreachGoals: req.OutreachGoals,
            Tone:          req.Tone,
        })
        return err
    })
    g.Go(func() error {
        var err error
        talkingPoints, err = s.Tasks.ExtractTalkingPoints(gctx, TalkingPointsInput{
            Analysis:      analysis,
            ProductInfo:   req.ProductInfo,
            ClientContext: req.ClientContext,
        })
        return err
    })
    if err := g.Wait(); err != nil {
        return nil, s.generationFailed(err)
    }

    result := &model.OutreachResult{
        EmailScript:    scripts.EmailScript,
        LinkedinScript: scripts.LinkedinScript,
        CallScript:     scripts.CallScript,
        TalkingPoints:  talkingPoints,
        Research:       research,
        Objections:     objections,
        Analysis:       analysis,
    }

    if userID != "" {
        // the caller already has its result; a dropped connection should not abort the save
        s.save(context.WithoutCancel(ctx), userID, req, result)
    }

    return result, nil
}

// generationFailed collapses every task error into one opaque failure. The request was already
// validated, so a task-level ValidationError here means the model returned an empty analysis.
func (s *CampaignService) generationFailed(err error) error {
    zap.L().Error("error generating outreach", zap.Error(err))
    return appErrors.NewGenerationFailed(err)
}

func (s *CampaignService) save(ctx context.Context, userID string, req model.GenerationRequest, result *model.OutreachResult) {
    c := model.NewCampaign(userID, req, result)
    if err := s.CampaignRepo.Create(ctx, c); err != nil {
        zap.L().Error("failed to save campaign to history",
            zap.String("user_id", userID),
            zap.Error(appErrors.NewPersistenceError("insert campaign", err)),
        )
        return
    }
    s.changed(queue.TopicCampaignCreated, userID, c.ID)
}

// changed drops this instance's cached listings and tells other replicas to do the same.
func (s *CampaignService) changed(topic, userID, campaignID string) {
    if s.Cache != nil {
        s.Cache.Invalidate(userID)
    }
    if s.Queue == nil {
        return
    }
    ev := queue.CampaignEvent{Type: topic, CampaignID: campaignID, UserID: userID}
    if err := s.Queue.Publish(topic, ev); err != nil {
        zap.L().Warn("failed to publish campaign event", zap.String("topic", topic), zap.Error(err))
    }
}

// DeleteCampaign removes a campaign owned by userID.
func (s *CampaignService) DeleteCampaign(ctx context.Context, userID, id string) error {
    if userID == "" {
        return appErrors.NewUnauthorized("sign in to delete campaigns")
    }
    if err := s.CampaignRepo.Delete(ctx, userID, id); err != nil {
        zap.L().Warn("failed to delete campaign", zap.String("campaign_id", id), zap.Error(err))
        return err
    }
    s.changed(queue.TopicCampaignDeleted, userID, id)
    return nil
}

// ListCampaigns fetches the caller's campaigns, newest first, with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, userID string, page, pageSize int) ([]model.Campaign, map[string]int, error) {
    if userID == "" {
        return nil, nil, appErrors.NewUnauthorized("sign in to view campaign history")
    }
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }

    key := cache.PageKey(page, pageSize)
    var token uint64
    if s.Cache != nil {
        if l, ok := s.Cache.Get(userID, key); ok {
            return l.Campaigns, l.Pagination, nil
        }
        token = s.Cache.Token(userID)
    }

    offset := (page - 1) * pageSize
    ptrs, total, err := s.CampaignRepo.ListByUser(ctx, userID, offset, pageSize)
    if err != nil {
        return nil, nil, err
    }

    campaigns := make([]model.Campaign, len(ptrs))
    for i, c := range ptrs {
        campaigns[i] = *c
    }

    totalPages := (total + pageSize - 1) / pageSize
    pagination := map[string]int{
        "page":        page,
        "page_size":   pageSize,
        "total_count": total,
        "total_pages": totalPages,
    }

    if s.Cache != nil {
        s.Cache.Set(userID, key, token, cache.Listing{Campaigns: campaigns, Pagination: pagination})
    }

    return campaigns, pagination, nil
}

// GetCampaign fetches one of the caller's campaigns by ID
func (s *CampaignService) GetCampaign(ctx context.Context, userID, id string) (*model.Campaign, error) {
    if userID == "" {
        return nil, appErrors.NewUnauthorized("sign in to view campaign history")
    }
    return s.CampaignRepo.GetByID(ctx, userID, id)
}
