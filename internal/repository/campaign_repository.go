package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    sq "github.com/Masterminds/squirrel"
    "github.com/google/uuid"

    appErrors "github.com/unclebandit/outreach-backend/internal/errors"
    "github.com/unclebandit/outreach-backend/internal/model"
)

const campaignsTable = "outreach_campaigns"

var campaignColumns = []string{
    "id", "user_id", "lead_name", "lead_company", "product_info",
    "email_script", "linkedin_script", "call_script",
    "talking_points", "research", "analysis", "objections", "created_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CampaignRepositoryInterface is scoped by owner on every call; callers pass the authenticated user id.
type CampaignRepositoryInterface interface {
    Create(ctx context.Context, c *model.Campaign) error
    ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Campaign, int, error)
    GetByID(ctx context.Context, userID, id string) (*model.Campaign, error)
    Delete(ctx context.Context, userID, id string) error
}

type CampaignRepository struct {
    DB *sql.DB
}

// ====================== Query builders ======================

func insertQuery(c *model.Campaign) (string, []any, error) {
    return psql.Insert(campaignsTable).
        Columns(campaignColumns...).
        Values(
            c.ID, c.UserID, c.LeadName, c.LeadCompany, c.ProductInfo,
            c.EmailScript, c.LinkedinScript, c.CallScript,
            c.TalkingPoints, c.Research, c.Analysis, c.Objections, c.CreatedAt,
        ).
        ToSql()
}

func listQuery(userID string, offset, limit int) (string, []any, error) {
    return psql.Select(campaignColumns...).
        From(campaignsTable).
        Where(sq.Eq{"user_id": userID}).
        OrderBy("created_at DESC", "id DESC").
        Limit(uint64(limit)).
        Offset(uint64(offset)).
        ToSql()
}

func countQuery(userID string) (string, []any, error) {
    return psql.Select("COUNT(*)").
        From(campaignsTable).
        Where(sq.Eq{"user_id": userID}).
        ToSql()
}

func getQuery(userID, id string) (string, []any, error) {
    return psql.Select(campaignColumns...).
        From(campaignsTable).
        Where(sq.Eq{"id": id, "user_id": userID}).
        ToSql()
}

func deleteQuery(userID, id string) (string, []any, error) {
    return psql.Delete(campaignsTable).
        Where(sq.Eq{"id": id, "user_id": userID}).
        ToSql()
}

func ownerQuery(id string) (string, []any, error) {
    return psql.Select("user_id").
        From(campaignsTable).
        Where(sq.Eq{"id": id}).
        ToSql()
}

type scanner interface {
    Scan(dest ...any) error
}

func scanCampaign(s scanner) (*model.Campaign, error) {
    var c model.Campaign
    err := s.Scan(
        &c.ID, &c.UserID, &c.LeadName, &c.LeadCompany, &c.ProductInfo,
        &c.EmailScript, &c.LinkedinScript, &c.CallScript,
        &c.TalkingPoints, &c.Research, &c.Analysis, &c.Objections, &c.CreatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
    if c.ID == "" {
        c.ID = uuid.NewString()
    }
    if c.CreatedAt.IsZero() {
        c.CreatedAt = time.Now().UTC()
    }

    query, args, err := insertQuery(c)
    if err != nil {
        return err
    }
    _, err = r.DB.ExecContext(ctx, query, args...)
    return err
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Campaign, int, error) {
    query, args, err := listQuery(userID, offset, limit)
    if err != nil {
        return nil, 0, err
    }

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    campaigns := []*model.Campaign{}
    for rows.Next() {
        c, err := scanCampaign(rows)
        if err != nil {
            return nil, 0, err
        }
        campaigns = append(campaigns, c)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }

    // Count total
    query, args, err = countQuery(userID)
    if err != nil {
        return nil, 0, err
    }
    var total int
    if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return campaigns, total, nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
    query, args, err := getQuery(userID, id)
    if err != nil {
        return nil, err
    }

    c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, args...))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return c, nil
}

// Delete removes the campaign only when userID owns it. A foreign record is left intact and
// reported as Unauthorized.
func (r *CampaignRepository) Delete(ctx context.Context, userID, id string) error {
    query, args, err := deleteQuery(userID, id)
    if err != nil {
        return err
    }

    res, err := r.DB.ExecContext(ctx, query, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n > 0 {
        return nil
    }

    query, args, err = ownerQuery(id)
    if err != nil {
        return err
    }
    var owner string
    err = r.DB.QueryRowContext(ctx, query, args...).Scan(&owner)
    if errors.Is(err, sql.ErrNoRows) {
        return appErrors.NewCampaignNotFound(id)
    }
    if err != nil {
        return err
    }
    return appErrors.NewUnauthorized("campaign belongs to another user")
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
