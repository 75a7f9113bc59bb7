package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/outreach-backend/internal/errors"
	"github.com/unclebandit/outreach-backend/internal/model"
	"github.com/unclebandit/outreach-backend/internal/queue"
)

const (
	kindAnalysis      = "analysis"
	kindResearch      = "research"
	kindObjections    = "objections"
	kindScripts       = "scripts"
	kindTalkingPoints = "talkingPoints"
)

const cannedScripts = "```json\n" + `{"emailScript":"EMAIL","linkedinScript":"LINKEDIN","callScript":"CALL"}` + "\n```"

func classify(systemPrompt, userPrompt string) string {
	switch {
	case systemPrompt != "":
		return kindScripts
	case strings.Contains(userPrompt, "Analyze the lead data"):
		return kindAnalysis
	case strings.Contains(userPrompt, "background research summary"):
		return kindResearch
	case strings.Contains(userPrompt, "likely objections"):
		return kindObjections
	case strings.Contains(userPrompt, "key talking points"):
		return kindTalkingPoints
	}
	return "unknown"
}

type completionCall struct {
	Kind       string
	UserPrompt string
}

// stubCompleter answers each task with canned text and records call order.
type stubCompleter struct {
	mu           sync.Mutex
	outputs      map[string]string
	failOn       string
	delays       map[string]time.Duration
	calls        []completionCall
	analysisDone bool
	violations   []string
}

func newStubCompleter() *stubCompleter {
	return &stubCompleter{
		outputs: map[string]string{
			kindAnalysis:      "ANALYSIS: procurement leader, cost pressure",
			kindResearch:      "RESEARCH: Acme manufactures widgets",
			kindObjections:    "OBJECTIONS: - price - timing - incumbent",
			kindScripts:       cannedScripts,
			kindTalkingPoints: "TALKING POINTS: - save time - reduce risk - audit trail",
		},
		delays: map[string]time.Duration{},
	}
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	kind := classify(systemPrompt, userPrompt)

	s.mu.Lock()
	s.calls = append(s.calls, completionCall{Kind: kind, UserPrompt: userPrompt})
	if (kind == kindScripts || kind == kindTalkingPoints) && !s.analysisDone {
		s.violations = append(s.violations, kind+" started before analysis completed")
	}
	delay := s.delays[kind]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if kind == s.failOn {
		return "", appErrors.NewProviderError("chat completion", errors.New("upstream 503"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == kindAnalysis {
		s.analysisDone = true
	}
	return s.outputs[kind], nil
}

func (s *stubCompleter) snapshot() []completionCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]completionCall(nil), s.calls...)
}

// fakeCampaignRepo enforces ownership the way the store's row policy does.
type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	createErr error
	creates   int
	lists     int
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Campaign, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++

	var owned []*model.Campaign
	for _, c := range r.campaigns {
		if c.UserID == userID {
			cp := *c
			owned = append(owned, &cp)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := len(owned)
	if offset >= total {
		return []*model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	if c.UserID != userID {
		return appErrors.NewUnauthorized("campaign belongs to another user")
	}
	delete(r.campaigns, id)
	return nil
}

func (r *fakeCampaignRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.campaigns)
}

type recordingQueue struct {
	mu     sync.Mutex
	events []queue.CampaignEvent
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	ev, _ := queue.AsCampaignEvent(payload)
	q.events = append(q.events, ev)
	return nil
}

func (q *recordingQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}
