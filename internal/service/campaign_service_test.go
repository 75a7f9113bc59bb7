package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/outreach-backend/internal/cache"
	appErrors "github.com/unclebandit/outreach-backend/internal/errors"
	"github.com/unclebandit/outreach-backend/internal/model"
	"github.com/unclebandit/outreach-backend/internal/queue"
	"github.com/unclebandit/outreach-backend/internal/service"
)

func janeDoe() model.GenerationRequest {
	return model.GenerationRequest{
		LeadName:      "Jane Doe",
		LeadCompany:   "Acme",
		LeadData:      "10+ years in procurement, leads a team of 12 buyers.",
		ProductInfo:   "A SaaS tool for vendor management",
		OutreachGoals: "Book a demo",
		Tone:          model.ToneFriendly,
	}
}

type fixture struct {
	ai    *stubCompleter
	repo  *fakeCampaignRepo
	queue *recordingQueue
	cache *cache.ListingCache
	svc   *service.CampaignService
}

func newFixture() *fixture {
	f := &fixture{
		ai:    newStubCompleter(),
		repo:  newFakeCampaignRepo(),
		queue: &recordingQueue{},
		cache: cache.NewListingCache(time.Minute),
	}
	f.svc = &service.CampaignService{
		Tasks:        service.NewTasks(f.ai),
		CampaignRepo: f.repo,
		Queue:        f.queue,
		Cache:        f.cache,
	}
	return f
}

func kinds(calls []completionCall) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Kind
	}
	return out
}

func TestGenerate_EndToEnd(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Generate(context.Background(), "", janeDoe())
	require.NoError(t, err)

	assert.Equal(t, model.OutreachResult{
		EmailScript:    "EMAIL",
		LinkedinScript: "LINKEDIN",
		CallScript:     "CALL",
		TalkingPoints:  f.ai.outputs[kindTalkingPoints],
		Research:       f.ai.outputs[kindResearch],
		Objections:     f.ai.outputs[kindObjections],
		Analysis:       f.ai.outputs[kindAnalysis],
	}, *res)

	calls := f.ai.snapshot()
	require.Len(t, calls, 5)
	assert.ElementsMatch(t, []string{kindAnalysis, kindResearch, kindObjections}, kinds(calls[:3]))
	assert.ElementsMatch(t, []string{kindScripts, kindTalkingPoints}, kinds(calls[3:]))
}

func TestGenerate_DependentsUseCompletedAnalysis(t *testing.T) {
	f := newFixture()
	f.ai.delays[kindAnalysis] = 50 * time.Millisecond

	_, err := f.svc.Generate(context.Background(), "", janeDoe())
	require.NoError(t, err)

	assert.Empty(t, f.ai.violations)
	for _, c := range f.ai.snapshot() {
		if c.Kind == kindScripts || c.Kind == kindTalkingPoints {
			assert.Contains(t, c.UserPrompt, f.ai.outputs[kindAnalysis], "%s prompt must carry the analysis", c.Kind)
		}
	}
}

func TestGenerate_ValidationMakesNoCalls(t *testing.T) {
	cases := map[string]func(r *model.GenerationRequest){
		"empty lead name":    func(r *model.GenerationRequest) { r.LeadName = "" },
		"empty company":      func(r *model.GenerationRequest) { r.LeadCompany = "" },
		"short lead data":    func(r *model.GenerationRequest) { r.LeadData = "CFO" },
		"short product info": func(r *model.GenerationRequest) { r.ProductInfo = "SaaS" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			req := janeDoe()
			mutate(&req)

			res, err := f.svc.Generate(context.Background(), "user-a", req)
			assert.Nil(t, res)
			var ve *appErrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Empty(t, f.ai.snapshot())
			assert.Zero(t, f.repo.creates)
		})
	}
}

func TestGenerate_AnyTaskFailureFailsWholeGeneration(t *testing.T) {
	for _, kind := range []string{kindAnalysis, kindResearch, kindObjections, kindScripts, kindTalkingPoints} {
		t.Run(kind, func(t *testing.T) {
			f := newFixture()
			f.ai.failOn = kind

			res, err := f.svc.Generate(context.Background(), "user-a", janeDoe())
			assert.Nil(t, res)

			var gf *appErrors.GenerationFailedError
			require.ErrorAs(t, err, &gf)
			var pe *appErrors.ProviderError
			assert.ErrorAs(t, err, &pe, "cause is kept for logs")
			assert.NotContains(t, err.Error(), "503", "provider detail must not leak")

			assert.Zero(t, f.repo.creates, "no persistence attempt")
			assert.Empty(t, f.queue.events)
		})
	}
}

func TestGenerate_PhaseOneFailureSkipsPhaseTwo(t *testing.T) {
	f := newFixture()
	f.ai.failOn = kindResearch

	_, err := f.svc.Generate(context.Background(), "", janeDoe())
	require.Error(t, err)
	for _, c := range f.ai.snapshot() {
		assert.NotEqual(t, kindScripts, c.Kind)
		assert.NotEqual(t, kindTalkingPoints, c.Kind)
	}
}

func TestGenerate_MalformedScriptsFail(t *testing.T) {
	f := newFixture()
	f.ai.outputs[kindScripts] = "Here are your scripts: Email..."

	_, err := f.svc.Generate(context.Background(), "", janeDoe())
	var gf *appErrors.GenerationFailedError
	require.ErrorAs(t, err, &gf)
	var mo *appErrors.MalformedModelOutput
	assert.ErrorAs(t, err, &mo)
}

func TestGenerate_PersistsForAuthenticatedUser(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Generate(context.Background(), "user-a", janeDoe())
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.creates)

	campaigns, _, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "user-a", campaigns[0].UserID)
	assert.Equal(t, "Jane Doe", campaigns[0].LeadName)
	assert.Equal(t, *res, campaigns[0].Result())

	require.Len(t, f.queue.events, 1)
	assert.Equal(t, queue.TopicCampaignCreated, f.queue.events[0].Type)
	assert.Equal(t, campaigns[0].ID, f.queue.events[0].CampaignID)
}

func TestGenerate_AnonymousSkipsPersistence(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Generate(context.Background(), "", janeDoe())
	require.NoError(t, err)
	assert.Zero(t, f.repo.creates)
	assert.Empty(t, f.queue.events)
}

func TestGenerate_PersistenceFailureStillReturnsResult(t *testing.T) {
	want := newFixture()
	expected, err := want.svc.Generate(context.Background(), "", janeDoe())
	require.NoError(t, err)

	f := newFixture()
	f.repo.createErr = errors.New("connection refused")

	res, err := f.svc.Generate(context.Background(), "user-a", janeDoe())
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, expected, res)
	assert.Empty(t, f.queue.events)
}

func seed(t *testing.T, f *fixture, userID string) string {
	t.Helper()
	c := model.NewCampaign(userID, janeDoe(), &model.OutreachResult{Analysis: "A"})
	require.NoError(t, f.repo.Create(context.Background(), c))
	return c.ID
}

func TestDeleteCampaign_RequiresIdentity(t *testing.T) {
	f := newFixture()
	id := seed(t, f, "user-a")

	err := f.svc.DeleteCampaign(context.Background(), "", id)
	var ua *appErrors.Unauthorized
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, 1, f.repo.count())
}

func TestDeleteCampaign_ForeignOwnerIsUnauthorized(t *testing.T) {
	f := newFixture()
	id := seed(t, f, "user-b")

	err := f.svc.DeleteCampaign(context.Background(), "user-a", id)
	var ua *appErrors.Unauthorized
	require.ErrorAs(t, err, &ua)

	c, err := f.svc.GetCampaign(context.Background(), "user-b", id)
	require.NoError(t, err, "record must be left intact")
	assert.Equal(t, id, c.ID)
	assert.Empty(t, f.queue.events)
}

func TestDeleteCampaign_NotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.DeleteCampaign(context.Background(), "user-a", "missing")
	var nf *appErrors.ErrCampaignNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteCampaign_InvalidatesListing(t *testing.T) {
	f := newFixture()
	id := seed(t, f, "user-a")

	_, _, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	_, _, err = f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.lists, "second listing is served from cache")

	require.NoError(t, f.svc.DeleteCampaign(context.Background(), "user-a", id))

	campaigns, pagination, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.lists)
	assert.Empty(t, campaigns)
	assert.Equal(t, 0, pagination["total_count"])

	require.Len(t, f.queue.events, 1)
	assert.Equal(t, queue.CampaignEvent{Type: queue.TopicCampaignDeleted, CampaignID: id, UserID: "user-a"}, f.queue.events[0])
}

func TestListCampaigns_Pagination(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c := &model.Campaign{UserID: "user-a", LeadName: "L", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, f.repo.Create(context.Background(), c))
	}
	seed(t, f, "user-b")

	page1, p1, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 2)
	require.NoError(t, err)
	page3, p3, err := f.svc.ListCampaigns(context.Background(), "user-a", 3, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, p1["total_count"])
	assert.Equal(t, 3, p1["total_pages"])
	require.Len(t, page1, 2)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt), "newest first")
	assert.Len(t, page3, 1)
	assert.Equal(t, 3, p3["page"])
	for _, c := range append(page1, page3...) {
		assert.Equal(t, "user-a", c.UserID)
	}
}

func TestListCampaigns_Clamps(t *testing.T) {
	f := newFixture()
	_, p, err := f.svc.ListCampaigns(context.Background(), "user-a", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, p["page"])
	assert.Equal(t, 100, p["page_size"])

	_, p, err = f.svc.ListCampaigns(context.Background(), "user-a", -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, p["page_size"])
}

func TestHistory_RequiresIdentity(t *testing.T) {
	f := newFixture()
	var ua *appErrors.Unauthorized

	_, _, err := f.svc.ListCampaigns(context.Background(), "", 1, 20)
	assert.ErrorAs(t, err, &ua)
	_, err = f.svc.GetCampaign(context.Background(), "", "any")
	assert.ErrorAs(t, err, &ua)
}

func TestGetCampaign_ScopedToOwner(t *testing.T) {
	f := newFixture()
	id := seed(t, f, "user-b")

	_, err := f.svc.GetCampaign(context.Background(), "user-a", id)
	var nf *appErrors.ErrCampaignNotFound
	assert.ErrorAs(t, err, &nf)
}

// pausingRepo holds the first ListByUser after it has read from the store until release is closed.
type pausingRepo struct {
	*fakeCampaignRepo
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (r *pausingRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Campaign, int, error) {
	campaigns, total, err := r.fakeCampaignRepo.ListByUser(ctx, userID, offset, limit)
	r.once.Do(func() { close(r.read) })
	<-r.release
	return campaigns, total, err
}

func TestListCampaigns_DeleteDuringReadDoesNotRefillCache(t *testing.T) {
	f := newFixture()
	id := seed(t, f, "user-a")

	repo := &pausingRepo{fakeCampaignRepo: f.repo, read: make(chan struct{}), release: make(chan struct{})}
	f.svc.CampaignRepo = repo

	done := make(chan []model.Campaign, 1)
	go func() {
		campaigns, _, _ := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
		done <- campaigns
	}()

	<-repo.read
	require.NoError(t, f.svc.DeleteCampaign(context.Background(), "user-a", id))
	close(repo.release)

	stale := <-done
	assert.Len(t, stale, 1, "the in-flight read saw the row before the delete")

	campaigns, pagination, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, campaigns, "deleted campaign must not be served from cache")
	assert.Equal(t, 0, pagination["total_count"])
}

func TestListCampaigns_CallerMutationDoesNotReachCache(t *testing.T) {
	f := newFixture()
	seed(t, f, "user-a")

	first, _, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	first[0].LeadName = "Mutated"

	cached, _, err := f.svc.ListCampaigns(context.Background(), "user-a", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.lists, "second call is served from cache")
	assert.Equal(t, "Jane Doe", cached[0].LeadName)
}
