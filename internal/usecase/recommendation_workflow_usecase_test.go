package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/infrastructure/maps"
	repoimpl "TripPlanner-App/internal/repository"
)

type mockIntentAgent struct{ mock.Mock }

func (m *mockIntentAgent) ClassifySpotSearch(ctx context.Context, utterance string) (*model.SpotSearchClassification, error) {
	args := m.Called(ctx, utterance)
	result, _ := args.Get(0).(*model.SpotSearchClassification)
	return result, args.Error(1)
}

type mockSpotSearch struct{ mock.Mock }

func (m *mockSpotSearch) SearchSpots(ctx context.Context, history []model.ChatMessage, prior *model.RecommendedSpots, planID string) (*model.RecommendedSpots, error) {
	args := m.Called(ctx, history, prior, planID)
	result, _ := args.Get(0).(*model.RecommendedSpots)
	return result, args.Error(1)
}

type stubText struct{ text string }

func (s stubText) SummarizeSpots(context.Context, string, *model.RecommendedSpots) (string, error) {
	return s.text, nil
}

func (s stubText) Respond(context.Context, []model.ChatMessage) (string, error) {
	return s.text, nil
}

func (s stubText) ExplainSpot(context.Context, *model.PlaceReviews, []model.ChatMessage) (string, error) {
	return s.text, nil
}

type stubReviews struct{}

func (stubReviews) GetReviews(_ context.Context, placeID string) (*model.PlaceReviews, error) {
	return model.NewPlaceholderReviews(placeID), nil
}

// stubDirections は受け取った地点数を記録し、固定のポリラインを返す
type stubDirections struct {
	calls     int
	waypoints int
}

func (d *stubDirections) GetRoute(_ context.Context, _ model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
	d.calls++
	d.waypoints = len(waypoints)
	return &model.RouteDetails{Polyline: "}_ilFjk~uOnFnG", TotalDuration: 15 * time.Minute, TotalDistance: 3200}, nil
}

type workflowFixture struct {
	usecase    RecommendationWorkflowUseCase
	agent      *mockIntentAgent
	search     *mockSpotSearch
	directions *stubDirections
	store      *repoimpl.MemoryRecommendationStore
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &workflowFixture{
		agent:      &mockIntentAgent{},
		search:     &mockSpotSearch{},
		directions: &stubDirections{},
		store:      repoimpl.NewMemoryRecommendationStore(time.Hour, logger),
	}
	routing := maps.NewGoogleRoutingProvider(f.store, f.directions, nil, 24, logger)

	caller := service.NewCollaboratorCaller(time.Second, nil, logger)
	uc, err := NewRecommendationWorkflowUseCase(service.NewIntentClassifier(f.agent, caller), caller,
		service.NewSpotSearchBranch(f.store, f.search, stubText{text: "海沿いのスポットを4件見つけました。"}, caller),
		service.NewGeneralChatBranch(f.store, stubText{text: "どういたしまして"}, caller),
		service.NewSpotDetailBranch(stubReviews{}, stubText{text: "素敵な場所です。"}, caller),
		service.NewRouteCreationBranch(f.store, routing, caller),
	)
	require.NoError(t, err)
	f.usecase = uc
	return f
}

func seasideSpots() *model.RecommendedSpots {
	return &model.RecommendedSpots{
		RecommendSpots: []model.TimeSlotGroup{
			{TimeSlot: model.TimeSlotMorning, Spots: []model.SpotItem{
				{SpotID: "enoshima", Latitude: 35.2993, Longitude: 139.4800, Details: model.SpotDetails{Name: "江の島"}},
				{SpotID: "shichirigahama", Latitude: 35.3067, Longitude: 139.5062, Details: model.SpotDetails{Name: "七里ヶ浜"}},
			}},
			{TimeSlot: model.TimeSlotAfternoon, Spots: []model.SpotItem{
				{SpotID: "yuigahama", Latitude: 35.3106, Longitude: 139.5425, Details: model.SpotDetails{Name: "由比ヶ浜"}},
				{SpotID: "hayama", Latitude: 35.2720, Longitude: 139.5760, Details: model.SpotDetails{Name: "葉山"}},
			}},
		},
	}
}

func TestRunTurn_SpotSearchScenario(t *testing.T) {
	f := newWorkflowFixture(t)
	utterance := "海沿いでのんびりできる場所を探して"

	f.agent.On("ClassifySpotSearch", mock.Anything, utterance).
		Return(&model.SpotSearchClassification{IsSpotSearch: true, Confidence: 0.92}, nil).Once()
	f.search.On("SearchSpots", mock.Anything, mock.Anything, (*model.RecommendedSpots)(nil), "plan-sea").
		Return(seasideSpots(), nil).Once()

	out, err := f.usecase.RunTurn(context.Background(), &model.WorkflowInput{
		PlanID:   "plan-sea",
		Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: utterance}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.MessageText())
	require.NotNil(t, out.RecommendedSpots)
	assert.Len(t, out.RecommendedSpots.RecommendSpots, 2)
	assert.Equal(t, 4, out.RecommendedSpots.SpotCount())

	stored, ok := f.store.Get("plan-sea")
	require.True(t, ok)
	assert.Equal(t, out.RecommendedSpots, stored)
	f.agent.AssertExpectations(t)
	f.search.AssertExpectations(t)
}

func TestRunTurn_RouteCreationScenario(t *testing.T) {
	f := newWorkflowFixture(t)
	spots := seasideSpots()
	spots.RecommendSpotID = "rec-sea"
	spots.RecommendSpots[1].Spots[0].Selected = true

	out, err := f.usecase.RunTurn(context.Background(), &model.WorkflowInput{
		PlanID: "plan-sea",
		Messages: []model.ChatMessage{
			{Role: model.ChatRoleUser, Content: "海沿いでのんびりできる場所を探して"},
			{Role: model.ChatRoleAssistant, Content: "4件見つけました"},
			{Role: model.ChatRoleUser, Content: model.RouteCreationTrigger},
		},
		RecommendedSpots: spots,
	})
	require.NoError(t, err)

	require.NotNil(t, out.Polyline)
	assert.NotEmpty(t, *out.Polyline)
	assert.Contains(t, out.MessageText(), "由比ヶ浜")
	require.Len(t, out.OrderedSpots, 1)
	assert.Equal(t, "yuigahama", out.OrderedSpots[0].SpotID)
	assert.Equal(t, spots, out.RecommendedSpots)

	assert.Equal(t, 1, f.directions.calls)
	f.agent.AssertNotCalled(t, "ClassifySpotSearch", mock.Anything, mock.Anything)
}

func TestRunTurn_RouteCreationWithoutSelection(t *testing.T) {
	f := newWorkflowFixture(t)

	out, err := f.usecase.RunTurn(context.Background(), &model.WorkflowInput{
		PlanID:           "plan-sea",
		Messages:         []model.ChatMessage{{Role: model.ChatRoleUser, Content: model.RouteCreationTrigger}},
		RecommendedSpots: seasideSpots(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.MessageNoSpotsSelected, out.MessageText())
	assert.Equal(t, 0, f.directions.calls)
}

func TestRunTurn_SpotDetailPassesThroughSpots(t *testing.T) {
	f := newWorkflowFixture(t)
	spots := seasideSpots()

	out, err := f.usecase.RunTurn(context.Background(), &model.WorkflowInput{
		PlanID:           "plan-sea",
		Messages:         []model.ChatMessage{{Role: model.ChatRoleUser, Content: "ここは？ (place_id: 午前-enoshima-1)"}},
		RecommendedSpots: spots,
	})
	require.NoError(t, err)

	assert.Equal(t, "素敵な場所です。", out.MessageText())
	assert.Equal(t, seasideSpots(), out.RecommendedSpots)
}

func TestRunTurn_InvalidInput(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.usecase.RunTurn(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.usecase.RunTurn(context.Background(), &model.WorkflowInput{PlanID: "plan-sea"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestNewRecommendationWorkflowUseCase_RequiresEveryIntent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	caller := service.NewCollaboratorCaller(time.Second, nil, logger)
	store := repoimpl.NewMemoryRecommendationStore(time.Hour, logger)
	classifier := service.NewIntentClassifier(&mockIntentAgent{}, caller)
	chat := service.NewGeneralChatBranch(store, stubText{}, caller)

	_, err := NewRecommendationWorkflowUseCase(classifier, caller, chat)
	assert.Error(t, err)

	_, err = NewRecommendationWorkflowUseCase(classifier, caller, chat, chat)
	assert.Error(t, err)
}
