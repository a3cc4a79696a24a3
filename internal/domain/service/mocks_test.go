package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"TripPlanner-App/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCaller(timeout time.Duration) (*CollaboratorCaller, *recordingObserver) {
	observer := &recordingObserver{}
	return NewCollaboratorCaller(timeout, observer, discardLogger()), observer
}

// recordingObserver は記録されたフォールバック理由を保持する
type recordingObserver struct {
	mu        sync.Mutex
	fallbacks []string
	calls     []string
}

func (o *recordingObserver) ObserveTurn(model.Intent, time.Duration) {}

func (o *recordingObserver) ObserveFallback(_ model.Intent, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, reason)
}

func (o *recordingObserver) ObserveCollaborator(name string, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, name)
}

type mockIntentAgent struct{ mock.Mock }

func (m *mockIntentAgent) ClassifySpotSearch(ctx context.Context, utterance string) (*model.SpotSearchClassification, error) {
	args := m.Called(ctx, utterance)
	result, _ := args.Get(0).(*model.SpotSearchClassification)
	return result, args.Error(1)
}

type mockChatAgent struct{ mock.Mock }

func (m *mockChatAgent) Respond(ctx context.Context, history []model.ChatMessage) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

type mockSummaryAgent struct{ mock.Mock }

func (m *mockSummaryAgent) SummarizeSpots(ctx context.Context, latestRequest string, spots *model.RecommendedSpots) (string, error) {
	args := m.Called(ctx, latestRequest, spots)
	return args.String(0), args.Error(1)
}

type mockExplanationAgent struct{ mock.Mock }

func (m *mockExplanationAgent) ExplainSpot(ctx context.Context, reviews *model.PlaceReviews, recent []model.ChatMessage) (string, error) {
	args := m.Called(ctx, reviews, recent)
	return args.String(0), args.Error(1)
}

type mockSpotSearch struct{ mock.Mock }

func (m *mockSpotSearch) SearchSpots(ctx context.Context, history []model.ChatMessage, prior *model.RecommendedSpots, planID string) (*model.RecommendedSpots, error) {
	args := m.Called(ctx, history, prior, planID)
	result, _ := args.Get(0).(*model.RecommendedSpots)
	return result, args.Error(1)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) GetReviews(ctx context.Context, placeID string) (*model.PlaceReviews, error) {
	args := m.Called(ctx, placeID)
	result, _ := args.Get(0).(*model.PlaceReviews)
	return result, args.Error(1)
}

type mockRouting struct{ mock.Mock }

func (m *mockRouting) ComputeRoute(ctx context.Context, planID string) (*model.RouteResponse, error) {
	args := m.Called(ctx, planID)
	result, _ := args.Get(0).(*model.RouteResponse)
	return result, args.Error(1)
}

// fakeStore はテスト用の単純なRecommendationStore
type fakeStore struct {
	mu   sync.Mutex
	data map[string]*model.RecommendedSpots
	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]*model.RecommendedSpots{}}
}

func (s *fakeStore) Get(planID string) (*model.RecommendedSpots, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[planID]
	return v.Clone(), ok
}

func (s *fakeStore) Set(planID string, data *model.RecommendedSpots) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.data[planID] = data.Clone()
}

func (s *fakeStore) UpdateSelection(planID, spotID string, selected *bool) (*model.SpotItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[planID]
	if !ok {
		return nil, model.ErrNotFound
	}
	spot, _, ok := v.FindSpot(spotID)
	if !ok {
		return nil, model.ErrNotFound
	}
	if selected != nil {
		spot.Selected = *selected
	} else {
		spot.Selected = !spot.Selected
	}
	out := spot.Clone()
	return &out, nil
}

func userMessage(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleUser, Content: content}
}

func assistantMessage(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleAssistant, Content: content}
}

func kyotoSpots(selectedIDs ...string) *model.RecommendedSpots {
	selected := map[string]bool{}
	for _, id := range selectedIDs {
		selected[id] = true
	}
	item := func(id, name string, lat, lng float64) model.SpotItem {
		return model.SpotItem{
			SpotID:    id,
			Latitude:  lat,
			Longitude: lng,
			Selected:  selected[id],
			Details:   model.SpotDetails{Name: name},
		}
	}
	return &model.RecommendedSpots{
		RecommendSpotID: "rec-kyoto",
		RecommendSpots: []model.TimeSlotGroup{
			{TimeSlot: model.TimeSlotMorning, Spots: []model.SpotItem{
				item("kiyomizu", "清水寺", 34.9949, 135.7850),
				item("fushimi", "伏見稲荷大社", 34.9671, 135.7727),
			}},
			{TimeSlot: model.TimeSlotNight, Spots: []model.SpotItem{
				item("pontocho", "先斗町", 35.0050, 135.7710),
			}},
		},
	}
}
