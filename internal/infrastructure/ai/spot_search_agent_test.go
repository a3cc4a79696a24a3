package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"TripPlanner-App/internal/domain/model"
)

type mockCandidates struct{ mock.Mock }

func (m *mockCandidates) FindCandidates(ctx context.Context, keywords []string, limit int) ([]model.SpotCandidate, error) {
	args := m.Called(ctx, keywords, limit)
	result, _ := args.Get(0).([]model.SpotCandidate)
	return result, args.Error(1)
}

func seasideCandidates() []model.SpotCandidate {
	url := "https://example.com/enoshima.jpg"
	return []model.SpotCandidate{
		{ID: "enoshima", Name: "江の島", Latitude: 35.2993, Longitude: 139.4800, Price: 0, GoogleMapImageURL: &url,
			BusinessHours: map[string]model.BusinessHour{model.DayMonday: {OpenTime: "09:00", CloseTime: "17:00"}}},
		{ID: "yuigahama", Name: "由比ヶ浜", Latitude: 35.3106, Longitude: 139.5425},
		{ID: "hayama", Name: "葉山", Latitude: 35.2720, Longitude: 139.5760},
		{ID: "shichirigahama", Name: "七里ヶ浜", Latitude: 35.3067, Longitude: 139.5062},
		{ID: "kamakura", Name: "鶴岡八幡宮", Latitude: 35.3259, Longitude: 139.5563},
	}
}

func TestAssembleRecommendedSpots(t *testing.T) {
	prior := &model.RecommendedSpots{
		RecommendSpotID: "rec-prior",
		RecommendSpots: []model.TimeSlotGroup{{
			TimeSlot: model.TimeSlotNight,
			Spots:    []model.SpotItem{{SpotID: "kamakura", Selected: true, RecommendationReason: "以前の理由", Details: model.SpotDetails{Name: "鶴岡八幡宮"}}},
		}},
	}

	var selection spotSelection
	require.NoError(t, json.Unmarshal([]byte(`{"recommend_spots":[
		{"time_slot":"夜","spots":[{"spot_id":"hayama","recommendation_reason":"夕日"}]},
		{"time_slot":"午前","spots":[
			{"spot_id":"enoshima","recommendation_reason":" 海沿いの散歩 "},
			{"spot_id":"kamakura","recommendation_reason":"新しい理由"},
			{"spot_id":"enoshima","recommendation_reason":"重複"},
			{"spot_id":"unknown","recommendation_reason":"候補にない"}
		]},
		{"time_slot":"深夜","spots":[{"spot_id":"yuigahama","recommendation_reason":"不明な時間帯"}]}
	]}`), &selection))

	result := assembleRecommendedSpots(selection, prior, seasideCandidates())

	assert.Equal(t, "rec-prior", result.RecommendSpotID)
	require.Len(t, result.RecommendSpots, 2)
	assert.True(t, result.HasUniqueSpotIDs())

	morning := result.RecommendSpots[0]
	assert.Equal(t, model.TimeSlotMorning, morning.TimeSlot)
	require.Len(t, morning.Spots, 2)

	enoshima := morning.Spots[0]
	assert.Equal(t, "enoshima", enoshima.SpotID)
	assert.Equal(t, "海沿いの散歩", enoshima.RecommendationReason)
	assert.False(t, enoshima.Selected)
	assert.Len(t, enoshima.Details.BusinessHours, len(model.BusinessDays()))
	assert.Equal(t, "09:00", enoshima.Details.BusinessHours[model.DayMonday].OpenTime)
	require.NotNil(t, enoshima.GoogleMapImageURL)

	// 既存のスポットは選択状態と理由をそのまま引き継ぐ
	kamakura := morning.Spots[1]
	assert.True(t, kamakura.Selected)
	assert.Equal(t, "以前の理由", kamakura.RecommendationReason)

	night := result.RecommendSpots[1]
	assert.Equal(t, model.TimeSlotNight, night.TimeSlot)
	assert.Equal(t, "hayama", night.Spots[0].SpotID)
}

func TestAssembleRecommendedSpots_NewIDWithoutPrior(t *testing.T) {
	result := assembleRecommendedSpots(spotSelection{}, nil, nil)
	assert.NotEmpty(t, result.RecommendSpotID)
	assert.NotNil(t, result.RecommendSpots)
	assert.Empty(t, result.RecommendSpots)
}

func TestGeminiSpotSearchRepository_SearchSpots(t *testing.T) {
	client, gen := newFakeClient(
		`{"keywords":["海"," のんびり ",""]}`,
		`{"recommend_spots":[
			{"time_slot":"午前","spots":[{"spot_id":"enoshima","recommendation_reason":"海"},{"spot_id":"shichirigahama","recommendation_reason":"海"}]},
			{"time_slot":"午後","spots":[{"spot_id":"yuigahama","recommendation_reason":"海"},{"spot_id":"hayama","recommendation_reason":"海"}]}
		]}`,
	)
	candidates := &mockCandidates{}
	candidates.On("FindCandidates", mock.Anything, []string{"海", "のんびり"}, 60).Return(seasideCandidates(), nil).Once()

	repo := NewGeminiSpotSearchRepository(client, candidates, 60, discardLogger())
	result, err := repo.SearchSpots(context.Background(), []model.ChatMessage{
		{Role: model.ChatRoleUser, Content: "海沿いでのんびりできる場所を探して"},
	}, nil, "plan-sea")
	require.NoError(t, err)

	assert.Len(t, result.RecommendSpots, 2)
	assert.Equal(t, 4, result.SpotCount())
	assert.Len(t, gen.configs, 2)
	candidates.AssertExpectations(t)
}

func TestGeminiSpotSearchRepository_RetriesWithoutKeywords(t *testing.T) {
	client, _ := newFakeClient(
		`{"keywords":["秘境"]}`,
		`{"recommend_spots":[{"time_slot":"午後","spots":[{"spot_id":"hayama","recommendation_reason":"静か"}]}]}`,
	)
	candidates := &mockCandidates{}
	candidates.On("FindCandidates", mock.Anything, []string{"秘境"}, 10).Return([]model.SpotCandidate{}, nil).Once()
	candidates.On("FindCandidates", mock.Anything, []string(nil), 10).Return(seasideCandidates(), nil).Once()

	result, err := NewGeminiSpotSearchRepository(client, candidates, 10, discardLogger()).
		SearchSpots(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "秘境"}}, nil, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SpotCount())
	candidates.AssertExpectations(t)
}

func TestGeminiSpotSearchRepository_Errors(t *testing.T) {
	t.Run("候補の取得失敗", func(t *testing.T) {
		client, _ := newFakeClient(`{"keywords":[]}`)
		candidates := &mockCandidates{}
		candidates.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := NewGeminiSpotSearchRepository(client, candidates, 10, discardLogger()).
			SearchSpots(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "海"}}, nil, "p")
		assert.Error(t, err)
	})

	t.Run("候補なし", func(t *testing.T) {
		client, _ := newFakeClient(`{"keywords":[]}`)
		candidates := &mockCandidates{}
		candidates.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything).Return([]model.SpotCandidate{}, nil)

		_, err := NewGeminiSpotSearchRepository(client, candidates, 10, discardLogger()).
			SearchSpots(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "海"}}, nil, "p")
		assert.Error(t, err)
	})

	t.Run("選定の失敗", func(t *testing.T) {
		client, gen := newFakeClient(`{"keywords":["海"]}`)
		gen.errs = []error{nil, errors.New("overloaded")}
		candidates := &mockCandidates{}
		candidates.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything).Return(seasideCandidates(), nil)

		_, err := NewGeminiSpotSearchRepository(client, candidates, 10, discardLogger()).
			SearchSpots(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "海"}}, nil, "p")
		assert.Error(t, err)
	})
}
