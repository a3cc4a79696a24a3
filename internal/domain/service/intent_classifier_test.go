package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"TripPlanner-App/internal/domain/model"
)

func TestIntentClassifier_RouteCreationTrigger(t *testing.T) {
	agent := &mockIntentAgent{}
	caller, _ := newTestCaller(time.Second)
	classifier := NewIntentClassifier(agent, caller)

	for _, text := range []string{"旅行ルート作成を開始して", "  旅行ルート作成を開始して\n"} {
		intent, err := classifier.Classify(context.Background(), []model.ChatMessage{
			userMessage("京都に行きたい"),
			assistantMessage("いいですね"),
			userMessage(text),
		})
		require.NoError(t, err)
		assert.Equal(t, model.IntentRouteCreationExecute, intent)
	}
	agent.AssertNotCalled(t, "ClassifySpotSearch", mock.Anything, mock.Anything)
}

func TestIntentClassifier_TriggerMustMatchExactly(t *testing.T) {
	agent := &mockIntentAgent{}
	agent.On("ClassifySpotSearch", mock.Anything, "旅行ルート作成を開始してください").
		Return(&model.SpotSearchClassification{IsSpotSearch: false}, nil).Once()
	caller, _ := newTestCaller(time.Second)

	intent, err := NewIntentClassifier(agent, caller).Classify(context.Background(), []model.ChatMessage{
		userMessage("旅行ルート作成を開始してください"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.IntentGeneralChat, intent)
	agent.AssertExpectations(t)
}

func TestIntentClassifier_PlaceReference(t *testing.T) {
	agent := &mockIntentAgent{}
	caller, _ := newTestCaller(time.Second)

	intent, err := NewIntentClassifier(agent, caller).Classify(context.Background(), []model.ChatMessage{
		userMessage("ここはどんな場所？ (place_id: 午後-shibuya_sky_1-2)"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.IntentSpotDetail, intent)
	agent.AssertNotCalled(t, "ClassifySpotSearch", mock.Anything, mock.Anything)
}

func TestIntentClassifier_LLM(t *testing.T) {
	tests := []struct {
		name   string
		result *model.SpotSearchClassification
		want   model.Intent
	}{
		{name: "スポット検索", result: &model.SpotSearchClassification{IsSpotSearch: true, Confidence: 0.95, Reason: "観光地を探している"}, want: model.IntentSpotSearch},
		{name: "低い確信度でも閾値判定しない", result: &model.SpotSearchClassification{IsSpotSearch: true, Confidence: 0.1}, want: model.IntentSpotSearch},
		{name: "通常会話", result: &model.SpotSearchClassification{IsSpotSearch: false, Confidence: 0.9}, want: model.IntentGeneralChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &mockIntentAgent{}
			agent.On("ClassifySpotSearch", mock.Anything, "京都で紅葉が見られるお寺を教えて").Return(tt.result, nil).Once()
			caller, _ := newTestCaller(time.Second)

			intent, err := NewIntentClassifier(agent, caller).Classify(context.Background(), []model.ChatMessage{
				userMessage("京都で紅葉が見られるお寺を教えて"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, intent)
			agent.AssertExpectations(t)
		})
	}
}

func TestIntentClassifier_LLMFailureFallsBackToGeneralChat(t *testing.T) {
	agent := &mockIntentAgent{}
	agent.On("ClassifySpotSearch", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded")).Once()
	caller, observer := newTestCaller(time.Second)

	intent, err := NewIntentClassifier(agent, caller).Classify(context.Background(), []model.ChatMessage{userMessage("こんにちは")})
	require.NoError(t, err)
	assert.Equal(t, model.IntentGeneralChat, intent)
	assert.Equal(t, []string{"classification_failed"}, observer.fallbacks)
}

func TestIntentClassifier_EmptyMessages(t *testing.T) {
	caller, _ := newTestCaller(time.Second)
	_, err := NewIntentClassifier(&mockIntentAgent{}, caller).Classify(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestIntentClassifier_UsesLatestUserMessage(t *testing.T) {
	agent := &mockIntentAgent{}
	caller, _ := newTestCaller(time.Second)

	// 最後がアシスタントの発言でも、最新のユーザー発言で判定する
	intent, err := NewIntentClassifier(agent, caller).Classify(context.Background(), []model.ChatMessage{
		userMessage("旅行ルート作成を開始して"),
		assistantMessage("承知しました"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.IntentRouteCreationExecute, intent)
}
