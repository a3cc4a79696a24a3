package repository

import (
	"context"

	"TripPlanner-App/internal/domain/model"
)

// IntentClassificationRepository は発言がスポット検索かどうかを判定する
type IntentClassificationRepository interface {
	ClassifySpotSearch(ctx context.Context, utterance string) (*model.SpotSearchClassification, error)
}

// ChatResponseRepository は通常の会話に応答する
type ChatResponseRepository interface {
	Respond(ctx context.Context, history []model.ChatMessage) (string, error)
}

// SpotSummaryRepository は追加されたスポットの短い要約を生成する
type SpotSummaryRepository interface {
	SummarizeSpots(ctx context.Context, latestRequest string, spots *model.RecommendedSpots) (string, error)
}

// SpotExplanationRepository は口コミと会話からスポットをおすすめする理由を説明する
type SpotExplanationRepository interface {
	ExplainSpot(ctx context.Context, reviews *model.PlaceReviews, recent []model.ChatMessage) (string, error)
}
