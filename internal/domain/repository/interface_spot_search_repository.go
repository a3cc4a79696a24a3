package repository

import (
	"context"

	"TripPlanner-App/internal/domain/model"
)

// SpotSearchRepository はチャット履歴からおすすめスポットを検索する
type SpotSearchRepository interface {
	SearchSpots(ctx context.Context, history []model.ChatMessage, prior *model.RecommendedSpots, planID string) (*model.RecommendedSpots, error)
}

// SpotCandidatesRepository はスポット検索の候補をDBから取得する
type SpotCandidatesRepository interface {
	FindCandidates(ctx context.Context, keywords []string, limit int) ([]model.SpotCandidate, error)
}
