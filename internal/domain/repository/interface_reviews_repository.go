package repository

import (
	"context"

	"TripPlanner-App/internal/domain/model"
)

// ReviewsRepository はスポットの口コミを取得する
// 実装は取得に失敗してもプレースホルダーを返す
type ReviewsRepository interface {
	GetReviews(ctx context.Context, placeID string) (*model.PlaceReviews, error)
}
