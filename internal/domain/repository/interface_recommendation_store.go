package repository

import "TripPlanner-App/internal/domain/model"

// RecommendationStore はプランごとのおすすめスポット集合を保持する
// 同じプランへの更新は1つずつ直列に実行され、異なるプラン同士は互いに影響しない
type RecommendationStore interface {
	// Get は保持しているおすすめスポットのコピーを返す
	Get(planID string) (*model.RecommendedSpots, bool)

	// Set は保持しているおすすめスポットを丸ごと置き換える
	Set(planID string, data *model.RecommendedSpots)

	// UpdateSelection はspot_idに一致する最初のスポットの選択状態を更新する
	// selected が nil の場合は現在の値を反転する
	UpdateSelection(planID, spotID string, selected *bool) (*model.SpotItem, error)
}
