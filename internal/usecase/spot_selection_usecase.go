package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

type SpotSelectionUseCase interface {
	// GetRecommendations はプランのおすすめスポットを取得する
	GetRecommendations(ctx context.Context, planID string) (*model.RecommendedSpots, error)

	// ReplaceRecommendations はプランのおすすめスポットを置き換える
	ReplaceRecommendations(ctx context.Context, planID string, spots *model.RecommendedSpots) error

	// UpdateSelection はスポットの選択状態を更新する（selected が nil ならトグル）
	UpdateSelection(ctx context.Context, planID, spotID string, selected *bool) (*model.SpotItem, error)

	// GetRoute はプランで最後に作成されたルートを取得する
	GetRoute(ctx context.Context, planID string) (*model.RouteResponse, error)
}

// spotSelectionUseCaseImpl はSpotSelectionUseCaseの実装
type spotSelectionUseCaseImpl struct {
	store     repository.RecommendationStore
	routePlan repository.RoutePlanRepository
	logger    *slog.Logger
}

// NewSpotSelectionUseCase は新しいSpotSelectionUseCaseインスタンスを作成
// routePlan が nil の場合、ルート取得は常に見つからない扱いになる
func NewSpotSelectionUseCase(store repository.RecommendationStore, routePlan repository.RoutePlanRepository, logger *slog.Logger) SpotSelectionUseCase {
	return &spotSelectionUseCaseImpl{
		store:     store,
		routePlan: routePlan,
		logger:    logger,
	}
}

func (u *spotSelectionUseCaseImpl) GetRecommendations(ctx context.Context, planID string) (*model.RecommendedSpots, error) {
	spots, ok := u.store.Get(planID)
	if !ok {
		return nil, fmt.Errorf("プラン %s のおすすめスポットが存在しません: %w", planID, model.ErrNotFound)
	}
	return spots, nil
}

func (u *spotSelectionUseCaseImpl) ReplaceRecommendations(ctx context.Context, planID string, spots *model.RecommendedSpots) error {
	if spots == nil {
		return fmt.Errorf("おすすめスポットが指定されていません: %w", model.ErrInvalidInput)
	}
	for _, group := range spots.RecommendSpots {
		if !group.TimeSlot.IsValid() {
			return fmt.Errorf("不明な時間帯です (%s): %w", group.TimeSlot, model.ErrInvalidInput)
		}
	}
	if !spots.HasUniqueSpotIDs() {
		return fmt.Errorf("spot_idが重複しています: %w", model.ErrInvalidInput)
	}

	u.store.Set(planID, spots)
	u.logger.Info("💾 おすすめスポットを置き換え", slog.String("plan_id", planID), slog.Int("spots", spots.SpotCount()))
	return nil
}

func (u *spotSelectionUseCaseImpl) UpdateSelection(ctx context.Context, planID, spotID string, selected *bool) (*model.SpotItem, error) {
	spot, err := u.store.UpdateSelection(planID, spotID, selected)
	if err != nil {
		return nil, fmt.Errorf("選択状態の更新に失敗: %w", err)
	}
	u.logger.Info("🖱️ 選択状態を更新", slog.String("plan_id", planID), slog.String("spot", helper.SpotDisplayName(*spot)))
	return spot, nil
}

func (u *spotSelectionUseCaseImpl) GetRoute(ctx context.Context, planID string) (*model.RouteResponse, error) {
	if u.routePlan == nil {
		return nil, fmt.Errorf("ルートの保存先が設定されていません: %w", model.ErrNotFound)
	}
	route, err := u.routePlan.GetRoutePlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("ルートの取得に失敗: %w", err)
	}
	return route, nil
}
