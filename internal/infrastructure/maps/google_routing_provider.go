package maps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// GoogleRoutingProvider はストアの選択済みスポットから1日分のルートを作成する
type GoogleRoutingProvider struct {
	store      repository.RecommendationStore
	directions repository.DirectionsProvider
	routePlans repository.RoutePlanRepository
	ttlHours   int
	logger     *slog.Logger
}

// NewGoogleRoutingProvider は新しいルーティングプロバイダを生成する
// routePlans が nil の場合、計算したルートは保存しない
func NewGoogleRoutingProvider(
	store repository.RecommendationStore,
	directions repository.DirectionsProvider,
	routePlans repository.RoutePlanRepository,
	ttlHours int,
	logger *slog.Logger,
) *GoogleRoutingProvider {
	return &GoogleRoutingProvider{
		store:      store,
		directions: directions,
		routePlans: routePlans,
		ttlHours:   ttlHours,
		logger:     logger,
	}
}

var _ repository.RoutingRepository = (*GoogleRoutingProvider)(nil)

// ComputeRoute はプランの選択済みスポットを時間帯順・最近傍順に並べてルートを計算する
func (p *GoogleRoutingProvider) ComputeRoute(ctx context.Context, planID string) (*model.RouteResponse, error) {
	spots, ok := p.store.Get(planID)
	if !ok {
		return nil, fmt.Errorf("プラン %s のおすすめスポットがありません: %w", planID, model.ErrNotFound)
	}

	selected := helper.OrderSelectedSpots(spots.SelectedSpots())
	if len(selected) == 0 {
		return nil, fmt.Errorf("プラン %s に選択済みスポットがありません: %w", planID, model.ErrInvalidInput)
	}

	bound := helper.RouteBound(selected)
	p.logger.Info("🗺️ ルート計算開始",
		slog.String("plan_id", planID),
		slog.Int("stops", len(selected)),
		slog.Any("bound_min", bound.Min),
		slog.Any("bound_max", bound.Max))

	day := model.RouteDay{
		RouteGeometry: &model.RouteGeometry{},
		OrderedSpots:  helper.ToOrderedSpots(selected),
	}

	// 1件だけの場合は同じ地点を目的地にする
	origin := selected[0].Spot.ToLatLng()
	waypoints := make([]model.LatLng, 0, len(selected))
	for i := 1; i < len(selected); i++ {
		waypoints = append(waypoints, selected[i].Spot.ToLatLng())
	}
	if len(waypoints) == 0 {
		waypoints = append(waypoints, origin)
	}

	details, err := p.directions.GetRoute(ctx, origin, waypoints...)
	if err != nil {
		return nil, fmt.Errorf("経路の取得に失敗: %w", err)
	}
	day.RouteGeometry.Polyline = details.Polyline
	day.DurationSec = int(details.TotalDuration.Seconds())
	day.DistanceMeter = details.TotalDistance

	route := &model.RouteResponse{
		RouteID:   uuid.New().String(),
		PlanID:    planID,
		RouteDays: []model.RouteDay{day},
	}

	if p.routePlans != nil {
		if err := p.routePlans.SaveRoutePlan(ctx, route, p.ttlHours); err != nil {
			// 保存に失敗してもルート自体は返す
			p.logger.Warn("⚠️ ルートの保存に失敗", slog.String("plan_id", planID), slog.Any("error", err))
		}
	}

	p.logger.Info("✅ ルート計算完了",
		slog.String("plan_id", planID),
		slog.String("route_id", route.RouteID),
		slog.Int("duration_sec", day.DurationSec),
		slog.Int("distance_m", day.DistanceMeter))
	return route, nil
}
