package repository

import (
	"context"

	"TripPlanner-App/internal/domain/model"
)

// RoutingRepository はプランの選択済みスポットからルートを計算する
type RoutingRepository interface {
	ComputeRoute(ctx context.Context, planID string) (*model.RouteResponse, error)
}

// RoutePlanRepository は計算済みルートを保存・取得する
type RoutePlanRepository interface {
	SaveRoutePlan(ctx context.Context, route *model.RouteResponse, ttlHours int) error
	GetRoutePlan(ctx context.Context, planID string) (*model.RouteResponse, error)
}

// DirectionsProvider は複数地点を経由する経路を取得する
type DirectionsProvider interface {
	GetRoute(ctx context.Context, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error)
}
