package model

import "time"

// LatLng 緯度経度を表す基本的な型（経路検索などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OrderedSpot はルート上の訪問順に並んだスポット
type OrderedSpot struct {
	Order     int      `json:"order" firestore:"order"`
	SpotID    string   `json:"spot_id" firestore:"spot_id"`
	Name      string   `json:"name" firestore:"name"`
	TimeSlot  TimeSlot `json:"time_slot" firestore:"time_slot"`
	Latitude  float64  `json:"latitude" firestore:"latitude"`
	Longitude float64  `json:"longitude" firestore:"longitude"`
}

// RouteGeometry はルートの形状（エンコード済みポリライン）
type RouteGeometry struct {
	Polyline string `json:"polyline" firestore:"polyline"`
}

// RouteDay は1日分のルート
type RouteDay struct {
	RouteGeometry *RouteGeometry `json:"route_geometry,omitempty" firestore:"route_geometry"`
	OrderedSpots  []OrderedSpot  `json:"ordered_spots" firestore:"ordered_spots"`
	DurationSec   int            `json:"duration_seconds" firestore:"duration_seconds"`
	DistanceMeter int            `json:"distance_meters" firestore:"distance_meters"`
}

// RouteResponse はルーティングプロバイダからの応答
type RouteResponse struct {
	RouteID   string     `json:"route_id"`
	PlanID    string     `json:"plan_id"`
	RouteDays []RouteDay `json:"route_days"`
}

// FirstDay は1日目のポリラインと訪問順を返す（存在しなければ空）
func (r *RouteResponse) FirstDay() (string, []OrderedSpot) {
	if r == nil || len(r.RouteDays) == 0 {
		return "", []OrderedSpot{}
	}
	day := r.RouteDays[0]
	if day.RouteGeometry == nil || day.RouteGeometry.Polyline == "" {
		return "", []OrderedSpot{}
	}
	ordered := day.OrderedSpots
	if ordered == nil {
		ordered = []OrderedSpot{}
	}
	return day.RouteGeometry.Polyline, ordered
}

// RouteDetails はDirections APIから得た経路情報
type RouteDetails struct {
	TotalDuration time.Duration
	TotalDistance int
	Polyline      string
	WaypointOrder []int
}

// FirestoreRoutePlan はFirestoreに保存するルート
type FirestoreRoutePlan struct {
	RouteID   string     `firestore:"route_id"`
	PlanID    string     `firestore:"plan_id"`
	RouteDays []RouteDay `firestore:"route_days"`
	CreatedAt time.Time  `firestore:"created_at"`
	ExpireAt  time.Time  `firestore:"expireAt"`
}

// ToFirestoreRoutePlan はFirestore保存用の構造体に変換
func (r *RouteResponse) ToFirestoreRoutePlan(ttlHours int) *FirestoreRoutePlan {
	now := time.Now()
	return &FirestoreRoutePlan{
		RouteID:   r.RouteID,
		PlanID:    r.PlanID,
		RouteDays: r.RouteDays,
		CreatedAt: now,
		ExpireAt:  now.Add(time.Duration(ttlHours) * time.Hour),
	}
}

// ToRouteResponse はFirestoreのデータからRouteResponseに変換
func (f *FirestoreRoutePlan) ToRouteResponse() *RouteResponse {
	return &RouteResponse{
		RouteID:   f.RouteID,
		PlanID:    f.PlanID,
		RouteDays: f.RouteDays,
	}
}
