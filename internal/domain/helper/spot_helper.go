package helper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"TripPlanner-App/internal/domain/model"
)

// ToPoint はLatLngをorb.Pointに変換する
func ToPoint(p model.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// DistanceMeters は2地点間の距離を計算する (m)
func DistanceMeters(p1, p2 model.LatLng) float64 {
	return geo.Distance(ToPoint(p1), ToPoint(p2))
}

// OrderSelectedSpots は選択済みスポットを時間帯順に並べ、同じ時間帯の中は最近傍順に並べる
func OrderSelectedSpots(selected []model.SelectedSpot) []model.SelectedSpot {
	if len(selected) == 0 {
		return []model.SelectedSpot{}
	}

	bySlot := make(map[int][]model.SelectedSpot)
	var orders []int
	for _, s := range selected {
		order := s.TimeSlot.Order()
		if _, ok := bySlot[order]; !ok {
			orders = append(orders, order)
		}
		bySlot[order] = append(bySlot[order], s)
	}
	sort.Ints(orders)

	result := make([]model.SelectedSpot, 0, len(selected))
	var current *model.LatLng
	for _, order := range orders {
		remaining := append([]model.SelectedSpot(nil), bySlot[order]...)
		for len(remaining) > 0 {
			next := 0
			if current != nil {
				best := -1.0
				for i, cand := range remaining {
					d := DistanceMeters(*current, cand.Spot.ToLatLng())
					if best < 0 || d < best {
						best = d
						next = i
					}
				}
			}
			picked := remaining[next]
			result = append(result, picked)
			loc := picked.Spot.ToLatLng()
			current = &loc
			remaining = append(remaining[:next], remaining[next+1:]...)
		}
	}
	return result
}

// ToOrderedSpots は並べ替え済みのスポットを訪問順レコードに変換する
func ToOrderedSpots(spots []model.SelectedSpot) []model.OrderedSpot {
	ordered := make([]model.OrderedSpot, len(spots))
	for i, s := range spots {
		ordered[i] = model.OrderedSpot{
			Order:     i + 1,
			SpotID:    s.Spot.SpotID,
			Name:      SpotDisplayName(s.Spot),
			TimeSlot:  s.TimeSlot,
			Latitude:  s.Spot.Latitude,
			Longitude: s.Spot.Longitude,
		}
	}
	return ordered
}

// RouteBound は訪問地点を囲む境界ボックスを返す
func RouteBound(spots []model.SelectedSpot) orb.Bound {
	points := make(orb.MultiPoint, len(spots))
	for i, s := range spots {
		points[i] = ToPoint(s.Spot.ToLatLng())
	}
	return points.Bound()
}

// SpotDisplayName は表示用のスポット名を返す（詳細名がなければspot_id）
func SpotDisplayName(spot model.SpotItem) string {
	if name := strings.TrimSpace(spot.Details.Name); name != "" {
		return name
	}
	return spot.SpotID
}

// DedupeSpotIDs は構造全体でspot_idが重複しないよう、後から出てきた重複スポットを取り除く
func DedupeSpotIDs(spots *model.RecommendedSpots) *model.RecommendedSpots {
	if spots == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for i := range spots.RecommendSpots {
		group := &spots.RecommendSpots[i]
		kept := make([]model.SpotItem, 0, len(group.Spots))
		for _, spot := range group.Spots {
			if spot.SpotID == "" {
				continue
			}
			if _, ok := seen[spot.SpotID]; ok {
				continue
			}
			seen[spot.SpotID] = struct{}{}
			kept = append(kept, spot)
		}
		group.Spots = kept
	}
	return spots
}

// SelectedSpotsSummary は「時間帯: スポット名」の一覧を作成する
func SelectedSpotsSummary(selected []model.SelectedSpot) string {
	lines := make([]string, 0, len(selected))
	for _, s := range selected {
		lines = append(lines, fmt.Sprintf("・%s: %s", s.TimeSlot, SpotDisplayName(s.Spot)))
	}
	return strings.Join(lines, "\n")
}
