package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"TripPlanner-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ToPoint GeoPoint を orb.Point に変換
func (g *GeoPoint) ToPoint() (orb.Point, bool) {
	if g == nil || len(g.Coordinates) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{g.Coordinates[0], g.Coordinates[1]}, true
}

// spotRow spotsテーブルの1行
type spotRow struct {
	ID                string                        `json:"id"`
	Name              string                        `json:"name"`
	Description       string                        `json:"description"`
	Categories        []string                      `json:"categories"`
	Location          *GeoPoint                     `json:"location"`
	BusinessHours     map[string]model.BusinessHour `json:"business_hours"`
	Congestion        []float64                     `json:"congestion"`
	Price             float64                       `json:"price"`
	Rating            float64                       `json:"rating"`
	GoogleMapImageURL *string                       `json:"google_map_image_url"`
	WebsiteURL        *string                       `json:"website_url"`
}

// toCandidate spotRow を model.SpotCandidate に変換（位置情報がなければ false）
func (r *spotRow) toCandidate() (model.SpotCandidate, bool) {
	point, ok := r.Location.ToPoint()
	if !ok {
		return model.SpotCandidate{}, false
	}
	return model.SpotCandidate{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		Categories:        r.Categories,
		Latitude:          point.Lat(),
		Longitude:         point.Lon(),
		BusinessHours:     r.BusinessHours,
		Congestion:        r.Congestion,
		Price:             r.Price,
		GoogleMapImageURL: r.GoogleMapImageURL,
		WebsiteURL:        r.WebsiteURL,
	}, true
}

// rowsToCandidates 評価の高い順に並べて候補に変換する
func rowsToCandidates(rows []spotRow, limit int) []model.SpotCandidate {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rating > rows[j].Rating
	})

	candidates := make([]model.SpotCandidate, 0, len(rows))
	for i := range rows {
		if limit > 0 && len(candidates) >= limit {
			break
		}
		if c, ok := rows[i].toCandidate(); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// parseGeoJSON PostGISのST_AsGeoJSONの結果をGeoPointに変換
func parseGeoJSON(raw string) (*GeoPoint, error) {
	var point GeoPoint
	if err := json.Unmarshal([]byte(raw), &point); err != nil {
		return nil, fmt.Errorf("location JSONパースエラー: %w", err)
	}
	return &point, nil
}

// sanitizeKeyword PostgRESTのフィルタ構文を壊す文字を取り除く
func sanitizeKeyword(keyword string) string {
	replacer := strings.NewReplacer(",", "", "(", "", ")", "", "*", "", "%", "", ".", "")
	return strings.TrimSpace(replacer.Replace(keyword))
}
