package model

// MaxReviews は取得するレビューの上限数
const MaxReviews = 5

// Review は口コミ1件
type Review struct {
	Rating       float64 `json:"rating"`
	RelativeTime string  `json:"relative_time"`
	Text         string  `json:"text"`
}

// PlaceReviews はスポットの口コミ情報
type PlaceReviews struct {
	PlaceID       string   `json:"place_id"`
	PlaceName     string   `json:"place_name"`
	OverallRating float64  `json:"overall_rating"`
	TotalReviews  int      `json:"total_reviews"`
	Reviews       []Review `json:"reviews"`
}

// NewPlaceholderReviews は取得失敗時のプレースホルダーを作成
func NewPlaceholderReviews(placeID string) *PlaceReviews {
	return &PlaceReviews{
		PlaceID:   placeID,
		PlaceName: "不明なスポット",
		Reviews:   []Review{},
	}
}

// SpotCandidate はスポット検索の候補（DBに登録されたスポット）
type SpotCandidate struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	Categories        []string                `json:"categories"`
	Latitude          float64                 `json:"latitude"`
	Longitude         float64                 `json:"longitude"`
	BusinessHours     map[string]BusinessHour `json:"business_hours"`
	Congestion        []float64               `json:"congestion"`
	Price             float64                 `json:"price"`
	GoogleMapImageURL *string                 `json:"google_map_image_url,omitempty"`
	WebsiteURL        *string                 `json:"website_url,omitempty"`
}
