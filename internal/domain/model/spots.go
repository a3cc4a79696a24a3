package model

// TimeSlot はスポットをまとめる時間帯
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "午前"
	TimeSlotAfternoon TimeSlot = "午後"
	TimeSlotNight     TimeSlot = "夜"
)

// TimeSlots は1日の時間帯を順番に返す
func TimeSlots() []TimeSlot {
	return []TimeSlot{TimeSlotMorning, TimeSlotAfternoon, TimeSlotNight}
}

// IsValid は定義済みの時間帯かどうかを判定する
func (t TimeSlot) IsValid() bool {
	switch t {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotNight:
		return true
	}
	return false
}

// Order は時間帯の並び順（未定義の時間帯は最後）
func (t TimeSlot) Order() int {
	for i, slot := range TimeSlots() {
		if slot == t {
			return i
		}
	}
	return len(TimeSlots())
}

// 営業時間のキー（祝日を含む8種類）
const (
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
	DaySaturday  = "saturday"
	DaySunday    = "sunday"
	DayHoliday   = "holiday"
)

// BusinessDays は営業時間のキー一覧を返す
func BusinessDays() []string {
	return []string{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday, DayHoliday}
}

// BusinessHour は1日分の営業時間
type BusinessHour struct {
	OpenTime  string `json:"open_time" firestore:"open_time"`
	CloseTime string `json:"close_time" firestore:"close_time"`
}

// SpotDetails はスポットの詳細情報
type SpotDetails struct {
	Name          string                  `json:"name" firestore:"name"`
	BusinessHours map[string]BusinessHour `json:"business_hours" firestore:"business_hours"`
	Congestion    []float64               `json:"congestion" firestore:"congestion"`
	Price         float64                 `json:"price" firestore:"price"`
}

// SpotItem はおすすめスポット1件
type SpotItem struct {
	SpotID               string      `json:"spot_id" firestore:"spot_id"`
	Latitude             float64     `json:"latitude" firestore:"latitude"`
	Longitude            float64     `json:"longitude" firestore:"longitude"`
	RecommendationReason string      `json:"recommendation_reason" firestore:"recommendation_reason"`
	Selected             bool        `json:"selected" firestore:"selected"`
	Details              SpotDetails `json:"details" firestore:"details"`
	GoogleMapImageURL    *string     `json:"google_map_image_url,omitempty" firestore:"google_map_image_url,omitempty"`
	WebsiteURL           *string     `json:"website_url,omitempty" firestore:"website_url,omitempty"`
}

// ToLatLng スポットの位置をLatLng型に変換
func (s *SpotItem) ToLatLng() LatLng {
	return LatLng{Lat: s.Latitude, Lng: s.Longitude}
}

// TimeSlotGroup は時間帯ごとのスポット一覧
type TimeSlotGroup struct {
	TimeSlot TimeSlot   `json:"time_slot" firestore:"time_slot"`
	Spots    []SpotItem `json:"spots" firestore:"spots"`
}

// RecommendedSpots はおすすめスポット集合（Recommendation Storeで保持する単位）
type RecommendedSpots struct {
	RecommendSpotID string          `json:"recommend_spot_id" firestore:"recommend_spot_id"`
	RecommendSpots  []TimeSlotGroup `json:"recommend_spots" firestore:"recommend_spots"`
}

// SelectedSpot は選択済みスポットとその時間帯
type SelectedSpot struct {
	TimeSlot TimeSlot
	Spot     SpotItem
}

// NewEmptyRecommendedSpots は空の形をしたおすすめスポット集合を作成
func NewEmptyRecommendedSpots() *RecommendedSpots {
	return &RecommendedSpots{
		RecommendSpotID: "",
		RecommendSpots:  []TimeSlotGroup{},
	}
}

// Clone はディープコピーを返す
func (r *RecommendedSpots) Clone() *RecommendedSpots {
	if r == nil {
		return nil
	}
	out := &RecommendedSpots{
		RecommendSpotID: r.RecommendSpotID,
		RecommendSpots:  make([]TimeSlotGroup, len(r.RecommendSpots)),
	}
	for i, group := range r.RecommendSpots {
		spots := make([]SpotItem, len(group.Spots))
		for j, spot := range group.Spots {
			spots[j] = spot.Clone()
		}
		out.RecommendSpots[i] = TimeSlotGroup{TimeSlot: group.TimeSlot, Spots: spots}
	}
	if r.RecommendSpots == nil {
		out.RecommendSpots = nil
	}
	return out
}

// Clone はスポットのディープコピーを返す
func (s SpotItem) Clone() SpotItem {
	out := s
	if s.Details.BusinessHours != nil {
		out.Details.BusinessHours = make(map[string]BusinessHour, len(s.Details.BusinessHours))
		for k, v := range s.Details.BusinessHours {
			out.Details.BusinessHours[k] = v
		}
	}
	if s.Details.Congestion != nil {
		out.Details.Congestion = append([]float64(nil), s.Details.Congestion...)
	}
	if s.GoogleMapImageURL != nil {
		v := *s.GoogleMapImageURL
		out.GoogleMapImageURL = &v
	}
	if s.WebsiteURL != nil {
		v := *s.WebsiteURL
		out.WebsiteURL = &v
	}
	return out
}

// FindSpot は全時間帯を通して最初に一致するスポットを返す
func (r *RecommendedSpots) FindSpot(spotID string) (*SpotItem, TimeSlot, bool) {
	if r == nil {
		return nil, "", false
	}
	for i := range r.RecommendSpots {
		group := &r.RecommendSpots[i]
		for j := range group.Spots {
			if group.Spots[j].SpotID == spotID {
				return &group.Spots[j], group.TimeSlot, true
			}
		}
	}
	return nil, "", false
}

// SelectedSpots は全時間帯を平坦化し、選択済みのスポットだけを返す
func (r *RecommendedSpots) SelectedSpots() []SelectedSpot {
	if r == nil {
		return nil
	}
	var selected []SelectedSpot
	for _, group := range r.RecommendSpots {
		for _, spot := range group.Spots {
			if spot.Selected {
				selected = append(selected, SelectedSpot{TimeSlot: group.TimeSlot, Spot: spot})
			}
		}
	}
	return selected
}

// SpotCount は全時間帯のスポット数
func (r *RecommendedSpots) SpotCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, group := range r.RecommendSpots {
		count += len(group.Spots)
	}
	return count
}

// HasUniqueSpotIDs はspot_idが構造全体で一意かどうかを判定する
func (r *RecommendedSpots) HasUniqueSpotIDs() bool {
	if r == nil {
		return true
	}
	seen := make(map[string]struct{})
	for _, group := range r.RecommendSpots {
		for _, spot := range group.Spots {
			if _, ok := seen[spot.SpotID]; ok {
				return false
			}
			seen[spot.SpotID] = struct{}{}
		}
	}
	return true
}
