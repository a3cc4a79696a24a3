package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

const defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した経路検索の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	travelMode string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey, travelMode string) *GoogleDirectionsProvider {
	if travelMode == "" {
		travelMode = "driving"
	}
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		travelMode: travelMode,
		baseURL:    defaultDirectionsURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL はAPIの接続先を差し替える（テスト用）
func (g *GoogleDirectionsProvider) WithBaseURL(baseURL string) *GoogleDirectionsProvider {
	g.baseURL = baseURL
	return g
}

var _ repository.DirectionsProvider = (*GoogleDirectionsProvider)(nil)

// GetRoute はDirections APIで origin から waypoints の順に巡る経路を取得する
// 最後の地点を目的地、それ以外を経由地として扱う
func (g *GoogleDirectionsProvider) GetRoute(ctx context.Context, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("目的地が指定されていません: %w", model.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.directionsURL(origin, waypoints), nil)
	if err != nil {
		return nil, fmt.Errorf("Directionsリクエストの作成に失敗: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Directions APIの呼び出しに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Directions APIが%dを返しました", resp.StatusCode)
	}
	return decodeDirections(resp.Body)
}

// directionsURL は経由地を順序固定で並べたリクエストURLを作る
func (g *GoogleDirectionsProvider) directionsURL(origin model.LatLng, waypoints []model.LatLng) string {
	last := len(waypoints) - 1
	q := url.Values{
		"origin":      {formatLatLng(origin)},
		"destination": {formatLatLng(waypoints[last])},
		"mode":        {g.travelMode},
		"language":    {"ja"},
		"key":         {g.apiKey},
	}
	if last > 0 {
		via := make([]string, last)
		for i, wp := range waypoints[:last] {
			via[i] = formatLatLng(wp)
		}
		q.Set("waypoints", strings.Join(via, "|"))
	}
	return g.baseURL + "?" + q.Encode()
}

// decodeDirections はAPIレスポンスを最初の経路の集計値に変換する
func decodeDirections(body io.Reader) (*model.RouteDetails, error) {
	var payload directionsPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("Directionsレスポンスの解析に失敗: %w", err)
	}

	switch payload.Status {
	case "", "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, fmt.Errorf("経路が見つかりません (%s): %w", payload.Status, model.ErrNotFound)
	default:
		return nil, fmt.Errorf("Directions APIエラー: %s %s", payload.Status, payload.ErrorMessage)
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("経路が含まれていません: %w", model.ErrNotFound)
	}

	best := payload.Routes[0]
	details := &model.RouteDetails{
		Polyline:      best.OverviewPolyline.Points,
		WaypointOrder: best.WaypointOrder,
	}
	for _, l := range best.Legs {
		details.TotalDuration += time.Duration(l.Duration.Value) * time.Second
		details.TotalDistance += l.Distance.Value
	}
	return details, nil
}

func formatLatLng(p model.LatLng) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

type directionsPayload struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Duration struct {
				Value int `json:"value"` // 秒
			} `json:"duration"`
			Distance struct {
				Value int `json:"value"` // メートル
			} `json:"distance"`
		} `json:"legs"`
	} `json:"routes"`
}
