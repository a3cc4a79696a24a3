package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

const defaultPlaceDetailsURL = "https://maps.googleapis.com/maps/api/place/details/json"

// GooglePlacesReviewsProvider はGoogle Places Details APIからスポットの口コミを取得する
// 取得結果はplace_idごとにキャッシュし、同時に来た同じplace_idのリクエストは1回にまとめる
type GooglePlacesReviewsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	group      singleflight.Group
	logger     *slog.Logger
}

// NewGooglePlacesReviewsProvider は新しいプロバイダを生成する
func NewGooglePlacesReviewsProvider(apiKey string, cacheTTL time.Duration, logger *slog.Logger) *GooglePlacesReviewsProvider {
	return &GooglePlacesReviewsProvider{
		apiKey:     apiKey,
		baseURL:    defaultPlaceDetailsURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(cacheTTL, cacheTTL*2),
		logger:     logger,
	}
}

// WithBaseURL はAPIの接続先を差し替える（テスト用）
func (g *GooglePlacesReviewsProvider) WithBaseURL(baseURL string) *GooglePlacesReviewsProvider {
	g.baseURL = baseURL
	return g
}

var _ repository.ReviewsRepository = (*GooglePlacesReviewsProvider)(nil)

// GetReviews はスポットの口コミを最大5件取得する
// 取得に失敗した場合はエラーにせずプレースホルダーを返す
func (g *GooglePlacesReviewsProvider) GetReviews(ctx context.Context, placeID string) (*model.PlaceReviews, error) {
	if cached, ok := g.cache.Get(placeID); ok {
		g.logger.Debug("💾 口コミキャッシュヒット", slog.String("place_id", placeID))
		return copyReviews(cached.(*model.PlaceReviews)), nil
	}

	// 相乗りした呼び出し元も同じ結果を使うため、最初の呼び出し元のキャンセルには従わない
	// 取得時間はhttpClientのタイムアウトで制限される
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := g.group.Do(placeID, func() (interface{}, error) {
		reviews, err := g.fetch(fetchCtx, placeID)
		if err != nil {
			return nil, err
		}
		g.cache.SetDefault(placeID, reviews)
		return reviews, nil
	})
	if err != nil {
		g.logger.Warn("⚠️ 口コミの取得に失敗、プレースホルダーを返します",
			slog.String("place_id", placeID),
			slog.Any("error", err))
		return model.NewPlaceholderReviews(placeID), nil
	}

	g.logger.Info("✅ 口コミ取得完了", slog.String("place_id", placeID), slog.Bool("shared", shared))
	return copyReviews(v.(*model.PlaceReviews)), nil
}

func (g *GooglePlacesReviewsProvider) fetch(ctx context.Context, placeID string) (*model.PlaceReviews, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,rating,user_ratings_total,reviews")
	params.Set("language", "ja")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("Places APIエラー: %s %s", apiResp.Status, apiResp.ErrorMessage)
	}
	if apiResp.Result.Name == "" {
		return nil, errors.New("スポット名が返されませんでした")
	}

	reviews := make([]model.Review, 0, model.MaxReviews)
	for _, r := range apiResp.Result.Reviews {
		if len(reviews) >= model.MaxReviews {
			break
		}
		reviews = append(reviews, model.Review{
			Rating:       r.Rating,
			RelativeTime: r.RelativeTimeDescription,
			Text:         r.Text,
		})
	}

	return &model.PlaceReviews{
		PlaceID:       placeID,
		PlaceName:     apiResp.Result.Name,
		OverallRating: apiResp.Result.Rating,
		TotalReviews:  apiResp.Result.UserRatingsTotal,
		Reviews:       reviews,
	}, nil
}

func copyReviews(src *model.PlaceReviews) *model.PlaceReviews {
	dst := *src
	dst.Reviews = append([]model.Review(nil), src.Reviews...)
	return &dst
}

// --- Google Places APIのレスポンスをパースするための構造体 ---

type placeDetailsResponse struct {
	Result       placeDetailsResult `json:"result"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
}
type placeDetailsResult struct {
	Name             string        `json:"name"`
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	Reviews          []placeReview `json:"reviews"`
}
type placeReview struct {
	Rating                  float64 `json:"rating"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	Text                    string  `json:"text"`
}
