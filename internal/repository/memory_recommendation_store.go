package repository

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// recommendationSession はプラン1件分のおすすめスポットとその排他制御
type recommendationSession struct {
	mu    sync.Mutex
	spots *model.RecommendedSpots
}

// MemoryRecommendationStore はプランIDごとにおすすめスポットを保持するインメモリストア
// 一定時間アクセスのないプランは破棄される
type MemoryRecommendationStore struct {
	mu       sync.Mutex
	sessions *cache.Cache
	logger   *slog.Logger
}

// NewMemoryRecommendationStore は新しいMemoryRecommendationStoreを作成
func NewMemoryRecommendationStore(sessionTTL time.Duration, logger *slog.Logger) *MemoryRecommendationStore {
	return &MemoryRecommendationStore{
		sessions: cache.New(sessionTTL, sessionTTL/2),
		logger:   logger,
	}
}

var _ repository.RecommendationStore = (*MemoryRecommendationStore)(nil)

// lookup は既存のセッションを返す。create が true なら存在しない場合に作成する
func (s *MemoryRecommendationStore) lookup(planID string, create bool) *recommendationSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sessions.Get(planID); ok {
		sess := v.(*recommendationSession)
		// アクセスのたびに有効期限を延長
		s.sessions.SetDefault(planID, sess)
		return sess
	}
	if !create {
		return nil
	}
	sess := &recommendationSession{}
	s.sessions.SetDefault(planID, sess)
	return sess
}

// Get は保持しているおすすめスポットのコピーを返す
func (s *MemoryRecommendationStore) Get(planID string) (*model.RecommendedSpots, bool) {
	sess := s.lookup(planID, false)
	if sess == nil {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.spots == nil {
		return nil, false
	}
	return sess.spots.Clone(), true
}

// Set は保持しているおすすめスポットを丸ごと置き換える
func (s *MemoryRecommendationStore) Set(planID string, data *model.RecommendedSpots) {
	sess := s.lookup(planID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.spots = data.Clone()
	s.logger.Debug("📦 おすすめスポットを保存", slog.String("plan_id", planID), slog.Int("spots", data.SpotCount()))
}

// UpdateSelection はspot_idに一致する最初のスポットの選択状態を更新する
// selected を指定した場合は冪等、nil の場合はトグルなので呼ぶたびに反転する
func (s *MemoryRecommendationStore) UpdateSelection(planID, spotID string, selected *bool) (*model.SpotItem, error) {
	sess := s.lookup(planID, false)
	if sess == nil {
		return nil, fmt.Errorf("プラン %s のおすすめスポットが存在しません: %w", planID, model.ErrNotFound)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.spots == nil {
		return nil, fmt.Errorf("プラン %s のおすすめスポットが存在しません: %w", planID, model.ErrNotFound)
	}

	spot, _, ok := sess.spots.FindSpot(spotID)
	if !ok {
		return nil, fmt.Errorf("スポット %s が見つかりません: %w", spotID, model.ErrNotFound)
	}

	if selected != nil {
		spot.Selected = *selected
	} else {
		spot.Selected = !spot.Selected
	}

	s.logger.Info("✅ スポットの選択状態を更新",
		slog.String("plan_id", planID),
		slog.String("spot_id", spotID),
		slog.Bool("selected", spot.Selected))

	updated := spot.Clone()
	return &updated, nil
}
