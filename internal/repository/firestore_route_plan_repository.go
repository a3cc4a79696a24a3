package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

const routePlansCollection = "routePlans"

// FirestoreRoutePlanRepository Firestoreを使用した計算済みルートのキャッシュリポジトリ
// ドキュメントIDはプランIDで、プランごとに最新のルートだけを保持する
type FirestoreRoutePlanRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewFirestoreRoutePlanRepository 新しいFirestoreRoutePlanRepositoryインスタンスを作成
func NewFirestoreRoutePlanRepository(client *firestore.Client, logger *slog.Logger) *FirestoreRoutePlanRepository {
	return &FirestoreRoutePlanRepository{
		client: client,
		logger: logger,
	}
}

var _ repository.RoutePlanRepository = (*FirestoreRoutePlanRepository)(nil)

// SaveRoutePlan はルートをFirestoreに保存する
func (r *FirestoreRoutePlanRepository) SaveRoutePlan(ctx context.Context, route *model.RouteResponse, ttlHours int) error {
	if route == nil || route.PlanID == "" {
		return fmt.Errorf("保存するルートのプランIDがありません: %w", model.ErrInvalidInput)
	}

	data := route.ToFirestoreRoutePlan(ttlHours)
	if _, err := r.client.Collection(routePlansCollection).Doc(route.PlanID).Set(ctx, data); err != nil {
		r.logger.Error("❌ Failed to save route plan", slog.String("plan_id", route.PlanID), slog.Any("error", err))
		return fmt.Errorf("ルートの保存に失敗しました: %w", err)
	}

	r.logger.Info("✅ Route plan saved", slog.String("plan_id", route.PlanID), slog.Int("ttl_hours", ttlHours))
	return nil
}

// GetRoutePlan はプランIDのルートをFirestoreから取得する
func (r *FirestoreRoutePlanRepository) GetRoutePlan(ctx context.Context, planID string) (*model.RouteResponse, error) {
	doc, err := r.client.Collection(routePlansCollection).Doc(planID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("ルートが見つかりません: %s: %w", planID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("ルートの取得に失敗しました: %w", err)
	}

	var data model.FirestoreRoutePlan
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	if !data.ExpireAt.IsZero() && data.ExpireAt.Before(time.Now()) {
		return nil, fmt.Errorf("ルートの有効期限が切れています: %s: %w", planID, model.ErrNotFound)
	}

	return data.ToRouteResponse(), nil
}
