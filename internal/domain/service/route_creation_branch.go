package service

import (
	"context"
	"fmt"
	"log/slog"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// RouteCreationBranch は選択済みスポットからルートを作成する
type RouteCreationBranch struct {
	store   repository.RecommendationStore
	routing repository.RoutingRepository
	caller  *CollaboratorCaller
}

// NewRouteCreationBranch は新しいRouteCreationBranchを作成
func NewRouteCreationBranch(store repository.RecommendationStore, routing repository.RoutingRepository, caller *CollaboratorCaller) *RouteCreationBranch {
	return &RouteCreationBranch{
		store:   store,
		routing: routing,
		caller:  caller,
	}
}

func (b *RouteCreationBranch) Intent() model.Intent {
	return model.IntentRouteCreationExecute
}

// Execute はルート作成を実行する
func (b *RouteCreationBranch) Execute(ctx context.Context, input *model.WorkflowInput) *model.WorkflowOutput {
	current := input.RecommendedSpots
	if current == nil {
		if stored, ok := b.store.Get(input.PlanID); ok {
			current = stored
		}
	}

	out, err := b.run(ctx, input, current)
	return b.caller.normalize(b.Intent(), out, err, current)
}

func (b *RouteCreationBranch) run(ctx context.Context, input *model.WorkflowInput, current *model.RecommendedSpots) (*model.WorkflowOutput, error) {
	selected := current.SelectedSpots()
	if len(selected) == 0 {
		b.caller.logger.Info("ℹ️ 選択済みスポットがないためルート作成をスキップ", slog.String("plan_id", input.PlanID))
		return model.NewWorkflowOutput(model.MessageNoSpotsSelected, current), nil
	}

	// ルーティングはプランIDで選択状態を参照するため、最新の集合を登録しておく
	if input.RecommendedSpots != nil {
		b.store.Set(input.PlanID, input.RecommendedSpots)
	}

	b.caller.logger.Info("🗺️ ルート作成開始", slog.String("plan_id", input.PlanID), slog.Int("selected", len(selected)))

	route, err := callCollaborator(ctx, b.caller, "routing", func(ctx context.Context) (*model.RouteResponse, error) {
		return b.routing.ComputeRoute(ctx, input.PlanID)
	})
	if err != nil {
		return nil, newBranchFailure("routing_failed", model.MessageRouteCreationFailed, err)
	}

	polyline, ordered := route.FirstDay()
	if polyline == "" {
		// ポリラインが空でもターンは成功扱い。表示側で「ルートなし」と判断する
		b.caller.observer.ObserveFallback(b.Intent(), "empty_route")
		b.caller.logger.Warn("⚠️ ルートの形状が取得できませんでした", slog.String("plan_id", input.PlanID))
	}

	out := model.NewWorkflowOutput(buildRouteConfirmation(selected), current)
	out.Polyline = &polyline
	out.OrderedSpots = ordered

	b.caller.logger.Info("✅ ルート作成完了", slog.String("plan_id", input.PlanID), slog.Int("ordered_spots", len(ordered)))
	return out, nil
}

// buildRouteConfirmation は選択済みスポットの名前と時間帯を並べた確認メッセージを作成する
func buildRouteConfirmation(selected []model.SelectedSpot) string {
	return fmt.Sprintf("以下の%d件のスポットで旅行ルートを作成しました。\n%s", len(selected), helper.SelectedSpotsSummary(selected))
}
