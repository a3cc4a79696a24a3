package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
)

type RecommendationWorkflowUseCase interface {
	// RunTurn は1ターン分の意図分類と分岐処理を実行する
	// 返すエラーは ErrInvalidInput のみで、分岐内の失敗は定型メッセージとして出力に含まれる
	RunTurn(ctx context.Context, input *model.WorkflowInput) (*model.WorkflowOutput, error)
}

// recommendationWorkflowUseCaseImpl はRecommendationWorkflowUseCaseの実装
type recommendationWorkflowUseCaseImpl struct {
	classifier *service.IntentClassifier
	branches   map[model.Intent]service.Branch
	observer   service.WorkflowObserver
	logger     *slog.Logger
}

// NewRecommendationWorkflowUseCase は新しいRecommendationWorkflowUseCaseインスタンスを作成
// 4つの意図それぞれに分岐が1つずつ登録されている必要がある
func NewRecommendationWorkflowUseCase(
	classifier *service.IntentClassifier,
	caller *service.CollaboratorCaller,
	branches ...service.Branch,
) (RecommendationWorkflowUseCase, error) {
	registered := make(map[model.Intent]service.Branch, len(branches))
	for _, b := range branches {
		if _, dup := registered[b.Intent()]; dup {
			return nil, fmt.Errorf("意図 %s の分岐が重複しています", b.Intent())
		}
		registered[b.Intent()] = b
	}
	for _, intent := range model.Intents() {
		if _, ok := registered[intent]; !ok {
			return nil, fmt.Errorf("意図 %s の分岐が登録されていません", intent)
		}
	}

	return &recommendationWorkflowUseCaseImpl{
		classifier: classifier,
		branches:   registered,
		observer:   caller.Observer(),
		logger:     caller.Logger(),
	}, nil
}

// RunTurn は Start → Classified → 分岐 → Done の順に1ターンを処理する
func (u *recommendationWorkflowUseCaseImpl) RunTurn(ctx context.Context, input *model.WorkflowInput) (*model.WorkflowOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("入力がありません: %w", model.ErrInvalidInput)
	}

	start := time.Now()
	u.logger.Info("🚀 ターン開始",
		slog.String("plan_id", input.PlanID),
		slog.Int("messages", len(input.Messages)),
		slog.Bool("has_recommendations", input.RecommendedSpots != nil))

	intent, err := u.classifier.Classify(ctx, input.Messages)
	if err != nil {
		u.logger.Warn("⚠️ ターンを中断", slog.String("plan_id", input.PlanID), slog.Any("error", err))
		return nil, err
	}

	// 分岐は1つだけ実行し、その出力をそのまま返す
	output := u.branches[intent].Execute(ctx, input)

	u.observer.ObserveTurn(intent, time.Since(start))
	u.logger.Info("🎉 ターン完了",
		slog.String("plan_id", input.PlanID),
		slog.String("intent", string(intent)),
		slog.Duration("elapsed", time.Since(start)))

	return output, nil
}
