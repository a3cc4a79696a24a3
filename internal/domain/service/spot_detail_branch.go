package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// SpotDetailBranch はplace_idで参照されたスポットを口コミと会話をもとに説明する
// おすすめスポット集合は変更しない
type SpotDetailBranch struct {
	reviews   repository.ReviewsRepository
	explainer repository.SpotExplanationRepository
	caller    *CollaboratorCaller
}

// NewSpotDetailBranch は新しいSpotDetailBranchを作成
func NewSpotDetailBranch(reviews repository.ReviewsRepository, explainer repository.SpotExplanationRepository, caller *CollaboratorCaller) *SpotDetailBranch {
	return &SpotDetailBranch{
		reviews:   reviews,
		explainer: explainer,
		caller:    caller,
	}
}

func (b *SpotDetailBranch) Intent() model.Intent {
	return model.IntentSpotDetail
}

// Execute はスポット詳細の説明を生成する
func (b *SpotDetailBranch) Execute(ctx context.Context, input *model.WorkflowInput) *model.WorkflowOutput {
	out, err := b.run(ctx, input)
	return b.caller.normalize(b.Intent(), out, err, input.RecommendedSpots)
}

func (b *SpotDetailBranch) run(ctx context.Context, input *model.WorkflowInput) (*model.WorkflowOutput, error) {
	placeID, err := helper.ResolvePlaceID(latestUtterance(input.Messages))
	if err != nil {
		return nil, newBranchFailure("malformed_reference", model.MessagePlaceNotFound, err)
	}

	b.caller.logger.Info("📍 スポット詳細取得開始", slog.String("plan_id", input.PlanID), slog.String("place_id", placeID))

	reviews, err := callCollaborator(ctx, b.caller, "reviews", func(ctx context.Context) (*model.PlaceReviews, error) {
		return b.reviews.GetReviews(ctx, placeID)
	})
	if err != nil {
		return nil, newBranchFailure("reviews_failed", model.MessageSpotDetailFailed, err)
	}
	if reviews == nil {
		reviews = model.NewPlaceholderReviews(placeID)
	}

	recent := model.RecentMessages(input.Messages, model.DetailContextTurns)
	explanation, err := callCollaborator(ctx, b.caller, "spot_explainer", func(ctx context.Context) (string, error) {
		return b.explainer.ExplainSpot(ctx, reviews, recent)
	})
	if err != nil {
		return nil, newBranchFailure("explanation_failed", model.MessageSpotDetailFailed, err)
	}

	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return nil, newBranchFailure("explanation_empty", model.MessageSpotDetailFailed, errors.New("説明文が空です"))
	}

	b.caller.logger.Info("✅ スポット詳細の説明を生成", slog.String("place_id", placeID), slog.Int("reviews", len(reviews.Reviews)))
	return model.NewWorkflowOutput(explanation, input.RecommendedSpots), nil
}
