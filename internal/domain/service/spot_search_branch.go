package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// SpotSearchBranch はスポットを検索し、おすすめスポット集合を置き換える
type SpotSearchBranch struct {
	store      repository.RecommendationStore
	search     repository.SpotSearchRepository
	summarizer repository.SpotSummaryRepository
	caller     *CollaboratorCaller
}

// NewSpotSearchBranch は新しいSpotSearchBranchを作成
func NewSpotSearchBranch(
	store repository.RecommendationStore,
	search repository.SpotSearchRepository,
	summarizer repository.SpotSummaryRepository,
	caller *CollaboratorCaller,
) *SpotSearchBranch {
	return &SpotSearchBranch{
		store:      store,
		search:     search,
		summarizer: summarizer,
		caller:     caller,
	}
}

func (b *SpotSearchBranch) Intent() model.Intent {
	return model.IntentSpotSearch
}

// Execute はスポット検索を実行する
func (b *SpotSearchBranch) Execute(ctx context.Context, input *model.WorkflowInput) *model.WorkflowOutput {
	prior := input.RecommendedSpots
	if prior != nil {
		b.store.Set(input.PlanID, prior)
	} else if stored, ok := b.store.Get(input.PlanID); ok {
		prior = stored
	}

	out, err := b.run(ctx, input, prior)
	return b.caller.normalize(b.Intent(), out, err, prior)
}

func (b *SpotSearchBranch) run(ctx context.Context, input *model.WorkflowInput, prior *model.RecommendedSpots) (*model.WorkflowOutput, error) {
	b.caller.logger.Info("🔍 スポット検索開始", slog.String("plan_id", input.PlanID), slog.Int("messages", len(input.Messages)))

	found, err := callCollaborator(ctx, b.caller, "spot_search", func(ctx context.Context) (*model.RecommendedSpots, error) {
		return b.search.SearchSpots(ctx, input.Messages, prior, input.PlanID)
	})
	if err != nil {
		return nil, newBranchFailure("search_failed", model.MessageSpotSearchFailed, err)
	}
	if found == nil {
		found = model.NewEmptyRecommendedSpots()
	}

	found = helper.DedupeSpotIDs(found)
	if found.RecommendSpotID == "" {
		found.RecommendSpotID = uuid.New().String()
	}
	b.store.Set(input.PlanID, found)

	b.caller.logger.Info("✅ スポット検索完了",
		slog.String("plan_id", input.PlanID),
		slog.String("recommend_spot_id", found.RecommendSpotID),
		slog.Int("time_slots", len(found.RecommendSpots)),
		slog.Int("spots", found.SpotCount()))

	return model.NewWorkflowOutput(b.summarize(ctx, input.Messages, found), found), nil
}

// summarize は追加されたスポットの要約を生成する
// 要約に失敗しても検索結果は捨てずに定型メッセージを使う
func (b *SpotSearchBranch) summarize(ctx context.Context, messages []model.ChatMessage, spots *model.RecommendedSpots) string {
	summary, err := callCollaborator(ctx, b.caller, "spot_summarizer", func(ctx context.Context) (string, error) {
		return b.summarizer.SummarizeSpots(ctx, model.LatestUserMessage(messages), spots)
	})
	if err != nil {
		b.caller.observer.ObserveFallback(b.Intent(), "summary_failed")
		b.caller.logger.Warn("⚠️ 要約の生成に失敗、定型メッセージを使用", slog.Any("error", err))
		return model.MessageSpotsUpdated
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		b.caller.observer.ObserveFallback(b.Intent(), "summary_empty")
		return model.MessageSpotsUpdated
	}
	return summary
}
