package ai

import (
	"context"
	"fmt"
	"strings"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// geminiSummaryRepository はGeminiで追加スポットの要約を生成する
type geminiSummaryRepository struct {
	client *GeminiClient
}

// NewGeminiSummaryRepository は新しいgeminiSummaryRepositoryインスタンスを作成
func NewGeminiSummaryRepository(client *GeminiClient) repository.SpotSummaryRepository {
	return &geminiSummaryRepository{client: client}
}

// SummarizeSpots はユーザーの依頼と新しいスポットから1〜2文の要約を生成する
func (r *geminiSummaryRepository) SummarizeSpots(ctx context.Context, latestRequest string, spots *model.RecommendedSpots) (string, error) {
	summary, err := r.client.GenerateText(ctx, "", userPrompt(buildSummaryPrompt(latestRequest, spots)))
	if err != nil {
		return "", fmt.Errorf("要約の生成に失敗: %w", err)
	}
	return summary, nil
}

// buildSummaryPrompt は要約生成用のプロンプトを構築
func buildSummaryPrompt(latestRequest string, spots *model.RecommendedSpots) string {
	var lines []string
	if spots != nil {
		for _, group := range spots.RecommendSpots {
			for _, spot := range group.Spots {
				lines = append(lines, fmt.Sprintf("- [%s] %s: %s", group.TimeSlot, helper.SpotDisplayName(spot), spot.RecommendationReason))
			}
		}
	}

	return fmt.Sprintf(`ユーザーの依頼に対して、以下のスポットをおすすめに追加しました。
何を追加したのかを1〜2文の日本語で簡潔に伝えてください。

【ユーザーの依頼】
%s

【追加したスポット】
%s`, latestRequest, strings.Join(lines, "\n"))
}
