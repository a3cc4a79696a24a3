package ai

import (
	"context"
	"fmt"
	"strings"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// geminiExplanationRepository はGeminiで口コミと会話からおすすめ理由を説明する
type geminiExplanationRepository struct {
	client *GeminiClient
}

// NewGeminiExplanationRepository は新しいgeminiExplanationRepositoryインスタンスを作成
func NewGeminiExplanationRepository(client *GeminiClient) repository.SpotExplanationRepository {
	return &geminiExplanationRepository{client: client}
}

// ExplainSpot は会話の文脈をふまえて、このスポットをおすすめする理由を説明する
func (r *geminiExplanationRepository) ExplainSpot(ctx context.Context, reviews *model.PlaceReviews, recent []model.ChatMessage) (string, error) {
	if reviews == nil {
		return "", fmt.Errorf("口コミ情報がありません")
	}

	explanation, err := r.client.GenerateText(ctx, "", userPrompt(buildExplanationPrompt(reviews, recent)))
	if err != nil {
		return "", fmt.Errorf("スポット説明の生成に失敗: %w", err)
	}
	return explanation, nil
}

// buildExplanationPrompt はスポット説明用のプロンプトを構築
func buildExplanationPrompt(reviews *model.PlaceReviews, recent []model.ChatMessage) string {
	reviewLines := make([]string, 0, len(reviews.Reviews))
	for _, rv := range reviews.Reviews {
		reviewLines = append(reviewLines, fmt.Sprintf("- ★%.1f（%s）%s", rv.Rating, rv.RelativeTime, rv.Text))
	}
	if len(reviewLines) == 0 {
		reviewLines = append(reviewLines, "- 口コミはありません")
	}

	return fmt.Sprintf(`以下の会話の流れをふまえて、ユーザーに「%s」をおすすめする理由を日本語で説明してください。
口コミの内容を根拠にし、3〜5文程度にまとめてください。

【スポット】
名前: %s
評価: %.1f（%d件の口コミ）

【口コミ】
%s

【直近の会話】
%s`,
		reviews.PlaceName,
		reviews.PlaceName,
		reviews.OverallRating,
		reviews.TotalReviews,
		strings.Join(reviewLines, "\n"),
		formatHistory(recent))
}
