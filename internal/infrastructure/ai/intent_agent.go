package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// geminiIntentRepository はGeminiでスポット検索かどうかを二値分類する
type geminiIntentRepository struct {
	client *GeminiClient
}

// NewGeminiIntentRepository は新しいgeminiIntentRepositoryインスタンスを作成
func NewGeminiIntentRepository(client *GeminiClient) repository.IntentClassificationRepository {
	return &geminiIntentRepository{client: client}
}

const intentInstruction = `あなたは旅行計画アシスタントの意図分類器です。
ユーザーの発言が「観光スポット・飲食店・体験などを探したい／おすすめしてほしい」という依頼かどうかを判定してください。
雑談、質問、お礼、計画の相談のみの場合はスポット検索ではありません。`

var spotSearchClassificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isSpotSearch": {Type: genai.TypeBoolean, Description: "スポット検索の依頼かどうか"},
		"confidence":   {Type: genai.TypeNumber, Description: "判定の確信度（0から1）"},
		"reason":       {Type: genai.TypeString, Description: "判定理由"},
	},
	Required: []string{"isSpotSearch", "confidence", "reason"},
}

// ClassifySpotSearch は発言がスポット検索の依頼かどうかを判定する
func (r *geminiIntentRepository) ClassifySpotSearch(ctx context.Context, utterance string) (*model.SpotSearchClassification, error) {
	prompt := fmt.Sprintf("ユーザーの発言:\n%s", utterance)

	var result model.SpotSearchClassification
	if err := r.client.GenerateJSON(ctx, intentInstruction, userPrompt(prompt), spotSearchClassificationSchema, &result); err != nil {
		return nil, fmt.Errorf("意図分類に失敗: %w", err)
	}

	result.Confidence = clamp01(result.Confidence)
	return &result, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
