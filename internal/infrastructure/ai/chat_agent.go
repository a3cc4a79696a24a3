package ai

import (
	"context"
	"fmt"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// geminiChatRepository はGeminiで通常の会話に応答する
type geminiChatRepository struct {
	client *GeminiClient
}

// NewGeminiChatRepository は新しいgeminiChatRepositoryインスタンスを作成
func NewGeminiChatRepository(client *GeminiClient) repository.ChatResponseRepository {
	return &geminiChatRepository{client: client}
}

const chatInstruction = `あなたは親しみやすい旅行計画アシスタントです。
日本語で、簡潔かつ丁寧に応答してください。
スポットを探したい場合は「〇〇な場所を探して」のように話しかけるとおすすめを提案できることを、必要に応じて案内してください。`

// Respond はチャット履歴全体をもとに応答を生成する
func (r *geminiChatRepository) Respond(ctx context.Context, history []model.ChatMessage) (string, error) {
	contents := toContents(history)
	if len(contents) == 0 {
		return "", fmt.Errorf("会話履歴が空です")
	}

	reply, err := r.client.GenerateText(ctx, chatInstruction, contents)
	if err != nil {
		return "", fmt.Errorf("会話応答の生成に失敗: %w", err)
	}
	return reply, nil
}
