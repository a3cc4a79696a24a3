package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"TripPlanner-App/internal/domain/model"
)

// DefaultGeminiModel は既定で使用するモデル
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator はGemini APIの呼び出し部分（テストで差し替え可能）
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient はGemini APIとの通信を担当するクライアント
type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient は新しいGeminiClientインスタンスを作成
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗: %w", err)
	}

	return &GeminiClient{
		models: client.Models,
		model:  modelName,
	}, nil
}

// GenerateText はシステム指示と会話からテキストを生成する
func (c *GeminiClient) GenerateText(ctx context.Context, instruction string, contents []*genai.Content) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	if instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini API呼び出しエラー: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}
	return strings.TrimSpace(resp.Text()), nil
}

// GenerateJSON はレスポンススキーマを指定して構造化データを生成し、out にデコードする
func (c *GeminiClient) GenerateJSON(ctx context.Context, instruction string, contents []*genai.Content, schema *genai.Schema, out any) error {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return fmt.Errorf("Gemini API呼び出しエラー: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("有効なレスポンスが生成されませんでした")
	}

	raw := cleanJSONResponse(resp.Text())
	if raw == "" {
		return fmt.Errorf("有効なレスポンスが生成されませんでした")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}
	return nil
}

// cleanJSONResponse はコードフェンスなどを取り除いてJSON部分だけを返す
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// toContents はチャット履歴をGeminiの会話形式に変換する
func toContents(messages []model.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if m.Role == model.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// formatHistory はチャット履歴をプロンプトに埋め込むための文字列に変換する
func formatHistory(messages []model.ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "ユーザー"
		if m.Role == model.ChatRoleAssistant {
			speaker = "アシスタント"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Content))
	}
	return strings.Join(lines, "\n")
}

// userPrompt は単一のユーザー発話として送るプロンプトを作成する
func userPrompt(prompt string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
}
