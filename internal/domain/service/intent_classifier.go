package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// IntentClassifier は最新のユーザー発言から意図を判定する
type IntentClassifier struct {
	agent  repository.IntentClassificationRepository
	caller *CollaboratorCaller
}

// NewIntentClassifier は新しいIntentClassifierを作成
func NewIntentClassifier(agent repository.IntentClassificationRepository, caller *CollaboratorCaller) *IntentClassifier {
	return &IntentClassifier{
		agent:  agent,
		caller: caller,
	}
}

// IsRouteCreationTrigger はルート作成開始の定型文と一致するかを判定する
func IsRouteCreationTrigger(utterance string) bool {
	return strings.TrimSpace(utterance) == model.RouteCreationTrigger
}

// ClassifyDeterministic はLLMを使わずに判定できる意図を返す
// 判定できない場合は false を返す
func ClassifyDeterministic(utterance string) (model.Intent, bool) {
	if IsRouteCreationTrigger(utterance) {
		return model.IntentRouteCreationExecute, true
	}
	if helper.HasPlaceReference(utterance) {
		return model.IntentSpotDetail, true
	}
	return "", false
}

// latestUtterance は最新のユーザー発言を返す（ユーザー発言がなければ最後のメッセージ）
func latestUtterance(messages []model.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}
	if latest := model.LatestUserMessage(messages); latest != "" {
		return latest
	}
	return messages[len(messages)-1].Content
}

// Classify はメッセージ履歴から意図を判定する
// 優先順位: ルート作成の定型文 → place_id参照 → LLMによるスポット検索判定
func (c *IntentClassifier) Classify(ctx context.Context, messages []model.ChatMessage) (model.Intent, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("メッセージが空です: %w", model.ErrInvalidInput)
	}

	utterance := latestUtterance(messages)
	if intent, ok := ClassifyDeterministic(utterance); ok {
		c.caller.logger.Info("🧭 意図を判定", slog.String("intent", string(intent)), slog.String("method", "pattern"))
		return intent, nil
	}

	result, err := callCollaborator(ctx, c.caller, "intent_classifier", func(ctx context.Context) (*model.SpotSearchClassification, error) {
		return c.agent.ClassifySpotSearch(ctx, utterance)
	})
	if err != nil || result == nil {
		// 分類できなくてもターンは継続し、通常の会話として応答する
		c.caller.observer.ObserveFallback(model.IntentGeneralChat, "classification_failed")
		c.caller.logger.Warn("⚠️ 意図分類に失敗、通常会話として扱います", slog.Any("error", err))
		return model.IntentGeneralChat, nil
	}

	intent := model.IntentGeneralChat
	if result.IsSpotSearch {
		intent = model.IntentSpotSearch
	}

	// confidence は閾値判定に使わず記録のみ
	c.caller.logger.Info("🧭 意図を判定",
		slog.String("intent", string(intent)),
		slog.String("method", "llm"),
		slog.Float64("confidence", result.Confidence),
		slog.String("reason", result.Reason))

	return intent, nil
}
