package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"TripPlanner-App/internal/domain/helper"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

// minCandidates を下回った場合はキーワードなしで候補を取り直す
const minCandidates = 5

// geminiSpotSearchRepository はDBの候補スポットからGeminiでおすすめを選ぶ
type geminiSpotSearchRepository struct {
	client         *GeminiClient
	candidates     repository.SpotCandidatesRepository
	candidateLimit int
	logger         *slog.Logger
}

// NewGeminiSpotSearchRepository は新しいgeminiSpotSearchRepositoryインスタンスを作成
func NewGeminiSpotSearchRepository(client *GeminiClient, candidates repository.SpotCandidatesRepository, candidateLimit int, logger *slog.Logger) repository.SpotSearchRepository {
	return &geminiSpotSearchRepository{
		client:         client,
		candidates:     candidates,
		candidateLimit: candidateLimit,
		logger:         logger,
	}
}

type keywordExtraction struct {
	Keywords []string `json:"keywords"`
}

var keywordSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"keywords": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"keywords"},
}

// spotSelection はGeminiが返すスポットの選択結果
type spotSelection struct {
	RecommendSpots []struct {
		TimeSlot string `json:"time_slot"`
		Spots    []struct {
			SpotID               string `json:"spot_id"`
			RecommendationReason string `json:"recommendation_reason"`
		} `json:"spots"`
	} `json:"recommend_spots"`
}

var spotSelectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommend_spots": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"time_slot": {
						Type: genai.TypeString,
						Enum: []string{string(model.TimeSlotMorning), string(model.TimeSlotAfternoon), string(model.TimeSlotNight)},
					},
					"spots": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"spot_id":               {Type: genai.TypeString},
								"recommendation_reason": {Type: genai.TypeString},
							},
							Required: []string{"spot_id", "recommendation_reason"},
						},
					},
				},
				Required: []string{"time_slot", "spots"},
			},
		},
	},
	Required: []string{"recommend_spots"},
}

// SearchSpots はチャット履歴と現在のおすすめから新しいおすすめスポット集合を作成する
func (r *geminiSpotSearchRepository) SearchSpots(ctx context.Context, history []model.ChatMessage, prior *model.RecommendedSpots, planID string) (*model.RecommendedSpots, error) {
	keywords, err := r.extractKeywords(ctx, history)
	if err != nil {
		// キーワードがなくても候補の取得は可能
		r.logger.Warn("⚠️ キーワード抽出に失敗", slog.String("plan_id", planID), slog.Any("error", err))
	}

	candidates, err := r.candidates.FindCandidates(ctx, keywords, r.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("候補スポットの取得に失敗: %w", err)
	}
	if len(candidates) < minCandidates && len(keywords) > 0 {
		candidates, err = r.candidates.FindCandidates(ctx, nil, r.candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("候補スポットの取得に失敗: %w", err)
		}
	}
	if len(candidates) == 0 && prior.SpotCount() == 0 {
		return nil, fmt.Errorf("候補スポットが見つかりません")
	}

	r.logger.Info("🔎 候補スポットを取得",
		slog.String("plan_id", planID),
		slog.Any("keywords", keywords),
		slog.Int("candidates", len(candidates)))

	var selection spotSelection
	prompt := buildSpotSearchPrompt(history, prior, candidates)
	if err := r.client.GenerateJSON(ctx, spotSearchInstruction, userPrompt(prompt), spotSelectionSchema, &selection); err != nil {
		return nil, fmt.Errorf("スポットの選定に失敗: %w", err)
	}

	return assembleRecommendedSpots(selection, prior, candidates), nil
}

// extractKeywords は会話からスポット検索用のキーワードを抽出する
func (r *geminiSpotSearchRepository) extractKeywords(ctx context.Context, history []model.ChatMessage) ([]string, error) {
	prompt := fmt.Sprintf(`以下の会話から、ユーザーが探している観光スポットの検索キーワード（地名・ジャンル・雰囲気など）を最大5個抽出してください。

%s`, formatHistory(history))

	var result keywordExtraction
	if err := r.client.GenerateJSON(ctx, "", userPrompt(prompt), keywordSchema, &result); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords, nil
}

const spotSearchInstruction = `あなたは旅行計画アシスタントです。
会話の内容に合うスポットを候補一覧から選び、午前・午後・夜の時間帯に分けて提案してください。
spot_id は必ず候補一覧または現在のおすすめにあるものを使い、同じ spot_id を複数回使わないでください。
現在のおすすめのうち、会話の内容に引き続き合うものは残してください。`

// buildSpotSearchPrompt はスポット選定用のプロンプトを構築
func buildSpotSearchPrompt(history []model.ChatMessage, prior *model.RecommendedSpots, candidates []model.SpotCandidate) string {
	candidateLines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		candidateLines = append(candidateLines, fmt.Sprintf("- spot_id: %s / 名前: %s / カテゴリ: %s / 説明: %s",
			c.ID, c.Name, strings.Join(c.Categories, "・"), c.Description))
	}

	var priorLines []string
	if prior != nil {
		for _, group := range prior.RecommendSpots {
			for _, spot := range group.Spots {
				priorLines = append(priorLines, fmt.Sprintf("- spot_id: %s / 名前: %s / 時間帯: %s",
					spot.SpotID, helper.SpotDisplayName(spot), group.TimeSlot))
			}
		}
	}
	if len(priorLines) == 0 {
		priorLines = append(priorLines, "（なし）")
	}

	return fmt.Sprintf(`【会話】
%s

【現在のおすすめ】
%s

【候補一覧】
%s`, formatHistory(history), strings.Join(priorLines, "\n"), strings.Join(candidateLines, "\n"))
}

// assembleRecommendedSpots はGeminiの選定結果を候補データと結合しておすすめスポット集合を作る
// 既存のおすすめに含まれるスポットは選択状態を含めてそのまま引き継ぎ、新しいスポットは未選択で作成する
func assembleRecommendedSpots(selection spotSelection, prior *model.RecommendedSpots, candidates []model.SpotCandidate) *model.RecommendedSpots {
	byID := make(map[string]model.SpotCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	bySlot := make(map[model.TimeSlot][]model.SpotItem)
	seen := make(map[string]struct{})
	for _, group := range selection.RecommendSpots {
		slot := model.TimeSlot(strings.TrimSpace(group.TimeSlot))
		if !slot.IsValid() {
			continue
		}
		for _, chosen := range group.Spots {
			id := strings.TrimSpace(chosen.SpotID)
			if _, dup := seen[id]; dup || id == "" {
				continue
			}

			var item model.SpotItem
			if existing, _, ok := prior.FindSpot(id); ok {
				item = existing.Clone()
			} else if c, ok := byID[id]; ok {
				item = candidateToSpotItem(c, chosen.RecommendationReason)
			} else {
				continue
			}
			seen[id] = struct{}{}
			bySlot[slot] = append(bySlot[slot], item)
		}
	}

	recommendID := uuid.New().String()
	if prior != nil && prior.RecommendSpotID != "" {
		recommendID = prior.RecommendSpotID
	}

	result := &model.RecommendedSpots{
		RecommendSpotID: recommendID,
		RecommendSpots:  []model.TimeSlotGroup{},
	}
	for _, slot := range model.TimeSlots() {
		if spots := bySlot[slot]; len(spots) > 0 {
			result.RecommendSpots = append(result.RecommendSpots, model.TimeSlotGroup{TimeSlot: slot, Spots: spots})
		}
	}
	return result
}

// candidateToSpotItem は候補スポットから未選択のSpotItemを作成する
func candidateToSpotItem(c model.SpotCandidate, reason string) model.SpotItem {
	hours := make(map[string]model.BusinessHour, len(model.BusinessDays()))
	for _, day := range model.BusinessDays() {
		hours[day] = c.BusinessHours[day]
	}
	congestion := c.Congestion
	if congestion == nil {
		congestion = []float64{}
	}

	return model.SpotItem{
		SpotID:               c.ID,
		Latitude:             c.Latitude,
		Longitude:            c.Longitude,
		RecommendationReason: strings.TrimSpace(reason),
		Selected:             false,
		Details: model.SpotDetails{
			Name:          c.Name,
			BusinessHours: hours,
			Congestion:    congestion,
			Price:         c.Price,
		},
		GoogleMapImageURL: c.GoogleMapImageURL,
		WebsiteURL:        c.WebsiteURL,
	}
}
