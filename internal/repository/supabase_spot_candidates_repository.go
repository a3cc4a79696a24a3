package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
)

// SupabaseSpotCandidatesRepository Supabase(PostgREST)からスポット候補を取得する
type SupabaseSpotCandidatesRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseSpotCandidatesRepository(client *database.SupabaseClient) repository.SpotCandidatesRepository {
	return &SupabaseSpotCandidatesRepository{
		client: client,
	}
}

// FindCandidates キーワードが名前か説明に含まれるスポットを取得する（キーワードなしなら全件）
func (r *SupabaseSpotCandidatesRepository) FindCandidates(ctx context.Context, keywords []string, limit int) ([]model.SpotCandidate, error) {
	query := r.client.GetClient().From(database.SpotsTable).Select("*", "exact", false)
	if filter := buildKeywordFilter(keywords); filter != "" {
		query = query.Or(filter, "")
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("スポット候補の取得失敗: %w", err)
	}
	_ = count

	var rows []spotRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("スポットデータのJSONアンマーシャル失敗: %w", err)
	}

	return rowsToCandidates(rows, limit), nil
}

// buildKeywordFilter PostgRESTのor条件を作成する
// 例: name.ilike.*海*,description.ilike.*海*
func buildKeywordFilter(keywords []string) string {
	var conditions []string
	for _, k := range keywords {
		k = sanitizeKeyword(k)
		if k == "" {
			continue
		}
		conditions = append(conditions,
			fmt.Sprintf("name.ilike.*%s*", k),
			fmt.Sprintf("description.ilike.*%s*", k))
	}
	return strings.Join(conditions, ",")
}
