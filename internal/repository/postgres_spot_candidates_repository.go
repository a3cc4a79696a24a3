package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/infrastructure/database"
)

type PostgresSpotCandidatesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresSpotCandidatesRepository(client *database.PostgreSQLClient) repository.SpotCandidatesRepository {
	return &PostgresSpotCandidatesRepository{
		client: client,
	}
}

const findCandidatesQuery = `
SELECT id, name, COALESCE(description, ''), COALESCE(categories::text, '[]'), ST_AsGeoJSON(location),
       COALESCE(business_hours::text, '{}'), COALESCE(congestion::text, '[]'), COALESCE(price, 0), COALESCE(rating, 0),
       google_map_image_url, website_url
FROM spots
WHERE COALESCE(cardinality($1::text[]), 0) = 0
   OR name ILIKE ANY($1::text[])
   OR description ILIKE ANY($1::text[])
ORDER BY rating DESC NULLS LAST
LIMIT $2`

// spotResult SQLの結果を受け取るための構造体
type spotResult struct {
	ID                string
	Name              string
	Description       string
	Categories        string
	Location          string
	BusinessHours     string
	Congestion        string
	Price             float64
	Rating            float64
	GoogleMapImageURL sql.NullString
	WebsiteURL        sql.NullString
}

// toRow JSONB列をパースしてspotRowに変換
func (sr *spotResult) toRow() (*spotRow, error) {
	location, err := parseGeoJSON(sr.Location)
	if err != nil {
		return nil, err
	}

	row := &spotRow{
		ID:          sr.ID,
		Name:        sr.Name,
		Description: sr.Description,
		Location:    location,
		Price:       sr.Price,
		Rating:      sr.Rating,
	}
	if err := json.Unmarshal([]byte(sr.Categories), &row.Categories); err != nil {
		return nil, fmt.Errorf("categories JSONBパースエラー: %w", err)
	}
	if err := json.Unmarshal([]byte(sr.BusinessHours), &row.BusinessHours); err != nil {
		return nil, fmt.Errorf("business_hours JSONBパースエラー: %w", err)
	}
	if err := json.Unmarshal([]byte(sr.Congestion), &row.Congestion); err != nil {
		return nil, fmt.Errorf("congestion JSONBパースエラー: %w", err)
	}
	if sr.GoogleMapImageURL.Valid {
		row.GoogleMapImageURL = &sr.GoogleMapImageURL.String
	}
	if sr.WebsiteURL.Valid {
		row.WebsiteURL = &sr.WebsiteURL.String
	}
	return row, nil
}

func (r *PostgresSpotCandidatesRepository) FindCandidates(ctx context.Context, keywords []string, limit int) ([]model.SpotCandidate, error) {
	patterns := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = sanitizeKeyword(k); k != "" {
			patterns = append(patterns, "%"+k+"%")
		}
	}

	rows, err := r.client.DB.QueryContext(ctx, findCandidatesQuery, pq.Array(patterns), limit)
	if err != nil {
		return nil, fmt.Errorf("スポット候補のクエリ実行エラー: %w", err)
	}
	defer rows.Close()

	var results []spotRow
	for rows.Next() {
		var sr spotResult
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.Description, &sr.Categories, &sr.Location,
			&sr.BusinessHours, &sr.Congestion, &sr.Price, &sr.Rating, &sr.GoogleMapImageURL, &sr.WebsiteURL); err != nil {
			return nil, fmt.Errorf("スポット行のスキャンエラー: %w", err)
		}
		row, err := sr.toRow()
		if err != nil {
			return nil, fmt.Errorf("スポット %s の変換エラー: %w", sr.ID, err)
		}
		results = append(results, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スポット候補の読み込みエラー: %w", err)
	}

	return rowsToCandidates(results, limit), nil
}
