package helper

import (
	"fmt"
	"regexp"
	"strings"

	"TripPlanner-App/internal/domain/model"
)

var (
	placeReferencePattern = regexp.MustCompile(`\(place_id:\s*([^)]*)\)`)
	timeSlotPrefixPattern = regexp.MustCompile(`^(午前|午後|夜)-`)
	numericSuffixPattern  = regexp.MustCompile(`-\d+$`)
)

// HasPlaceReference は発言に (place_id: <id>) 形式の参照が含まれているかを判定する
func HasPlaceReference(text string) bool {
	_, err := ExtractPlaceID(text)
	return err == nil
}

// ExtractPlaceID は (place_id: と対応する ) の間の生のIDを取り出す
func ExtractPlaceID(text string) (string, error) {
	match := placeReferencePattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return "", fmt.Errorf("place_idが含まれていません: %w", model.ErrMalformedReference)
	}
	id := strings.TrimSpace(match[1])
	if id == "" {
		return "", fmt.Errorf("place_idが空です: %w", model.ErrMalformedReference)
	}
	return id, nil
}

// NormalizePlaceID は先頭の時間帯プレフィックスと末尾の数字サフィックスを1つずつ取り除く
// 例: 午後-shibuya_sky_1-2 -> shibuya_sky_1
func NormalizePlaceID(rawID string) string {
	id := timeSlotPrefixPattern.ReplaceAllString(rawID, "")
	return numericSuffixPattern.ReplaceAllString(id, "")
}

// ResolvePlaceID は発言から正規化済みのplace_idを取得する
func ResolvePlaceID(text string) (string, error) {
	raw, err := ExtractPlaceID(text)
	if err != nil {
		return "", err
	}
	normalized := NormalizePlaceID(raw)
	if normalized == "" {
		return "", fmt.Errorf("place_idの正規化結果が空です (%s): %w", raw, model.ErrMalformedReference)
	}
	return normalized, nil
}
