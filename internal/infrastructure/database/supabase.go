package database

import (
	"errors"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SpotsTable はスポット候補を保持するテーブル名
const SpotsTable = "spots"

// SupabaseClient はPostgREST経由でスポット候補を読むためのクライアント
type SupabaseClient struct {
	client *supabase.Client
	url    string
}

// NewSupabaseClient は匿名キーでSupabaseに接続する
func NewSupabaseClient(supabaseURL, anonKey string) (*SupabaseClient, error) {
	var missing []string
	if supabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if anonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Supabaseの設定が不足しています: %v", missing)
	}

	client, err := supabase.NewClient(supabaseURL, anonKey, &supabase.ClientOptions{Schema: "public"})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}
	return &SupabaseClient{client: client, url: supabaseURL}, nil
}

// GetClient は内部のSupabaseクライアントを返す
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.client
}

// HealthCheck はspotsテーブルに件数だけを問い合わせて疎通を確認する
func (sc *SupabaseClient) HealthCheck() error {
	if sc == nil || sc.client == nil {
		return errors.New("Supabaseクライアントが初期化されていません")
	}
	if _, _, err := sc.client.From(SpotsTable).Select("id", "exact", true).Execute(); err != nil {
		return fmt.Errorf("%sテーブルへの問い合わせに失敗: %w", SpotsTable, err)
	}
	return nil
}

func (sc *SupabaseClient) URL() string {
	return sc.url
}
