package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定
type Config struct {
	Server struct {
		Port    string `mapstructure:"port"`
		GinMode string `mapstructure:"gin_mode"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`
	Maps struct {
		APIKey     string `mapstructure:"api_key"`
		TravelMode string `mapstructure:"travel_mode"`
	} `mapstructure:"maps"`
	Firestore struct {
		ProjectID    string `mapstructure:"project_id"`
		RouteTTLHour int    `mapstructure:"route_ttl_hours"`
	} `mapstructure:"firestore"`
	Supabase struct {
		URL        string `mapstructure:"url"`
		AnonKey    string `mapstructure:"anon_key"`
		DBPassword string `mapstructure:"db_password"`
	} `mapstructure:"supabase"`
	Spots struct {
		Source         string `mapstructure:"source"`
		CandidateLimit int    `mapstructure:"candidate_limit"`
	} `mapstructure:"spots"`
	Workflow struct {
		CollaboratorTimeout time.Duration `mapstructure:"collaborator_timeout"`
		SessionTTL          time.Duration `mapstructure:"session_ttl"`
		ReviewsCacheTTL     time.Duration `mapstructure:"reviews_cache_ttl"`
	} `mapstructure:"workflow"`
}

// スポット候補の取得元
const (
	SpotSourceSupabase = "supabase"
	SpotSourcePostgres = "postgres"
)

// envBindings は設定キーと環境変数の対応
var envBindings = map[string]string{
	"server.port":                   "PORT",
	"server.gin_mode":               "GIN_MODE",
	"log.level":                     "LOG_LEVEL",
	"gemini.api_key":                "GEMINI_API_KEY",
	"gemini.model":                  "GEMINI_MODEL",
	"maps.api_key":                  "GOOGLE_MAPS_API_KEY",
	"maps.travel_mode":              "MAPS_TRAVEL_MODE",
	"firestore.project_id":          "FIRESTORE_PROJECT_ID",
	"firestore.route_ttl_hours":     "FIRESTORE_ROUTE_TTL_HOURS",
	"supabase.url":                  "SUPABASE_URL",
	"supabase.anon_key":             "SUPABASE_ANON_KEY",
	"supabase.db_password":          "SUPABASE_DB_PASSWORD",
	"spots.source":                  "SPOTS_SOURCE",
	"spots.candidate_limit":         "SPOTS_CANDIDATE_LIMIT",
	"workflow.collaborator_timeout": "WORKFLOW_COLLABORATOR_TIMEOUT",
	"workflow.session_ttl":          "WORKFLOW_SESSION_TTL",
	"workflow.reviews_cache_ttl":    "WORKFLOW_REVIEWS_CACHE_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("maps.travel_mode", "driving")
	v.SetDefault("firestore.route_ttl_hours", 24)
	v.SetDefault("spots.source", SpotSourceSupabase)
	v.SetDefault("spots.candidate_limit", 60)
	v.SetDefault("workflow.collaborator_timeout", 20*time.Second)
	v.SetDefault("workflow.session_ttl", 6*time.Hour)
	v.SetDefault("workflow.reviews_cache_ttl", 12*time.Hour)
}

// Load は .env と環境変数から設定を読み込む
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("⚠️ .envファイルが見つかりません。システムの環境変数を使用します")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("環境変数のバインドに失敗 (%s): %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は必須の設定が揃っているかをチェックする
func (c *Config) Validate() error {
	var missing []string
	if c.Gemini.APIKey == "" {
		missing = append(missing, envBindings["gemini.api_key"])
	}
	if c.Maps.APIKey == "" {
		missing = append(missing, envBindings["maps.api_key"])
	}
	switch c.Spots.Source {
	case SpotSourceSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			missing = append(missing, envBindings["supabase.url"], envBindings["supabase.anon_key"])
		}
	case SpotSourcePostgres:
		if c.Supabase.URL == "" || c.Supabase.DBPassword == "" {
			missing = append(missing, envBindings["supabase.url"], envBindings["supabase.db_password"])
		}
	default:
		return fmt.Errorf("SPOTS_SOURCEは'%s'または'%s'を指定してください: %s", SpotSourceSupabase, SpotSourcePostgres, c.Spots.Source)
	}
	if len(missing) > 0 {
		return fmt.Errorf("必要な環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if c.Workflow.CollaboratorTimeout <= 0 {
		return fmt.Errorf("WORKFLOW_COLLABORATOR_TIMEOUTは正の値を指定してください")
	}
	return nil
}
