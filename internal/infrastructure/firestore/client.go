package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// defaultCredentialsFile はローカル環境で使う認証ファイル
const defaultCredentialsFile = "tripplanner-firestore-key.json"

// authMode はFirestoreへの接続方法
type authMode string

const (
	authModeEmulator        authMode = "emulator"
	authModeDefault         authMode = "default"
	authModeCredentialsFile authMode = "credentials_file"
)

// lookupEnv は環境変数の取得（テストで差し替える）
type lookupEnv func(key string) string

// fileExists はファイルの存在確認（テストで差し替える）
type fileExists func(path string) bool

// resolveAuth は実行環境から接続方法と認証ファイルを決める
// エミュレータ > Cloud Run > 認証ファイル > デフォルト認証 の順で判定する
func resolveAuth(getenv lookupEnv, exists fileExists) (authMode, string) {
	if getenv("FIRESTORE_EMULATOR_HOST") != "" {
		return authModeEmulator, ""
	}
	if getenv("K_SERVICE") != "" {
		return authModeDefault, ""
	}
	credentialsFile := getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile == "" {
		credentialsFile = defaultCredentialsFile
	}
	if exists(credentialsFile) {
		return authModeCredentialsFile, credentialsFile
	}
	return authModeDefault, ""
}

func osFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FirestoreClient はルート保存に使うFirestoreクライアント
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient は実行環境に応じた認証でクライアントを作成する
func NewFirestoreClient(ctx context.Context, projectID string, logger *slog.Logger) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_IDが設定されていません")
	}

	mode, credentialsFile := resolveAuth(os.Getenv, osFileExists)

	var opts []option.ClientOption
	switch mode {
	case authModeEmulator:
		// SDKがFIRESTORE_EMULATOR_HOSTを参照して接続する
		logger.Info("🧪 Firestoreエミュレータに接続", slog.String("host", os.Getenv("FIRESTORE_EMULATOR_HOST")))
	case authModeCredentialsFile:
		logger.Info("📄 認証ファイルを使用", slog.String("file", credentialsFile))
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		logger.Info("☁️ デフォルト認証を使用")
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの作成に失敗 (mode=%s): %w", mode, err)
	}

	logger.Info("✅ Firestoreクライアントを初期化しました", slog.String("project_id", projectID), slog.String("mode", string(mode)))
	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
