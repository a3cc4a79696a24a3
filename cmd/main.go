package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"TripPlanner-App/internal/config"
	"TripPlanner-App/internal/domain/repository"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/handler"
	"TripPlanner-App/internal/infrastructure/ai"
	"TripPlanner-App/internal/infrastructure/database"
	"TripPlanner-App/internal/infrastructure/firestore"
	"TripPlanner-App/internal/infrastructure/maps"
	"TripPlanner-App/internal/infrastructure/metrics"
	"TripPlanner-App/internal/logger"
	repoimpl "TripPlanner-App/internal/repository"
	"TripPlanner-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("❌ 設定の読み込みに失敗", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level)
	slog.SetDefault(log)
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("❌ サーバーが異常終了しました", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics, err := metrics.NewWorkflowMetrics(registry)
	if err != nil {
		return err
	}

	// Gemini
	log.Info("🤖 Geminiクライアントを初期化中...", slog.String("model", cfg.Gemini.Model))
	geminiClient, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	// スポット候補の取得元
	candidates, closeCandidates, err := newSpotCandidates(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCandidates()

	// Firestore（プロジェクトIDが設定されている場合のみ）
	var routePlans repository.RoutePlanRepository
	if cfg.Firestore.ProjectID != "" {
		firestoreClient, err := firestore.NewFirestoreClient(ctx, cfg.Firestore.ProjectID, log)
		if err != nil {
			return err
		}
		defer firestoreClient.Close()
		routePlans = repoimpl.NewFirestoreRoutePlanRepository(firestoreClient.GetClient(), log)
	} else {
		log.Warn("⚠️ FIRESTORE_PROJECT_IDが未設定のため、ルートは保存されません")
	}

	// リポジトリ・プロバイダ
	store := repoimpl.NewMemoryRecommendationStore(cfg.Workflow.SessionTTL, log)
	directions := maps.NewGoogleDirectionsProvider(cfg.Maps.APIKey, cfg.Maps.TravelMode)
	routing := maps.NewGoogleRoutingProvider(store, directions, routePlans, cfg.Firestore.RouteTTLHour, log)
	reviews := maps.NewGooglePlacesReviewsProvider(cfg.Maps.APIKey, cfg.Workflow.ReviewsCacheTTL, log)
	spotSearch := ai.NewGeminiSpotSearchRepository(geminiClient, candidates, cfg.Spots.CandidateLimit, log)

	// ワークフロー
	caller := service.NewCollaboratorCaller(cfg.Workflow.CollaboratorTimeout, workflowMetrics, log)
	classifier := service.NewIntentClassifier(ai.NewGeminiIntentRepository(geminiClient), caller)
	workflowUseCase, err := usecase.NewRecommendationWorkflowUseCase(classifier, caller,
		service.NewSpotSearchBranch(store, spotSearch, ai.NewGeminiSummaryRepository(geminiClient), caller),
		service.NewGeneralChatBranch(store, ai.NewGeminiChatRepository(geminiClient), caller),
		service.NewSpotDetailBranch(reviews, ai.NewGeminiExplanationRepository(geminiClient), caller),
		service.NewRouteCreationBranch(store, routing, caller),
	)
	if err != nil {
		return err
	}
	selectionUseCase := usecase.NewSpotSelectionUseCase(store, routePlans, log)

	// HTTPサーバー
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	handler.RegisterRoutes(r,
		handler.NewWorkflowHandler(workflowUseCase),
		handler.NewSpotSelectionHandler(selectionUseCase),
		registry,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 TripPlanner-App server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 シャットダウン中...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSpotCandidates は設定に応じてSupabaseかPostgreSQLの候補リポジトリを作成する
func newSpotCandidates(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.SpotCandidatesRepository, func(), error) {
	switch cfg.Spots.Source {
	case config.SpotSourcePostgres:
		connStr, err := database.BuildSupabaseConnString(cfg.Supabase.URL, cfg.Supabase.DBPassword)
		if err != nil {
			return nil, nil, err
		}
		client, err := database.NewPostgreSQLClientWithRetry(ctx, connStr, 3, 2*time.Second, log)
		if err != nil {
			return nil, nil, err
		}
		return repoimpl.NewPostgresSpotCandidatesRepository(client), func() { _ = client.Close() }, nil
	default:
		client, err := database.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if err != nil {
			return nil, nil, err
		}
		if err := client.HealthCheck(); err != nil {
			log.Warn("⚠️ Supabaseヘルスチェック失敗", slog.Any("error", err))
		} else {
			log.Info("✅ Supabaseに接続しました", slog.String("url", client.URL()))
		}
		return repoimpl.NewSupabaseSpotCandidatesRepository(client), func() {}, nil
	}
}
