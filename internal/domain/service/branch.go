package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"TripPlanner-App/internal/domain/model"
)

// DefaultCollaboratorTimeout は外部呼び出し1回あたりの既定のタイムアウト
const DefaultCollaboratorTimeout = 20 * time.Second

// Branch はターンごとに1つだけ実行される処理の分岐
// Execute はエラーを返さず、失敗時も定型メッセージを含む出力に正規化する
type Branch interface {
	Intent() model.Intent
	Execute(ctx context.Context, input *model.WorkflowInput) *model.WorkflowOutput
}

// WorkflowObserver はワークフローのメトリクスを記録する
type WorkflowObserver interface {
	ObserveTurn(intent model.Intent, duration time.Duration)
	ObserveFallback(intent model.Intent, reason string)
	ObserveCollaborator(name string, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveTurn(model.Intent, time.Duration)           {}
func (noopObserver) ObserveFallback(model.Intent, string)              {}
func (noopObserver) ObserveCollaborator(string, time.Duration, error) {}

// CollaboratorCaller は外部呼び出しにタイムアウトを設定し、結果を記録する
type CollaboratorCaller struct {
	timeout  time.Duration
	observer WorkflowObserver
	logger   *slog.Logger
}

// NewCollaboratorCaller は新しいCollaboratorCallerを作成
func NewCollaboratorCaller(timeout time.Duration, observer WorkflowObserver, logger *slog.Logger) *CollaboratorCaller {
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CollaboratorCaller{
		timeout:  timeout,
		observer: observer,
		logger:   logger,
	}
}

// Observer は記録先を返す
func (c *CollaboratorCaller) Observer() WorkflowObserver {
	return c.observer
}

// Logger はロガーを返す
func (c *CollaboratorCaller) Logger() *slog.Logger {
	return c.logger
}

// callCollaborator はタイムアウト付きで外部呼び出しを行う
// 失敗・タイムアウトは ErrCollaboratorFailure でラップして返す
func callCollaborator[T any](ctx context.Context, c *CollaboratorCaller, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := fn(callCtx)
	c.observer.ObserveCollaborator(name, time.Since(start), err)

	if err != nil {
		var zero T
		return zero, fmt.Errorf("%sの呼び出しに失敗: %w: %w", name, model.ErrCollaboratorFailure, err)
	}
	return result, nil
}

// branchFailure は分岐内の失敗と、その代わりにユーザーへ返す定型メッセージ
type branchFailure struct {
	reason  string
	message string
	err     error
}

func (f *branchFailure) Error() string {
	if f.err == nil {
		return f.reason
	}
	return fmt.Sprintf("%s: %v", f.reason, f.err)
}

func (f *branchFailure) Unwrap() error {
	return f.err
}

func newBranchFailure(reason, message string, err error) *branchFailure {
	return &branchFailure{reason: reason, message: message, err: err}
}

// normalize は分岐の結果を必ず成功したWorkflowOutputに変換する
// 失敗時は定型メッセージと、渡されたおすすめスポットをそのまま返す
func (c *CollaboratorCaller) normalize(intent model.Intent, out *model.WorkflowOutput, err error, passthrough *model.RecommendedSpots) *model.WorkflowOutput {
	if err == nil {
		return out
	}

	var failure *branchFailure
	if !errors.As(err, &failure) {
		failure = newBranchFailure("unexpected", model.MessageChatFallback, err)
	}

	c.observer.ObserveFallback(intent, failure.reason)
	if errors.Is(err, model.ErrMalformedReference) {
		c.logger.Info("⚠️ 定型メッセージで応答", slog.String("intent", string(intent)), slog.String("reason", failure.reason))
	} else {
		c.logger.Error("❌ 分岐処理に失敗、定型メッセージで応答",
			slog.String("intent", string(intent)),
			slog.String("reason", failure.reason),
			slog.Any("error", failure.err))
	}

	return model.NewWorkflowOutput(failure.message, passthrough)
}
