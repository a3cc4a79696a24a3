package model

import "errors"

var (
	// ErrInvalidInput はターンを中断する唯一の致命的エラー（空のメッセージなど）
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound は保持データやスポットが存在しない
	ErrNotFound = errors.New("not found")
	// ErrCollaboratorFailure は外部呼び出しの失敗またはタイムアウト
	ErrCollaboratorFailure = errors.New("collaborator failure")
	// ErrMalformedReference は place_id の参照が見つからない・解析できない
	ErrMalformedReference = errors.New("malformed place reference")
)
