// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/notepin/internal/model"
)

// UserRepository はユーザーディレクトリの永続化インターフェース。
type UserRepository interface {
	// EnsureUser はline_idとnameのユーザーを登録する。
	// 同じline_idが既に存在する場合はUserAlreadyExistsを返す（エラーではない）。
	EnsureUser(ctx context.Context, lineID, name string) (model.UserInsertResult, error)

	// FindByLineID は指定line_idのユーザーを取得する。見つからない場合はnilを返す。
	FindByLineID(ctx context.Context, lineID string) (*model.User, error)
}

// PinRepository は定選（ピン）データの永続化インターフェース。
type PinRepository interface {
	// IsPinned は(lineid, info, url)の組がピン済みかを返す。
	IsPinned(ctx context.Context, lineID, info, url string) (bool, error)

	// Pin は(lineid, info, url)の組を保存する。
	// 既に存在する場合はPinAlreadyExistsを返す（冪等、エラーではない）。
	// 事前チェックと挿入の競合は挿入時の一意制約違反の捕捉で解決する。
	Pin(ctx context.Context, lineID, info, url string) (model.PinResult, error)

	// Unpin は一致する行を削除する。存在しない行の削除も成功として扱う（冪等）。
	Unpin(ctx context.Context, lineID, info, url string) error

	// ListByUser はユーザーの全ピンを返す。順序は保証しない。
	ListByUser(ctx context.Context, lineID string) ([]model.PinnedResult, error)
}

// MessageRepository はLINEボットメッセージの読み取り専用インターフェース。
// 書き込みは外部のボットが行うため、作成・更新・削除は提供しない。
type MessageRepository interface {
	// ListByUser はユーザーのメッセージを返す。
	// groupIDが非nilの場合はそのグループのメッセージに絞り込む。
	ListByUser(ctx context.Context, lineID string, groupID *string) ([]model.Message, error)

	// ListGroups はユーザーがメッセージを持つ(group_id, group_name)の
	// 重複を除いた一覧を返す。group_idがNULLのメッセージは含めない。
	ListGroups(ctx context.Context, lineID string) ([]model.Group, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
