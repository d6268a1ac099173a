// Package model はドメインモデルを定義する。
package model

import "time"

// User はLINE Loginで認証されたサービス利用ユーザーを表す。
// line_idは外部IdPのユーザー識別子で、作成後は不変。
type User struct {
	ID        string
	LineID    string
	Name      string
	CreatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// 認証済みユーザーのLINE IDと表示名を保持する。
type Session struct {
	ID        string
	LineID    string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserInsertResult はユーザー登録の結果を表す。
// 重複キー例外を制御フローに使わず、挿入か既存かを明示的に返す。
type UserInsertResult int

const (
	// UserInserted は新規ユーザーが作成されたことを示す。
	UserInserted UserInsertResult = iota
	// UserAlreadyExists は同じline_idのユーザーが既に存在することを示す。
	// 既存ユーザーの再ログインで発生する定常状態であり、エラーではない。
	UserAlreadyExists
)
