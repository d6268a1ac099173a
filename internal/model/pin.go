package model

import "time"

// PinnedResult はユーザーが定選（ピン）した検索結果を表す。
// (lineid, info, url) の組はユーザーごとに高々1件。
type PinnedResult struct {
	ID        string
	LineID    string
	Info      string
	URL       string
	CreatedAt time.Time
}

// PinResult はピン操作の結果を表す。
type PinResult int

const (
	// PinCreated は新規にピンが作成されたことを示す。
	PinCreated PinResult = iota
	// PinAlreadyExists は同一の組が既にピン済みであることを示す。
	// 冪等な操作の定常結果であり、エラーではない。
	PinAlreadyExists
)
