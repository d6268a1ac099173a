package model

// Message はLINEボットが収集したメッセージレコードを表す。
// このシステムからは読み取り専用で、書き込みは外部のボットが行う。
type Message struct {
	Category  string
	Date      string
	Event     string
	Notes     string
	Location  string
	GroupID   *string
	GroupName *string
}

// Group はユーザーがメッセージを持つグループを表す。
type Group struct {
	GroupID   string
	GroupName string
}
