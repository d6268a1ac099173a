package model

import "fmt"

// RequestError はHTTPステータスと利用者向けメッセージを持つエラー。
// ハンドラー層で {"error": message} 形式のレスポンスに変換される。
type RequestError struct {
	Status  int
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *RequestError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// NewEmptyQueryError は空の検索クエリに対するエラーを生成する。
func NewEmptyQueryError() *RequestError {
	return &RequestError{Status: 400, Message: "請輸入搜尋內容"}
}

// NewMissingPinFieldsError はピン操作の必須フィールド欠落エラーを生成する。
func NewMissingPinFieldsError() *RequestError {
	return &RequestError{Status: 400, Message: "缺少必要的資料"}
}

// NewInvalidPinURLError は保存対象URLが不正な場合のエラーを生成する。
func NewInvalidPinURLError(reason string) *RequestError {
	return &RequestError{Status: 400, Message: fmt.Sprintf("無效的網址: %s", reason)}
}
