package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/notepin/internal/model"
)

// WriteError は {"error": message} 形式でHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSON はJSONレスポンスを書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteServiceError はサービス層のエラーをHTTPレスポンスへ変換する。
// model.RequestErrorはそのステータスとメッセージを、それ以外は500として
// 基底のエラーメッセージをそのまま返す。
func WriteServiceError(w http.ResponseWriter, err error) {
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		WriteError(w, reqErr.Status, reqErr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}
