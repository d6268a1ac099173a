package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/notepin/internal/middleware"
	"github.com/hitoshi/notepin/internal/model"
)

// SearchServiceInterface は検索ハンドラーが必要とするサービスインターフェース。
type SearchServiceInterface interface {
	Search(ctx context.Context, query string) ([]model.SearchMatch, error)
}

// SearchHandler はベクトル検索のHTTPハンドラー。
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequest は検索リクエストのボディ。
type searchRequest struct {
	Query string `json:"query"`
}

// Search は自然言語クエリでベクトル検索を実行し、近傍上位の結果を返す。
// 空のクエリは外部APIを呼ばずに400を返す。
// POST /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteServiceError(w, model.NewEmptyQueryError())
		return
	}

	matches, err := h.service.Search(r.Context(), req.Query)
	if err != nil {
		var reqErr *model.RequestError
		if !errors.As(err, &reqErr) {
			slog.Error("search failed",
				slog.String("line_id", session.LineID),
				slog.String("error", err.Error()),
			)
		}
		middleware.WriteServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"results": matches,
	})
}
