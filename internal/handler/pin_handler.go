package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/notepin/internal/middleware"
	"github.com/hitoshi/notepin/internal/model"
)

var validate = validator.New()

// PinStore はピンハンドラーが必要とする永続化インターフェース。
type PinStore interface {
	IsPinned(ctx context.Context, lineID, info, url string) (bool, error)
	Pin(ctx context.Context, lineID, info, url string) (model.PinResult, error)
	Unpin(ctx context.Context, lineID, info, url string) error
	ListByUser(ctx context.Context, lineID string) ([]model.PinnedResult, error)
}

// URLValidator はピン対象URLの検証インターフェース。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// TextSanitizer はピン対象テキストのサニタイズインターフェース。
type TextSanitizer interface {
	Sanitize(text string) string
}

// PinMetricsRecorder はピン作成のメトリクス収集インターフェース。
type PinMetricsRecorder interface {
	RecordPinCreated()
}

// PinHandler は検索結果のピン留め関連のHTTPハンドラー。
type PinHandler struct {
	store     PinStore
	guard     URLValidator
	sanitizer TextSanitizer
	metrics   PinMetricsRecorder
}

// NewPinHandler はPinHandlerを生成する。metricsはnilでもよい。
func NewPinHandler(store PinStore, guard URLValidator, sanitizer TextSanitizer, metrics PinMetricsRecorder) *PinHandler {
	return &PinHandler{
		store:     store,
		guard:     guard,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// pinRequest はピン操作のリクエストボディ。
type pinRequest struct {
	Info string `json:"info" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

// decodePinRequest はリクエストボディをデコードし、前後の空白を除去して検証する。
// info/urlのどちらかが欠けている場合はRequestErrorを返す。
func decodePinRequest(r *http.Request) (*pinRequest, error) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, model.NewMissingPinFieldsError()
	}

	req.Info = strings.TrimSpace(req.Info)
	req.URL = strings.TrimSpace(req.URL)

	if err := validate.Struct(&req); err != nil {
		return nil, model.NewMissingPinFieldsError()
	}

	return &req, nil
}

// Pin は検索結果をピン留めする。同一内容の二重ピンは何も変更せず、
// 既にピン済みである旨のメッセージを返す。
// POST /pin
func (h *PinHandler) Pin(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, err := decodePinRequest(r)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	// 保存したURLは後でリンクとして表示するため、事前に検証する
	if err := h.guard.ValidateURL(req.URL); err != nil {
		var reqErr *model.RequestError
		if errors.As(err, &reqErr) {
			middleware.WriteServiceError(w, err)
		} else {
			middleware.WriteServiceError(w, model.NewInvalidPinURLError(err.Error()))
		}
		return
	}

	info := h.sanitizer.Sanitize(req.Info)

	result, err := h.store.Pin(r.Context(), session.LineID, info, req.URL)
	if err != nil {
		slog.Error("failed to pin",
			slog.String("line_id", session.LineID),
			slog.String("error", err.Error()),
		)
		middleware.WriteServiceError(w, err)
		return
	}

	if result == model.PinAlreadyExists {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "此資料已釘選過",
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPinCreated()
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "已成功儲存搜尋結果",
	})
}

// Unpin はピンを解除する。存在しないピンの解除も成功として扱う（冪等）。
// POST /unpin
func (h *PinHandler) Unpin(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, err := decodePinRequest(r)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	info := h.sanitizer.Sanitize(req.Info)

	if err := h.store.Unpin(r.Context(), session.LineID, info, req.URL); err != nil {
		slog.Error("failed to unpin",
			slog.String("line_id", session.LineID),
			slog.String("error", err.Error()),
		)
		middleware.WriteServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "已成功移除釘選資料",
	})
}

// GetPinned はログインユーザーのピン一覧を返す。
// GET /get_pinned
func (h *PinHandler) GetPinned(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pins, err := h.store.ListByUser(r.Context(), session.LineID)
	if err != nil {
		slog.Error("failed to list pins",
			slog.String("line_id", session.LineID),
			slog.String("error", err.Error()),
		)
		middleware.WriteServiceError(w, err)
		return
	}

	type pinnedItem struct {
		Info string `json:"info"`
		URL  string `json:"url"`
	}

	items := make([]pinnedItem, 0, len(pins))
	for _, p := range pins {
		items = append(items, pinnedItem{Info: p.Info, URL: p.URL})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"pinned": items,
	})
}

// CheckPinned は指定された内容がピン済みかどうかを返す。
// POST /check_pinned
func (h *PinHandler) CheckPinned(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, err := decodePinRequest(r)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}

	info := h.sanitizer.Sanitize(req.Info)

	exists, err := h.store.IsPinned(r.Context(), session.LineID, info, req.URL)
	if err != nil {
		slog.Error("failed to check pin",
			slog.String("line_id", session.LineID),
			slog.String("error", err.Error()),
		)
		middleware.WriteServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]bool{
		"exists": exists,
	})
}
