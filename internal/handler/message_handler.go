package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/notepin/internal/middleware"
	"github.com/hitoshi/notepin/internal/model"
)

// MessageStore はメッセージハンドラーが必要とする永続化インターフェース。
type MessageStore interface {
	ListByUser(ctx context.Context, lineID string, groupID *string) ([]model.Message, error)
	ListGroups(ctx context.Context, lineID string) ([]model.Group, error)
}

// MessageHandler はメッセージ閲覧関連のHTTPハンドラー。
type MessageHandler struct {
	store MessageStore
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(store MessageStore) *MessageHandler {
	return &MessageHandler{store: store}
}

// List はログインユーザーのメッセージ一覧、またはグループ一覧を返す。
//
//	GET /api/messages                 個人メッセージ（group_idがNULLの行を含む全行）
//	GET /api/messages?group_id=xxx    指定グループのメッセージのみ
//	GET /api/messages?groups_only=true グループの重複なし一覧
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()

	if q.Get("groups_only") == "true" {
		groups, err := h.store.ListGroups(r.Context(), session.LineID)
		if err != nil {
			slog.Error("failed to list groups",
				slog.String("line_id", session.LineID),
				slog.String("error", err.Error()),
			)
			middleware.WriteServiceError(w, err)
			return
		}

		type groupItem struct {
			GroupID   string `json:"group_id"`
			GroupName string `json:"group_name"`
		}

		items := make([]groupItem, 0, len(groups))
		for _, g := range groups {
			items = append(items, groupItem{GroupID: g.GroupID, GroupName: g.GroupName})
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"groups": items,
		})
		return
	}

	var groupID *string
	if v := q.Get("group_id"); v != "" {
		groupID = &v
	}

	messages, err := h.store.ListByUser(r.Context(), session.LineID, groupID)
	if err != nil {
		slog.Error("failed to list messages",
			slog.String("line_id", session.LineID),
			slog.String("error", err.Error()),
		)
		middleware.WriteServiceError(w, err)
		return
	}

	type messageItem struct {
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		Event     string  `json:"event"`
		Notes     string  `json:"notes"`
		Location  string  `json:"location"`
		GroupID   *string `json:"group_id"`
		GroupName *string `json:"group_name"`
	}

	items := make([]messageItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, messageItem{
			Category:  m.Category,
			Date:      m.Date,
			Event:     m.Event,
			Notes:     m.Notes,
			Location:  m.Location,
			GroupID:   m.GroupID,
			GroupName: m.GroupName,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"messages": items,
	})
}
